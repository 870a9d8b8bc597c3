package format

import "strconv"

// CaseNumber is the list label of the case at zero-based index i:
// "01" through "09", then "10", "11", and so on.
func CaseNumber(i int) string {
	if i < 9 {
		return "0" + strconv.Itoa(i+1)
	}
	return strconv.Itoa(i + 1)
}
