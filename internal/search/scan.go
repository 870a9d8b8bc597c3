package search

import "strings"

// scoredDoc is a pre-tokenized document for the in-process scorer.
type scoredDoc struct {
	id     string
	fields [][]string // parallel to columns
}

func newScoredDoc(d Document) scoredDoc {
	values := []string{d.ID, d.Title, PlainText(d.Body), d.Agency, d.POCName, d.States, d.Status}
	fields := make([][]string, len(values))
	for i, v := range values {
		fields[i] = Tokens(v)
	}
	return scoredDoc{id: d.ID, fields: fields}
}

// score returns the weighted, length-normalised prefix match score of doc
// against every token. A token that matches no field rejects the document.
func (d scoredDoc) score(tokens []string) (float64, bool) {
	total := 0.0
	for _, t := range tokens {
		tokenScore := 0.0
		for col, words := range d.fields {
			if len(words) == 0 {
				continue
			}
			hits := 0
			for _, w := range words {
				if strings.HasPrefix(w, t) {
					hits++
				}
			}
			if hits > 0 {
				tokenScore += weights[col] * float64(hits) / float64(len(words))
			}
		}
		if tokenScore == 0 {
			return 0, false
		}
		total += tokenScore
	}
	return total, true
}

func (ix *Index) queryScan(tokens []string) []Result {
	var results []Result
	for _, d := range ix.docs {
		if s, ok := d.score(tokens); ok {
			results = append(results, Result{Ref: d.id, Score: s})
		}
	}
	return results
}
