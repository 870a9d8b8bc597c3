// Package format crops case text to fit fixed card and panel layouts.
package format

import "unicode"

// Ellipsis is appended to cropped text.
const Ellipsis = "..."

// Ellipse crops text so it fits within maxLines lines of at most lineLen
// characters each, wrapping at whitespace and breaking words longer than a
// line. Text that fits is returned unchanged; cropped text ends with an
// ellipsis and is never longer than lineLen*maxLines characters.
// Lengths count runes. Non-positive limits yield "".
func Ellipse(lineLen, maxLines int, text string) string {
	if lineLen <= 0 || maxLines <= 0 {
		return ""
	}
	rs := []rune(text)
	index, lines, cur := 0, 1, 0
	for index < len(rs) {
		word := nextWord(rs[index:])
		if cur+word <= lineLen {
			cur += word
			index += word
			continue
		}
		remaining := lineLen - cur
		if word <= lineLen {
			if lines == maxLines {
				return AppendEllipsis(index+remaining, string(rs[:index]))
			}
		} else {
			index += remaining
			if lines == maxLines {
				return AppendEllipsis(index, string(rs[:index]))
			}
		}
		lines++
		cur = 0
	}
	return text
}

// nextWord returns the rune length of the leading whitespace run plus the
// following non-whitespace run.
func nextWord(rs []rune) int {
	n := 0
	for n < len(rs) && unicode.IsSpace(rs[n]) {
		n++
	}
	for n < len(rs) && !unicode.IsSpace(rs[n]) {
		n++
	}
	return n
}

// AppendEllipsis appends an ellipsis to text, trimming text so the result
// stays within maxLen runes. Texts of one or two runes that cannot take a
// full ellipsis become "." or "..".
func AppendEllipsis(maxLen int, text string) string {
	rs := []rune(text)
	if maxLen-len(rs) >= len(Ellipsis) {
		return text + Ellipsis
	}
	switch len(rs) {
	case 0:
		return ""
	case 1:
		return "."
	case 2:
		return ".."
	}
	end := maxLen - len(Ellipsis)
	if end < 0 {
		end = 0
	}
	return string(rs[:end]) + Ellipsis
}
