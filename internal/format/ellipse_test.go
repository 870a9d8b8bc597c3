package format

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEllipseFits(t *testing.T) {
	assert.Equal(t, "short text", Ellipse(20, 1, "short text"))
	assert.Equal(t, "two lines of text", Ellipse(10, 2, "two lines of text"))
	assert.Equal(t, "", Ellipse(10, 2, ""))
}

func TestEllipseCrops(t *testing.T) {
	got := Ellipse(10, 1, "the quick brown fox")
	assert.Equal(t, "the qui...", got)

	got = Ellipse(10, 2, "the quick brown fox jumps over")
	assert.True(t, strings.HasSuffix(got, Ellipsis))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 20)
	assert.True(t, strings.HasPrefix(got, "the quick"))
}

func TestEllipseBreaksLongWords(t *testing.T) {
	got := Ellipse(5, 1, "abcdefghij")
	assert.Equal(t, "ab...", got)
}

func TestEllipseBound(t *testing.T) {
	text := "Section 106 review of the proposed replacement of the historic bridge over the river near the old mill"
	for lineLen := 1; lineLen <= 30; lineLen++ {
		for lines := 1; lines <= 4; lines++ {
			got := Ellipse(lineLen, lines, text)
			if got == text {
				continue
			}
			assert.LessOrEqual(t, utf8.RuneCountInString(got), lineLen*lines, "lineLen=%d lines=%d", lineLen, lines)
			assert.True(t, strings.HasSuffix(got, "."), "lineLen=%d lines=%d got=%q", lineLen, lines, got)
		}
	}
}

func TestEllipseNonPositive(t *testing.T) {
	assert.Equal(t, "", Ellipse(0, 3, "text"))
	assert.Equal(t, "", Ellipse(10, 0, "text"))
	assert.Equal(t, "", Ellipse(-1, -1, "text"))
}

func TestAppendEllipsis(t *testing.T) {
	assert.Equal(t, "abc...", AppendEllipsis(10, "abc"))
	assert.Equal(t, "", AppendEllipsis(1, ""))
	assert.Equal(t, ".", AppendEllipsis(2, "a"))
	assert.Equal(t, "..", AppendEllipsis(3, "ab"))
	assert.Equal(t, "abcd...", AppendEllipsis(7, "abcdefgh"))
	assert.Equal(t, "...", AppendEllipsis(2, "abcdef"))
}

func TestCaseNumber(t *testing.T) {
	assert.Equal(t, "01", CaseNumber(0))
	assert.Equal(t, "09", CaseNumber(8))
	assert.Equal(t, "10", CaseNumber(9))
	assert.Equal(t, "123", CaseNumber(122))
}
