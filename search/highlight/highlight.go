// Package highlight finds the parts of a note that a query's words match,
// for rendering.
package highlight

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Span is a half-open range of rune offsets.
type Span struct {
	Start, End int
}

// Spans returns the non-overlapping occurrences of the query's white-space
// separated terms in text, in text order, ignoring case and full-width or
// half-width forms. Where terms overlap at one position the longest wins.
func Spans(text, query string) []Span {
	terms := terms(query)
	if len(terms) == 0 || text == "" {
		return nil
	}

	hay := lowerRunes(text)
	var spans []Span
	for i := 0; i < len(hay); {
		n := longestMatch(hay[i:], terms)
		if n == 0 {
			i++
			continue
		}
		spans = append(spans, Span{Start: i, End: i + n})
		i += n
	}
	return spans
}

// Apply rebuilds text with every matched part passed through mark.
func Apply(text, query string, mark func(string) string) string {
	spans := Spans(text, query)
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(string(runes[prev:s.Start]))
		b.WriteString(mark(string(runes[s.Start:s.End])))
		prev = s.End
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}

func terms(query string) [][]rune {
	var out [][]rune
	for _, f := range strings.Fields(query) {
		out = append(out, lowerRunes(f))
	}
	return out
}

func longestMatch(hay []rune, terms [][]rune) int {
	best := 0
	for _, term := range terms {
		if len(term) > best && hasPrefix(hay, term) {
			best = len(term)
		}
	}
	return best
}

func hasPrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if s[i] != prefix[i] {
			return false
		}
	}
	return true
}

// lowerRunes folds width and case rune by rune so offsets line up with the
// input.
func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		if folded := width.LookupRune(r).Folded(); folded != 0 {
			r = folded
		}
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
