// Package fuzzy scores how well a query matches a note.
//
// A field is scored by layered rules, the best one wins:
//
//   - the field contains the query: 100
//   - per white-space word: subsequence density (50-80), edit distance
//     similarity (up to 60), prefix (65) and single-edit windows (40-50)
//   - when no word scored 30 or more, a dense subsequence across the whole
//     field at 0.4 weight
//
// A record scores the best of its two fields and their concatenation.
// Scores are 0 for "no match". Query and text are normalized the same way
// the tokenizer does it, and all lengths are counted in runes. The substring
// rule also checks the lower-cased raw strings, so decomposed text still
// matches its own substrings.
package fuzzy

import (
	"strings"

	"github.com/noelzubin/vocabnotes/search"
	"github.com/noelzubin/vocabnotes/search/tokenizer"
)

// Fixed contributions of the individual rules.
const (
	ExactScore        = 100.0
	PrefixScore       = 65.0
	SubsequenceBase   = 50.0
	SubsequenceWeight = 0.3
	SimilarityWeight  = 60.0
	WindowBase        = 50.0
	WindowEditPenalty = 10.0
	WholeTextWeight   = 0.4
)

// Config holds the tunable thresholds. They are hand-tuned policy values;
// zero fields take the defaults. WindowMaxEdits below zero means exact
// windows only.
type Config struct {
	// Subsequence matches with query/span below this are rejected. Default 0.3.
	DensityFloor float64
	// Edit distance similarity must exceed this to count. Default 0.6.
	SimilarityFloor float64
	// Maximum edits for a query-length window of a word. Default 1,
	// negative for 0.
	WindowMaxEdits int
	// The whole-text fallback runs only when word scores stay below this. Default 30.
	WholeTextGate float64
	// Whole-text subsequence scores must exceed this. Default 70.
	WholeTextFloor float64
}

func DefaultConfig() Config {
	return Config{
		DensityFloor:    0.3,
		SimilarityFloor: 0.6,
		WindowMaxEdits:  1,
		WholeTextGate:   30,
		WholeTextFloor:  70,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DensityFloor <= 0 {
		c.DensityFloor = d.DensityFloor
	}
	if c.SimilarityFloor <= 0 {
		c.SimilarityFloor = d.SimilarityFloor
	}
	switch {
	case c.WindowMaxEdits == 0:
		c.WindowMaxEdits = d.WindowMaxEdits
	case c.WindowMaxEdits < 0:
		c.WindowMaxEdits = 0
	}
	if c.WholeTextGate <= 0 {
		c.WholeTextGate = d.WholeTextGate
	}
	if c.WholeTextFloor <= 0 {
		c.WholeTextFloor = d.WholeTextFloor
	}
	return c
}

// Scorer is stateless apart from its config and safe for concurrent use.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg.withDefaults()}
}

func (s *Scorer) Config() Config {
	return s.cfg
}

// ScoreRecord returns the best score of the query against either field or
// their concatenation.
func (s *Scorer) ScoreRecord(query string, rec search.Record) float64 {
	return max(
		s.ScoreField(query, rec.FieldA),
		s.ScoreField(query, rec.FieldB),
		s.ScoreField(query, rec.Text()),
	)
}

// ScoreField scores the query against one piece of text. The empty query
// scores 0. Any substring of the text as written scores 100, even where
// normalization would compose it away.
func (s *Scorer) ScoreField(query, text string) float64 {
	q := tokenizer.Normalize(query)
	t := tokenizer.Normalize(text)
	if q == "" {
		return 0
	}

	if strings.Contains(t, q) || strings.Contains(strings.ToLower(text), strings.ToLower(query)) {
		return ExactScore
	}

	qr := []rune(q)
	best := 0.0
	for _, word := range strings.Fields(t) {
		best = max(best, s.scoreWord(qr, []rune(word)))
	}

	if best < s.cfg.WholeTextGate {
		whole := s.subsequence(qr, []rune(t))
		if whole > s.cfg.WholeTextFloor {
			best = max(best, whole*WholeTextWeight)
		}
	}
	return best
}

func (s *Scorer) scoreWord(q, word []rune) float64 {
	best := 0.0

	if sub := s.subsequence(q, word); sub > 0 {
		best = max(best, SubsequenceBase+sub*SubsequenceWeight)
	}

	distance := levenshteinRunes(q, word)
	similarity := 1 - float64(distance)/float64(max(len(q), len(word)))
	if similarity > s.cfg.SimilarityFloor {
		best = max(best, similarity*SimilarityWeight)
	}

	if hasPrefix(word, q) {
		best = max(best, PrefixScore)
	}

	for i := 0; i+len(q) <= len(word); i++ {
		d := levenshteinRunes(q, word[i:i+len(q)])
		if d <= s.cfg.WindowMaxEdits {
			best = max(best, WindowBase-float64(d)*WindowEditPenalty)
		}
	}
	return best
}

// Subsequence scores how densely the query's runes appear, in order, in
// text: 100 × len(query) / span of the match, or 0 when the query is not a
// subsequence or the density is below the floor. Matching is greedy from
// the left and case-sensitive; callers lower-case first.
func (s *Scorer) Subsequence(query, text string) float64 {
	return s.subsequence([]rune(query), []rune(text))
}

func (s *Scorer) subsequence(q, text []rune) float64 {
	if len(q) == 0 {
		return 0
	}

	first, last, qi := -1, -1, 0
	for i := 0; i < len(text) && qi < len(q); i++ {
		if text[i] != q[qi] {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		qi++
	}
	if qi != len(q) {
		return 0
	}

	density := float64(len(q)) / float64(last-first+1)
	if density < s.cfg.DensityFloor {
		return 0
	}
	return density * 100
}

func hasPrefix(word, prefix []rune) bool {
	if len(prefix) > len(word) {
		return false
	}
	for i, r := range prefix {
		if word[i] != r {
			return false
		}
	}
	return true
}
