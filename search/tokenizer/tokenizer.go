// Package tokenizer turns note text into index keys.
//
// Text is normalized (NFKC, lower case) and split into word-like units by one
// of two strategies, picked once when a Tokenizer is built:
//
//   - StrategySegmenter uses Unicode (UAX #29) word segmentation.
//   - StrategyFallback splits on white space and a fixed set of Latin and
//     full-width punctuation.
//
// Every unit is emitted as a token. Units longer than three runes also emit
// all their rune trigrams, and units containing CJK script emit each rune on
// its own.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/blevesearch/segment"
	"github.com/cockroachdb/errors"
	"golang.org/x/text/unicode/norm"
)

type Strategy string

const (
	StrategyAuto      Strategy = "auto"
	StrategySegmenter Strategy = "segmenter"
	StrategyFallback  Strategy = "fallback"
)

// Units longer than this also produce trigrams.
const trigramMinRunes = 4

var (
	ErrSegmenterUnavailable = errors.New("unicode word segmentation unavailable")
	ErrUnknownStrategy      = errors.New("unknown tokenizer strategy")
)

// ParseStrategy maps a config value onto a Strategy. Empty means auto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategySegmenter:
		return StrategySegmenter, nil
	case StrategyFallback:
		return StrategyFallback, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(ErrUnknownStrategy, "%q", s),
		"use one of: auto, segmenter, fallback",
	)
}

// Probe checks whether the word segmenter works in this build. On failure it
// returns StrategyFallback together with an error marked
// ErrSegmenterUnavailable.
func Probe() (Strategy, error) {
	words, err := segmentWords("probe 単語")
	if err != nil {
		return StrategyFallback, errors.Mark(errors.Wrap(err, "probe segmenter"), ErrSegmenterUnavailable)
	}
	if len(words) == 0 || words[0] != "probe" {
		return StrategyFallback, errors.Wrapf(ErrSegmenterUnavailable, "probe segmenter: got %q", words)
	}
	return StrategySegmenter, nil
}

// Tokenizer is immutable and safe for concurrent use.
type Tokenizer struct {
	strategy Strategy
	units    func(string) []string
}

// New builds a Tokenizer. StrategyAuto probes for the segmenter and uses the
// fallback splitter when it is unavailable.
func New(strategy Strategy) (*Tokenizer, error) {
	if strategy == "" || strategy == StrategyAuto {
		strategy, _ = Probe()
	}

	switch strategy {
	case StrategySegmenter:
		return &Tokenizer{strategy: strategy, units: segmenterUnits}, nil
	case StrategyFallback:
		return &Tokenizer{strategy: strategy, units: fallbackUnits}, nil
	}
	return nil, errors.Wrapf(ErrUnknownStrategy, "%q", strategy)
}

func (t *Tokenizer) Strategy() Strategy {
	return t.strategy
}

// Tokens returns the index keys of s, in emission order and with duplicates.
func (t *Tokenizer) Tokens(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}

	var tokens []string
	for _, unit := range t.units(normalized) {
		tokens = appendUnitTokens(tokens, unit)
	}
	return tokens
}

// Normalize applies NFKC and lower-cases the result.
func Normalize(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

func appendUnitTokens(tokens []string, unit string) []string {
	tokens = append(tokens, unit)

	runes := []rune(unit)
	if len(runes) >= trigramMinRunes {
		for i := 0; i+3 <= len(runes); i++ {
			tokens = append(tokens, string(runes[i:i+3]))
		}
	}

	if HasCJK(unit) {
		for _, r := range runes {
			tokens = append(tokens, string(r))
		}
	}
	return tokens
}

// IsCJK reports whether r is in the CJK Unified Ideographs, Hiragana,
// Katakana or Hangul Syllables block.
func IsCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF:
		return true
	case r >= 0x3040 && r <= 0x309F:
		return true
	case r >= 0x30A0 && r <= 0x30FF:
		return true
	case r >= 0xAC00 && r <= 0xD7AF:
		return true
	}
	return false
}

func HasCJK(s string) bool {
	return strings.IndexFunc(s, IsCJK) >= 0
}

func segmenterUnits(s string) []string {
	words, err := segmentWords(s)
	if err != nil {
		// The segmenter only fails on invalid input; keep whatever the
		// fallback splitter can make of it.
		return fallbackUnits(s)
	}
	return words
}

func segmentWords(s string) ([]string, error) {
	seg := segment.NewWordSegmenterDirect([]byte(s))

	var words []string
	for seg.Segment() {
		if seg.Type() == segment.None {
			continue
		}
		words = append(words, string(seg.Bytes()))
	}
	return words, seg.Err()
}

func fallbackUnits(s string) []string {
	return strings.FieldsFunc(s, isSeparator)
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case ',', '，', '.', '。', '!', '！', '?', '？', ';', '；', ':', '：', '、', '·':
		return true
	}
	return false
}
