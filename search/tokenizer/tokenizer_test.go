package tokenizer

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strategies() []Strategy {
	return []Strategy{StrategySegmenter, StrategyFallback}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hello", "hello"},
		{"ＡＢＣ", "abc"},        // full-width latin
		{"ｶﾀｶﾅ", "カタカナ"},      // half-width katakana
		{"e\u0301", "\u00e9"}, // combining acute
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{
		"":           StrategyAuto,
		"auto":       StrategyAuto,
		" Segmenter": StrategySegmenter,
		"fallback":   StrategyFallback,
	} {
		got, err := ParseStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseStrategy("regex")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestProbe(t *testing.T) {
	strategy, err := Probe()
	require.NoError(t, err)
	assert.Equal(t, StrategySegmenter, strategy)
}

func TestNew(t *testing.T) {
	tok, err := New(StrategyAuto)
	require.NoError(t, err)
	assert.Equal(t, StrategySegmenter, tok.Strategy())

	tok, err = New(StrategyFallback)
	require.NoError(t, err)
	assert.Equal(t, StrategyFallback, tok.Strategy())

	_, err = New("bogus")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestTokens_Latin(t *testing.T) {
	want := []string{"good", "goo", "ood", "morning", "mor", "orn", "rni", "nin", "ing"}

	for _, s := range strategies() {
		tok, err := New(s)
		require.NoError(t, err)
		assert.Equal(t, want, tok.Tokens("Good morning"), "strategy %s", s)
	}
}

func TestTokens_ShortWordsHaveNoTrigrams(t *testing.T) {
	for _, s := range strategies() {
		tok, err := New(s)
		require.NoError(t, err)
		assert.Equal(t, []string{"cat", "is", "a"}, tok.Tokens("cat is a"), "strategy %s", s)
	}
}

func TestTokens_CJKCharacters(t *testing.T) {
	for _, s := range strategies() {
		tok, err := New(s)
		require.NoError(t, err)

		tokens := tok.Tokens("日本語を勉強しています")
		for _, r := range "日本語を勉強しています" {
			assert.Contains(t, tokens, string(r), "strategy %s", s)
		}
	}
}

func TestTokens_FallbackKeepsCJKRunTogether(t *testing.T) {
	tok, err := New(StrategyFallback)
	require.NoError(t, err)

	tokens := tok.Tokens("元気ですか？")
	assert.Equal(t, "元気ですか", tokens[0])
	assert.Contains(t, tokens, "元気で")
	assert.Contains(t, tokens, "か")
	assert.NotContains(t, tokens, "？")
}

func TestTokens_FallbackPunctuation(t *testing.T) {
	tok, err := New(StrategyFallback)
	require.NoError(t, err)

	assert.Equal(t, []string{"yes", "no", "ok"}, tok.Tokens("yes,no;ok!"))
	assert.Equal(t, []string{"a", "b"}, tok.Tokens("a　b"))
	assert.Equal(t, []string{"x", "y"}, tok.Tokens("x·y"))
}

func TestTokens_Empty(t *testing.T) {
	for _, s := range strategies() {
		tok, err := New(s)
		require.NoError(t, err)

		assert.Empty(t, tok.Tokens(""))
		assert.Empty(t, tok.Tokens("   "))
		assert.Empty(t, tok.Tokens("?!.,"))
	}
}

func TestTokens_Deterministic(t *testing.T) {
	tok, err := New(StrategySegmenter)
	require.NoError(t, err)

	in := "Thank you very much ありがとうございます"
	first := tok.Tokens(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, tok.Tokens(in))
	}
}

func TestTokens_FullWidthCollapses(t *testing.T) {
	tok, err := New(StrategySegmenter)
	require.NoError(t, err)

	assert.Equal(t, tok.Tokens("abc"), tok.Tokens("ＡＢＣ"))
}

func TestIsCJK(t *testing.T) {
	for _, r := range "日あア한" {
		assert.True(t, IsCJK(r), "%q", r)
	}
	for _, r := range "aé1ö" {
		assert.False(t, IsCJK(r), "%q", r)
	}
	assert.True(t, HasCJK("abc日"))
	assert.False(t, HasCJK("abc"))
}
