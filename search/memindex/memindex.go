// Package memindex is the in-memory inverted token index used for
// structural lookups.
//
// Every rebuild replaces the whole index; there are no incremental updates.
// An Index is not safe for concurrent use.
package memindex

import (
	"sort"

	"github.com/noelzubin/vocabnotes/search"
	"github.com/noelzubin/vocabnotes/search/fuzzy"
	"github.com/noelzubin/vocabnotes/search/tokenizer"
	"github.com/samber/lo"
)

// Query tokens at least this long may be matched approximately.
const suggestMinRunes = 4

type Index struct {
	tok      *tokenizer.Tokenizer
	suggest  bool
	ids      []string         // ordinal -> record id
	postings map[string][]int // token -> ascending ordinals
	vocab    []string         // sorted tokens, for suggestions
}

type Option func(*Index)

// WithoutSuggest disables approximate token lookup.
func WithoutSuggest() Option {
	return func(idx *Index) { idx.suggest = false }
}

func New(tok *tokenizer.Tokenizer, opts ...Option) *Index {
	idx := &Index{
		tok:      tok,
		suggest:  true,
		postings: map[string][]int{},
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Rebuild clears the index and indexes the combined text of every record.
func (idx *Index) Rebuild(records []search.Record) error {
	ids := make([]string, len(records))
	postings := make(map[string][]int)

	for i, rec := range records {
		ids[i] = rec.ID
		for _, token := range lo.Uniq(idx.tok.Tokens(rec.Text())) {
			postings[token] = append(postings[token], i)
		}
	}

	vocab := lo.Keys(postings)
	sort.Strings(vocab)

	idx.ids, idx.postings, idx.vocab = ids, postings, vocab
	return nil
}

// Search returns the ids of records sharing at least one token with the
// query. Records matching more distinct query tokens come first, then
// records in indexing order. Query tokens with no exact entry are matched
// against indexed tokens one edit away when suggestions are enabled.
func (idx *Index) Search(query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	counts := map[int]int{}
	for _, token := range lo.Uniq(idx.tok.Tokens(query)) {
		ords, ok := idx.postings[token]
		if !ok && idx.suggest {
			ords = idx.suggestions(token)
		}
		for _, ord := range ords {
			counts[ord]++
		}
	}
	if len(counts) == 0 {
		return nil, nil
	}

	ords := lo.Keys(counts)
	sort.Slice(ords, func(i, j int) bool {
		if counts[ords[i]] != counts[ords[j]] {
			return counts[ords[i]] > counts[ords[j]]
		}
		return ords[i] < ords[j]
	})

	seen := make(map[string]struct{}, len(ords))
	hits := make([]string, 0, min(limit, len(ords)))
	for _, ord := range ords {
		id := idx.ids[ord]
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		hits = append(hits, id)
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

// suggestions merges the postings of every indexed token within one edit
// of token.
func (idx *Index) suggestions(token string) []int {
	n := len([]rune(token))
	if n < suggestMinRunes {
		return nil
	}

	var merged []int
	for _, candidate := range idx.vocab {
		m := len([]rune(candidate))
		if m < n-1 || m > n+1 {
			continue
		}
		if fuzzy.Levenshtein(token, candidate) <= 1 {
			merged = append(merged, idx.postings[candidate]...)
		}
	}
	return lo.Uniq(merged)
}

func (idx *Index) Len() int {
	return len(idx.ids)
}

// Tokens returns the number of distinct indexed tokens.
func (idx *Index) Tokens() int {
	return len(idx.vocab)
}

func (idx *Index) Close() error {
	idx.ids, idx.postings, idx.vocab = nil, map[string][]int{}, nil
	return nil
}

var _ search.StructuralIndex = (*Index)(nil)
