package bleve_indexer

import (
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	"github.com/cockroachdb/errors"
	"github.com/noelzubin/vocabnotes/search"
	"github.com/noelzubin/vocabnotes/search/tokenizer"
	"github.com/samber/lo"

	_ "github.com/blevesearch/bleve/v2/config"
	bleveSearch "github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	tokenizerType = "vocabnotes_tokenizer" // registered tokenizer constructor
	tokenizerName = "vocabnotes"           // tokenizer instance in the mapping
	analyzerName  = "vocabnotes"
	textField     = "text"

	// Query terms at least this long are also looked up with one edit of slack.
	suggestMinRunes = 4
)

func init() {
	registry.RegisterTokenizer(tokenizerType, newBleveTokenizer)
}

// bleveIndexer is the implementation of the StructuralIndex interface
// backed by an in-memory bleve index.
type bleveIndexer struct {
	tok     *tokenizer.Tokenizer
	mapping mapping.IndexMapping
	index   bleve.Index
}

// NewBleveIndexer returns an empty index that analyses text with tok.
func NewBleveIndexer(tok *tokenizer.Tokenizer) (*bleveIndexer, error) {
	m, err := NewMapping(tok.Strategy())
	if err != nil {
		return nil, err
	}
	index, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, errors.Wrap(err, "create bleve index")
	}
	return &bleveIndexer{tok: tok, mapping: m, index: index}, nil
}

// NewMapping returns an index mapping whose default analyzer runs the
// tokenizer with the given strategy.
func NewMapping(strategy tokenizer.Strategy) (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()
	m.StoreDynamic = false
	m.DocValuesDynamic = false

	err := m.AddCustomTokenizer(tokenizerName, map[string]interface{}{
		"type":     tokenizerType,
		"strategy": string(strategy),
	})
	if err != nil {
		return nil, errors.Wrap(err, "add tokenizer")
	}

	err = m.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": tokenizerName,
	})
	if err != nil {
		return nil, errors.Wrap(err, "add analyzer")
	}

	m.DefaultAnalyzer = analyzerName
	return m, nil
}

// Rebuild indexes records into a fresh index and swaps it in.
func (s *bleveIndexer) Rebuild(records []search.Record) error {
	index, err := bleve.NewMemOnly(s.mapping)
	if err != nil {
		return errors.Wrap(err, "create bleve index")
	}

	batch := index.NewBatch()
	for _, rec := range records {
		if err := batch.Index(rec.ID, Note{Text: rec.Text()}); err != nil {
			index.Close()
			return errors.Wrapf(err, "index record %s", rec.ID)
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return errors.Wrap(err, "apply batch")
		}
	}

	old := s.index
	s.index = index
	if old != nil {
		old.Close()
	}
	return nil
}

// Search ORs a term query for every query token. Long tokens also get a
// fuzzy query, so a typo in a whole word can still find its record.
// Results are ordered by bleve score, then id.
func (s *bleveIndexer) Search(qry string, limit int) ([]string, error) {
	if limit <= 0 || s.index == nil {
		return nil, nil
	}

	terms := lo.Uniq(s.tok.Tokens(qry))
	if len(terms) == 0 {
		return nil, nil
	}

	disjuncts := make([]query.Query, 0, 2*len(terms))
	for _, term := range terms {
		tq := bleve.NewTermQuery(term)
		tq.SetField(textField)
		disjuncts = append(disjuncts, tq)

		if utf8.RuneCountInString(term) >= suggestMinRunes {
			fq := bleve.NewFuzzyQuery(term)
			fq.SetField(textField)
			fq.SetFuzziness(1)
			disjuncts = append(disjuncts, fq)
		}
	}

	searchRequest := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(disjuncts...), limit, 0, false)
	searchRequest.SortBy([]string{"-_score", "_id"})

	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", qry)
	}

	return lo.Map(searchResult.Hits, func(hit *bleveSearch.DocumentMatch, _ int) string {
		return hit.ID
	}), nil
}

func (s *bleveIndexer) Len() int {
	if s.index == nil {
		return 0
	}
	n, err := s.index.DocCount()
	if err != nil {
		return 0
	}
	return int(n)
}

func (s *bleveIndexer) Close() error {
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

// Note is the struct that is indexed
type Note struct {
	Text string `json:"text"`
}

// bleveTokenizer adapts tokenizer.Tokenizer to bleve's analysis chain.
type bleveTokenizer struct {
	tok *tokenizer.Tokenizer
}

func newBleveTokenizer(config map[string]interface{}, cache *registry.Cache) (analysis.Tokenizer, error) {
	name, _ := config["strategy"].(string)
	strategy, err := tokenizer.ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	tok, err := tokenizer.New(strategy)
	if err != nil {
		return nil, err
	}
	return &bleveTokenizer{tok: tok}, nil
}

func (t *bleveTokenizer) Tokenize(input []byte) analysis.TokenStream {
	terms := t.tok.Tokens(string(input))
	stream := make(analysis.TokenStream, 0, len(terms))
	for i, term := range terms {
		stream = append(stream, &analysis.Token{
			Term:     []byte(term),
			Start:    0,
			End:      len(input),
			Position: i + 1,
			Type:     analysis.AlphaNumeric,
		})
	}
	return stream
}

var _ search.StructuralIndex = (*bleveIndexer)(nil)
