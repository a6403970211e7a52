// Package engine ranks notes against a query.
//
// An Engine holds a snapshot of the records and a structural token index
// built from them. A query scores every record with the fuzzy scorer, adds
// a boost for records the structural index also found, drops hits below the
// minimum score and returns the rest best first, capped at MaxResults.
//
// Rebuild must be called with the new record set whenever it changes; the
// index is always rebuilt from scratch. Engine methods are safe for
// concurrent use.
package engine

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/noelzubin/vocabnotes/search"
	"github.com/noelzubin/vocabnotes/search/bleve_indexer"
	"github.com/noelzubin/vocabnotes/search/fuzzy"
	"github.com/noelzubin/vocabnotes/search/memindex"
	"github.com/noelzubin/vocabnotes/search/tokenizer"
	"go.uber.org/zap"
)

type Engine struct {
	opts   Options
	log    *zap.SugaredLogger
	tok    *tokenizer.Tokenizer
	scorer *fuzzy.Scorer

	// Replaced in tests.
	scoreFn func(query string, rec search.Record) float64

	mu      sync.RWMutex
	index   search.StructuralIndex
	indexed bool // index reflects records
	records []search.Record
}

// New returns an engine with an empty record set.
func New(opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	strategy := opts.Strategy
	if strategy == tokenizer.StrategyAuto {
		var err error
		if strategy, err = tokenizer.Probe(); err != nil {
			log.Warnw("Word segmenter unavailable, using fallback tokenizer", "error", err)
		}
	}

	tok, err := tokenizer.New(strategy)
	if err != nil {
		return nil, err
	}

	index, err := newIndex(opts.Backend, tok)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts:    opts,
		log:     log,
		tok:     tok,
		scorer:  fuzzy.NewScorer(opts.Fuzzy),
		index:   index,
		indexed: true,
	}
	e.scoreFn = e.scorer.ScoreRecord

	log.Debugw("Search engine ready",
		"tokenizer", tok.Strategy(),
		"backend", opts.Backend)
	return e, nil
}

func newIndex(backend Backend, tok *tokenizer.Tokenizer) (search.StructuralIndex, error) {
	switch backend {
	case BackendMemory:
		return memindex.New(tok), nil
	case BackendBleve:
		return bleve_indexer.NewBleveIndexer(tok)
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
}

// Rebuild replaces the record set and rebuilds the structural index from it
// before returning. If the index fails to build, queries still score the
// new records but skip the structural boost until the next successful
// rebuild.
func (e *Engine) Rebuild(records []search.Record) error {
	snapshot := slices.Clone(records)
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = snapshot
	if err := e.index.Rebuild(snapshot); err != nil {
		e.indexed = false
		return errors.Wrapf(err, "rebuild index over %d records", len(snapshot))
	}
	e.indexed = true

	e.log.Debugw("Rebuilt search index",
		"records", len(snapshot),
		"took", time.Since(start))
	return nil
}

// Query returns the matching records, best first. The empty (or all white
// space) query returns nothing.
func (e *Engine) Query(q string) []search.Record {
	return e.QueryWithScores(q).Records()
}

// QueryWithScores is Query with the final score of every hit.
func (e *Engine) QueryWithScores(q string) search.Hits {
	hits, _ := e.rank(q)
	return hits
}

// Search runs a query and reports a structural lookup failure alongside the
// ranked hits, which are still complete apart from the boost.
func (e *Engine) Search(q string) search.SearchResult {
	hits, err := e.rank(q)
	return search.SearchResult{
		Query: strings.TrimSpace(q),
		Hits:  hits,
		Err:   err,
	}
}

func (e *Engine) rank(q string) (search.Hits, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return search.Hits{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	structural, err := e.structuralHits(q)
	if err != nil {
		e.log.Warnw("Structural lookup failed, ranking without boost",
			"query", q,
			"error", err)
	}

	hits := make(search.Hits, 0)
	for _, rec := range e.records {
		score := e.score(q, rec)
		if _, ok := structural[rec.ID]; ok {
			score += e.opts.StructuralBoost
		}
		if score > 0 && score >= e.opts.MinScore {
			hits = append(hits, search.Hit{Record: rec, Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > e.opts.MaxResults {
		hits = hits[:e.opts.MaxResults]
	}
	return hits, err
}

func (e *Engine) structuralHits(q string) (map[string]struct{}, error) {
	if !e.indexed {
		return nil, nil
	}
	ids, err := e.index.Search(q, e.opts.StructuralLimit)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// score treats a record that cannot be scored as no match, so one bad
// record never aborts the query.
func (e *Engine) score(q string, rec search.Record) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorw("Scoring record failed",
				"record", rec.ID,
				"panic", r)
			score = 0
		}
	}()
	return e.scoreFn(q, rec)
}

// Records returns the current record snapshot.
func (e *Engine) Records() []search.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.records)
}

func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.records)
}

func (e *Engine) Strategy() tokenizer.Strategy {
	return e.tok.Strategy()
}

func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = nil
	return e.index.Close()
}
