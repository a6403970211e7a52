package engine

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/noelzubin/vocabnotes/search/fuzzy"
	"github.com/noelzubin/vocabnotes/search/tokenizer"
	"go.uber.org/zap"
)

// Ranking policy. These are hand-tuned precision/recall trade-offs rather
// than derived values.
const (
	DefaultMinScore        = 30.0
	DefaultStructuralBoost = 20.0
	DefaultMaxResults      = 50
	DefaultStructuralLimit = 100
)

type Backend string

const (
	BackendMemory Backend = "memory"
	BackendBleve  Backend = "bleve"
)

var ErrUnknownBackend = errors.New("unknown index backend")

func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendMemory:
		return BackendMemory, nil
	case BackendBleve:
		return BackendBleve, nil
	}
	return "", errors.WithHint(errors.Wrapf(ErrUnknownBackend, "%q", s), "use one of: memory, bleve")
}

// Options configures an Engine. Zero fields take the defaults; MinScore and
// StructuralBoost take a negative value to mean 0.
type Options struct {
	// Hits scoring below this are dropped. Negative keeps every hit
	// scoring above 0.
	MinScore float64
	// Added to the fuzzy score of records the structural index also found.
	// Negative disables the boost.
	StructuralBoost float64
	// Maximum number of ranked hits returned.
	MaxResults int
	// Maximum number of structural candidates looked up per query.
	StructuralLimit int

	Strategy tokenizer.Strategy
	Backend  Backend
	Fuzzy    fuzzy.Config

	Logger *zap.SugaredLogger
}

// DefaultOptions returns the ranking policy with an auto-probed tokenizer
// and the in-memory index.
func DefaultOptions() Options {
	return Options{
		MinScore:        DefaultMinScore,
		StructuralBoost: DefaultStructuralBoost,
		MaxResults:      DefaultMaxResults,
		StructuralLimit: DefaultStructuralLimit,
		Strategy:        tokenizer.StrategyAuto,
		Backend:         BackendMemory,
		Fuzzy:           fuzzy.DefaultConfig(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	switch {
	case o.MinScore == 0:
		o.MinScore = d.MinScore
	case o.MinScore < 0:
		o.MinScore = 0
	}
	switch {
	case o.StructuralBoost == 0:
		o.StructuralBoost = d.StructuralBoost
	case o.StructuralBoost < 0:
		o.StructuralBoost = 0
	}
	if o.MaxResults <= 0 {
		o.MaxResults = d.MaxResults
	}
	if o.StructuralLimit <= 0 {
		o.StructuralLimit = d.StructuralLimit
	}
	if o.Strategy == "" {
		o.Strategy = d.Strategy
	}
	if o.Backend == "" {
		o.Backend = d.Backend
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return o
}
