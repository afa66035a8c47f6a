package cleanup

import (
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/alchemorsel/cookbook/pkg/errors"
)

// StrategyName identifies which cascade member produced a Result.
type StrategyName string

const (
	StrategyStructured    StrategyName = "STRUCTURED_DATA"
	StrategySection       StrategyName = "SECTION_BASED"
	StrategyContentFilter StrategyName = "CONTENT_FILTER"
	StrategyFallback      StrategyName = "FALLBACK"
	StrategyDisabled      StrategyName = "DISABLED"
)

// Strategy is a pure function: html in, maybe-fragment out. The engine
// never mutates a Strategy nor shares state between invocations (§9).
type Strategy func(html string, cfg Config) (fragment string, ok bool)

// Result is the engine's per-request output (§4.2).
type Result struct {
	CleanedHTML    string
	OriginalSize   int
	CleanedSize    int
	ReductionRatio float64
	StrategyUsed   StrategyName
	Message        string
}

// Counters exposes the engine's observability hooks; RecordStrategy is
// called when a strategy is accepted, when one panics (swallowed error),
// and when the fallback is used. A strategy that declines is not recorded.
type Counters interface {
	RecordStrategy(name StrategyName, outcome string)
}

// noopCounters discards all recordings; used when the caller doesn't
// wire a Prometheus-backed Counters implementation.
type noopCounters struct{}

func (noopCounters) RecordStrategy(StrategyName, string) {}

// Engine runs the ordered strategy cascade of §4.2.
type Engine struct {
	cascade  []namedStrategy
	logger   *zap.Logger
	counters Counters
}

type namedStrategy struct {
	name StrategyName
	fn   Strategy
}

// NewEngine builds the structured → section → content-filter cascade in
// priority order; the fourth member, fallback, is applied by Clean itself.
func NewEngine(logger *zap.Logger, counters Counters) *Engine {
	if counters == nil {
		counters = noopCounters{}
	}
	return &Engine{
		logger:   logger,
		counters: counters,
		cascade: []namedStrategy{
			{StrategyStructured, StructuredDataStrategy},
			{StrategySection, SectionBasedStrategy},
			{StrategyContentFilter, ContentFilterStrategy},
		},
	}
}

// Clean runs the cascade against html and returns the first non-empty
// result, falling back to the unmodified input when every strategy
// yields empty or panics (§4.2).
func (e *Engine) Clean(html string, cfg Config) Result {
	original := len(html)

	if !cfg.Enabled {
		return Result{
			CleanedHTML:  html,
			OriginalSize: original,
			CleanedSize:  original,
			StrategyUsed: StrategyDisabled,
			Message:      "cleanup disabled",
		}
	}

	for _, s := range e.cascade {
		fragment, ok := e.runStrategy(s, html, cfg)
		if !ok {
			continue
		}
		cleaned := len(fragment)
		ratio := 0.0
		if original > 0 {
			ratio = 1 - float64(cleaned)/float64(original)
		}
		e.counters.RecordStrategy(s.name, "accepted")
		return Result{
			CleanedHTML:    fragment,
			OriginalSize:   original,
			CleanedSize:    cleaned,
			ReductionRatio: ratio,
			StrategyUsed:   s.name,
		}
	}

	msg := ""
	if original < cfg.Fallback.MinSafeSize {
		msg = fmt.Sprintf("input size %d below fallback.min_safe_size %d", original, cfg.Fallback.MinSafeSize)
	}
	e.counters.RecordStrategy(StrategyFallback, "used")
	return Result{
		CleanedHTML:  html,
		OriginalSize: original,
		CleanedSize:  original,
		StrategyUsed: StrategyFallback,
		Message:      msg,
	}
}

// runStrategy invokes s, recovering from any panic and treating it as a
// caught, counted CleanupError — the pipeline always continues (§4.2
// Failure, §7 CleanupError).
func (e *Engine) runStrategy(s namedStrategy, html string, cfg Config) (fragment string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.NewCleanupError(string(s.name), fmt.Errorf("%v", r))
			if e.logger != nil {
				e.logger.Warn("cleanup strategy panicked", zap.String("strategy", string(s.name)), zap.Error(err))
			}
			e.counters.RecordStrategy(s.name, "error")
			fragment, ok = "", false
		}
	}()
	fragment, ok = s.fn(html, cfg)
	return fragment, ok
}
