package engine

import (
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-query-planner/config"
	"github.com/gcbaptista/go-query-planner/internal/errors"
	"github.com/gcbaptista/go-query-planner/internal/filtercache"
	"github.com/gcbaptista/go-query-planner/internal/metrics"
	"github.com/gcbaptista/go-query-planner/internal/parser"
	"github.com/gcbaptista/go-query-planner/internal/tokenizer"
	"github.com/gcbaptista/go-query-planner/model"
	"github.com/gcbaptista/go-query-planner/services"
)

// KindQuery is reported when the root of a specification is a plain query
// rather than a plan node.
const KindQuery = "query"

// Engine plans query specifications against a shared parser registry and
// filter cache. It implements the services.QueryPlanner interface and is
// safe for concurrent use.
type Engine struct {
	registry *parser.Registry
	cache    *filtercache.Cache
	log      *slog.Logger
}

// NewEngine creates a planner engine from settings. A nil logger falls back
// to slog.Default().
func NewEngine(settings config.PlannerSettings, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	registry := parser.DefaultRegistry()
	if len(settings.MatchStopWords) > 0 {
		registry.RegisterQueryParser(parser.NewMatchQueryParser(tokenizer.NewStopWordAnalyzer(settings.MatchStopWords)))
	}
	return &Engine{
		registry: registry,
		cache:    filtercache.New(settings.FilterCacheSize),
		log:      log.With("component", "engine"),
	}
}

// Registry returns the parser registry. Register custom parsers before the
// engine starts serving.
func (e *Engine) Registry() *parser.Registry { return e.registry }

// Plan parses source and builds its plan.
func (e *Engine) Plan(source []byte) (services.PlanResult, error) {
	start := time.Now()

	query, err := parser.ParseQuery(source, e.registry, e.cache)
	took := time.Since(start)
	metrics.PlanDuration.Observe(took.Seconds())

	if err != nil {
		reason := failureReason(err)
		metrics.PlanFailures.WithLabelValues(reason).Inc()
		e.log.Warn("failed to plan query", "reason", reason, "error", err)
		return services.PlanResult{}, err
	}

	kind := KindQuery
	if plan, ok := query.(model.Plan); ok {
		kind = string(model.PlanKindOf(plan))
	}
	metrics.PlansBuilt.WithLabelValues(kind).Inc()

	result := services.PlanResult{
		PlanID:    uuid.New().String(),
		Kind:      kind,
		Canonical: query.String(),
		Plan:      query.Describe(),
		Took:      took,
		Query:     query,
	}
	e.log.Debug("plan built", "plan_id", result.PlanID, "kind", kind, "took", took)
	return result, nil
}

// CacheStats returns a snapshot of the filter cache counters.
func (e *Engine) CacheStats() filtercache.Stats {
	return e.cache.Stats()
}

// ClearCache drops every cached filter.
func (e *Engine) ClearCache() {
	e.cache.Clear()
	e.log.Info("filter cache cleared")
}

func failureReason(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrUnknownQueryType):
		return "unknown_type"
	case stderrors.Is(err, errors.ErrMalformedSpecification):
		return "malformed"
	default:
		return "other"
	}
}
