// Package plan combines a parsed query and a parsed filter into a single
// executable plan node.
package plan

import (
	"github.com/gcbaptista/go-query-planner/internal/queryutil"
	"github.com/gcbaptista/go-query-planner/model"
)

// FilterCacher returns a filter equivalent to filter, possibly backed by a
// shared cached instance. Calling it twice with equal filters and keys must
// give behaviourally identical results.
type FilterCacher interface {
	CacheFilter(filter model.Filter, key *model.CacheKey) model.Filter
}

// FilterCacherFunc adapts a function to the FilterCacher interface.
type FilterCacherFunc func(filter model.Filter, key *model.CacheKey) model.Filter

func (f FilterCacherFunc) CacheFilter(filter model.Filter, key *model.CacheKey) model.Filter {
	return f(filter, key)
}

// FilteredSpec holds the fields read from a filtered query specification.
// Query and Filter are always set by the time a spec reaches the Builder.
type FilteredSpec struct {
	Query    model.Query
	Filter   model.Filter
	Boost    float64
	Cache    bool
	CacheKey *model.CacheKey // nil when no key was given
}

// NewFilteredSpec returns a spec with the default boost and caching disabled.
func NewFilteredSpec() FilteredSpec {
	return FilteredSpec{Boost: model.DefaultBoost}
}

// Builder turns a FilteredSpec into a plan node. It keeps no state between
// calls and may be shared across goroutines.
type Builder struct {
	cacher FilterCacher
}

// NewBuilder creates a Builder that caches filters through cacher. A nil
// cacher leaves filters untouched even when caching is requested.
func NewBuilder(cacher FilterCacher) *Builder {
	return &Builder{cacher: cacher}
}

// Build produces exactly one plan node for spec. It never fails.
func (b *Builder) Build(spec FilteredSpec) model.Plan {
	filter := spec.Filter
	switch {
	case spec.Cache && b.cacher != nil:
		filter = b.cacher.CacheFilter(filter, spec.CacheKey)
	case spec.Cache:
		// no cache configured
	default:
		// A cache key without _cache is accepted and has no effect.
	}

	// The match_all query adds nothing to the result, so score every document
	// the filter accepts with the boost alone.
	if queryutil.IsMatchAllQuery(spec.Query) {
		return model.NewConstantScoreQuery(filter, spec.Boost)
	}

	return model.NewFilteredQuery(spec.Query, filter, spec.Boost)
}
