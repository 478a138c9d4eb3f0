// Package testing provides utilities and helpers for testing the query planner.
package testing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-query-planner/model"
)

// CacheCall records one request made to a RecordingCacher.
type CacheCall struct {
	Filter model.Filter
	Key    *model.CacheKey
}

// MarkedFilter is what a RecordingCacher hands back: the original filter,
// visibly wrapped so tests can tell it went through the cacher.
type MarkedFilter struct {
	model.Filter
	Key *model.CacheKey
}

// Unwrap returns the filter the cacher was given.
func (m *MarkedFilter) Unwrap() model.Filter { return m.Filter }

// RecordingCacher wraps every filter it is asked to cache and remembers the
// calls. It is safe for concurrent use.
type RecordingCacher struct {
	mu    sync.Mutex
	calls []CacheCall
}

func (r *RecordingCacher) CacheFilter(filter model.Filter, key *model.CacheKey) model.Filter {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, CacheCall{Filter: filter, Key: key})
	return &MarkedFilter{Filter: filter, Key: key}
}

// Calls returns a copy of the recorded calls.
func (r *RecordingCacher) Calls() []CacheCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CacheCall(nil), r.calls...)
}

// CacheKey returns a pointer to a new cache key.
func CacheKey(value string) *model.CacheKey {
	key := model.NewCacheKey(value)
	return &key
}

// RequireConstantScore fails the test unless query is a constant score plan.
func RequireConstantScore(t *testing.T, query model.Query) *model.ConstantScoreQuery {
	t.Helper()
	cs, ok := query.(*model.ConstantScoreQuery)
	require.True(t, ok, "expected a constant score plan, got %T", query)
	return cs
}

// RequireFiltered fails the test unless query is a filtered plan.
func RequireFiltered(t *testing.T, query model.Query) *model.FilteredQuery {
	t.Helper()
	fq, ok := query.(*model.FilteredQuery)
	require.True(t, ok, "expected a filtered plan, got %T", query)
	return fq
}
