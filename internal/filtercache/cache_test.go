package filtercache

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-query-planner/internal/metrics"
	"github.com/gcbaptista/go-query-planner/model"
)

func keyOf(value string) *model.CacheKey {
	key := model.NewCacheKey(value)
	return &key
}

func TestCacheFilter_SameKeySharesInstance(t *testing.T) {
	cache := New(10)

	first := cache.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))
	second := cache.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))

	assert.Same(t, first, second)
	cached, ok := first.(*CachedFilter)
	require.True(t, ok)
	assert.Equal(t, "key:k1", cached.Identity())
	assert.Equal(t, "k1", cached.Key().String())
	assert.Equal(t, "cached(term(a:1))", cached.String())

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Hits)
}

func TestCacheFilter_KeyWinsOverContent(t *testing.T) {
	cache := New(10)

	// The key asserts equivalence, so the first registered filter is shared.
	first := cache.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("shared"))
	second := cache.CacheFilter(&model.RangeFilter{Field: "a", From: 1.0, IncludeLower: true}, keyOf("shared"))

	assert.Same(t, first, second)
	assert.Equal(t, "term(a:1)", second.(*CachedFilter).Unwrap().String())
}

func TestCacheFilter_ContentIdentityWithoutKey(t *testing.T) {
	cache := New(10)

	first := cache.CacheFilter(model.NewAndFilter(model.NewTermFilter("a", 1.0), model.NewExistsFilter("b")), nil)
	second := cache.CacheFilter(model.NewAndFilter(model.NewTermFilter("a", 1.0), model.NewExistsFilter("b")), nil)
	other := cache.CacheFilter(model.NewTermFilter("a", 2.0), nil)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.True(t, strings.HasPrefix(first.(*CachedFilter).Identity(), "content:"))
	assert.Nil(t, first.(*CachedFilter).Key())
	assert.Equal(t, 2, cache.Len())
}

func TestCacheFilter_KeyedAndUnkeyedAreDistinct(t *testing.T) {
	cache := New(10)

	keyed := cache.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))
	unkeyed := cache.CacheFilter(model.NewTermFilter("a", 1.0), nil)

	assert.NotSame(t, keyed, unkeyed)
	assert.Equal(t, 2, cache.Len())
}

func TestCacheFilter_AlreadyCachedIsReturnedAsIs(t *testing.T) {
	cache := New(10)

	cached := cache.CacheFilter(model.NewTermFilter("a", 1.0), nil)
	again := cache.CacheFilter(cached, keyOf("k2"))

	assert.Same(t, cached, again)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheFilter_CollisionIsNotShared(t *testing.T) {
	cache := New(10)
	filter := model.NewTermFilter("a", 1.0)
	identity, _ := Identity(filter, nil)

	// Plant an entry under the same identity with different content.
	cache.entries[identity] = &CachedFilter{identity: identity, inner: model.NewExistsFilter("zzz")}

	result := cache.CacheFilter(filter, nil)

	cached, ok := result.(*CachedFilter)
	require.True(t, ok)
	assert.Same(t, filter, cached.Unwrap())
	assert.Equal(t, int64(1), cache.Stats().Bypassed)
}

func TestCacheFilter_FullCacheBypasses(t *testing.T) {
	cache := New(2)

	cache.CacheFilter(model.NewTermFilter("a", 1.0), nil)
	cache.CacheFilter(model.NewTermFilter("a", 2.0), nil)
	overflow := cache.CacheFilter(model.NewTermFilter("a", 3.0), nil)
	overflowAgain := cache.CacheFilter(model.NewTermFilter("a", 3.0), nil)

	assert.Equal(t, 2, cache.Len())
	assert.NotSame(t, overflow, overflowAgain)
	assert.Equal(t, "cached(term(a:3))", overflow.String())
	assert.Equal(t, int64(2), cache.Stats().Bypassed)
}

func TestNew_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultMaxEntries, New(0).Stats().MaxEntries)
	assert.Equal(t, DefaultMaxEntries, New(-5).Stats().MaxEntries)
	assert.Equal(t, 7, New(7).Stats().MaxEntries)
}

func TestClear(t *testing.T) {
	cache := New(10)
	held := cache.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))
	cache.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))

	cache.Clear()

	assert.Equal(t, Stats{MaxEntries: 10}, cache.Stats())
	fresh := cache.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))
	assert.NotSame(t, held, fresh)
	assert.Equal(t, "cached(term(a:1))", held.String(), "filters handed out before Clear stay usable")
}

func TestCacheFilter_ConcurrentAtMostOneEntryPerIdentity(t *testing.T) {
	cache := New(100)
	const workers = 64

	results := make([]model.Filter, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var key *model.CacheKey
			if i%2 == 0 {
				key = keyOf("k1")
			}
			results[i] = cache.CacheFilter(model.NewTermFilter("a", 1.0), key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, cache.Len())
	for i := 2; i < workers; i++ {
		assert.Same(t, results[i%2], results[i], fmt.Sprintf("worker %d", i))
	}
	stats := cache.Stats()
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, int64(workers-2), stats.Hits)
}

func TestCachedFilter_Describe(t *testing.T) {
	cache := New(10)
	cached := cache.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))

	d := cached.Describe()
	assert.Equal(t, "cached", d.Type)
	assert.Equal(t, "key:k1", d.CacheKey)
	require.Len(t, d.Children, 1)
	assert.Equal(t, "term", d.Children[0].Type)
}

func TestEntriesGaugeSumsAllCaches(t *testing.T) {
	before := testutil.ToFloat64(metrics.FilterCacheEntries)
	first := New(10)
	second := New(10)

	first.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))
	second.CacheFilter(model.NewTermFilter("a", 1.0), keyOf("k1"))
	second.CacheFilter(model.NewTermFilter("b", 2.0), nil)
	second.CacheFilter(model.NewTermFilter("b", 2.0), nil)
	assert.Equal(t, before+3, testutil.ToFloat64(metrics.FilterCacheEntries))

	first.Clear()
	assert.Equal(t, before+2, testutil.ToFloat64(metrics.FilterCacheEntries))

	second.Clear()
	assert.Equal(t, before, testutil.ToFloat64(metrics.FilterCacheEntries))
}
