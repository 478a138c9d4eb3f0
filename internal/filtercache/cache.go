// Package filtercache shares one filter instance between equivalent filter
// specifications, identified either by a user supplied cache key or by the
// filter's own canonical content.
package filtercache

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/gcbaptista/go-query-planner/internal/metrics"
	"github.com/gcbaptista/go-query-planner/model"
)

// DefaultMaxEntries is used when a cache is created with a non-positive size.
const DefaultMaxEntries = 1000

// CachedFilter is a filter handed out by the cache. Plans built from equal
// filters with the same identity hold the same *CachedFilter.
type CachedFilter struct {
	identity string
	key      *model.CacheKey
	inner    model.Filter
}

func (f *CachedFilter) FilterType() model.FilterType { return model.FilterTypeCached }

func (f *CachedFilter) String() string { return "cached(" + f.inner.String() + ")" }

func (f *CachedFilter) Describe() model.Description {
	return model.Description{
		Type:     "cached",
		CacheKey: f.identity,
		Children: []model.Description{f.inner.Describe()},
	}
}

// Unwrap returns the filter the cache entry was created from.
func (f *CachedFilter) Unwrap() model.Filter { return f.inner }

// Identity is the cache identity of the filter, "key:<key>" or "content:<hash>".
func (f *CachedFilter) Identity() string { return f.identity }

// Key returns the user supplied cache key, or nil when the identity was derived.
func (f *CachedFilter) Key() *model.CacheKey { return f.key }

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries    int   `json:"entries"`
	MaxEntries int   `json:"max_entries"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Bypassed   int64 `json:"bypassed"`
}

// Cache holds at most one CachedFilter per identity. It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*CachedFilter
	maxEntries int
	hits       atomic.Int64
	misses     atomic.Int64
	bypassed   atomic.Int64
}

// New creates a cache holding up to maxEntries filters.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]*CachedFilter),
		maxEntries: maxEntries,
	}
}

// CacheFilter returns the shared instance for filter. With a key, every filter
// carrying that key shares the first instance registered under it. Without a
// key the identity is derived from the filter's canonical string. Once the
// cache is full, new filters are wrapped but not stored.
func (c *Cache) CacheFilter(filter model.Filter, key *model.CacheKey) model.Filter {
	if cached, ok := filter.(*CachedFilter); ok {
		return cached
	}

	identity, canonical := Identity(filter, key)

	c.mu.RLock()
	entry, found := c.entries[identity]
	c.mu.RUnlock()
	if found {
		return c.lookupResult(entry, filter, key, canonical)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have stored it between the two locks.
	if entry, found := c.entries[identity]; found {
		return c.lookupResult(entry, filter, key, canonical)
	}

	entry = &CachedFilter{identity: identity, key: key, inner: filter}
	if len(c.entries) >= c.maxEntries {
		c.bypassed.Add(1)
		metrics.FilterCacheRequests.WithLabelValues("bypass").Inc()
		return entry
	}

	c.entries[identity] = entry
	c.misses.Add(1)
	metrics.FilterCacheRequests.WithLabelValues("miss").Inc()
	metrics.FilterCacheEntries.Inc()
	return entry
}

func (c *Cache) lookupResult(entry *CachedFilter, filter model.Filter, key *model.CacheKey, canonical string) model.Filter {
	// Derived identities are hashes, so confirm the content before sharing.
	if key == nil && entry.inner.String() != canonical {
		c.bypassed.Add(1)
		metrics.FilterCacheRequests.WithLabelValues("bypass").Inc()
		return &CachedFilter{identity: entry.identity, inner: filter}
	}

	c.hits.Add(1)
	metrics.FilterCacheRequests.WithLabelValues("hit").Inc()
	return entry
}

// Identity computes the cache identity of filter. canonical is the filter's
// canonical string when the identity is derived from content, empty otherwise.
func Identity(filter model.Filter, key *model.CacheKey) (identity string, canonical string) {
	if key != nil {
		return "key:" + key.String(), ""
	}
	canonical = filter.String()
	return "content:" + strconv.FormatUint(xxhash.Sum64String(canonical), 16), canonical
}

// Len returns the number of stored filters.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries:    len(c.entries),
		MaxEntries: c.maxEntries,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Bypassed:   c.bypassed.Load(),
	}
}

// Clear drops every stored filter and resets the counters. Plans already
// holding cached filters keep them.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	metrics.FilterCacheEntries.Sub(float64(len(c.entries)))
	c.entries = make(map[string]*CachedFilter)
	c.hits.Store(0)
	c.misses.Store(0)
	c.bypassed.Store(0)
}
