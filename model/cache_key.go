package model

// CacheKey is a user supplied identity for a filter. Filters written
// independently but carrying the same key share one cached filter instance.
// The zero value is not a valid key; absent keys are represented by a nil *CacheKey.
type CacheKey struct {
	value string
}

// NewCacheKey wraps a user supplied key.
func NewCacheKey(value string) CacheKey {
	return CacheKey{value: value}
}

func (k CacheKey) String() string { return k.value }
