package script

import (
	"sync"
)

// CacheStats reports cache effectiveness counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// ConditionCache memoizes parsed conditions keyed by normalized source
// text. Condition trees are immutable, so one cached tree may be shared by
// any number of concurrent evaluations. The cache tolerates racing parses
// of the same source: the worst case is a duplicate parse, never a corrupt
// entry.
//
// The cache is explicitly owned by its creator rather than being package
// state, so tests and embedders can substitute a fresh instance.
type ConditionCache struct {
	mu      sync.RWMutex
	entries map[string]Condition
	maxSize int
	hits    int64
	misses  int64
}

// NewConditionCache creates a cache holding at most maxSize parsed
// conditions. When full, an arbitrary entry is evicted. Set maxSize to 0
// for an unbounded cache.
func NewConditionCache(maxSize int) *ConditionCache {
	return &ConditionCache{
		entries: make(map[string]Condition),
		maxSize: maxSize,
	}
}

// Parse returns the parsed condition for src, reusing a previous parse of
// the same normalized source when available. Parse failures are not
// cached; malformed input is expected to be rare and re-reported each time.
func (c *ConditionCache) Parse(src string) (Condition, error) {
	key := Normalize(src)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return cached, nil
	}

	cond, err := parseCondition(key, 0)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.misses++
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = cond
	c.mu.Unlock()

	return cond, nil
}

// Stats returns a snapshot of the cache counters.
func (c *ConditionCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}
