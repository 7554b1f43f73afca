package classifier

import (
	"sync"
	"time"
)

// matchCache is the bounded memo cache of the hybrid matcher. Eviction is
// FIFO-by-timestamp: when full, the single oldest entry is dropped before
// inserting. Correctness only needs bounded memory, not strict recency.
type matchCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*cacheEntry
}

type cacheEntry struct {
	match    *Match
	cachedAt time.Time
}

func newMatchCache(capacity int, ttl time.Duration) *matchCache {
	return &matchCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*cacheEntry),
	}
}

// get returns the cached match for key if it is younger than the TTL.
// The boolean reports a hit; the match itself may be nil (a cached miss).
func (c *matchCache) get(key string) (*Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.cachedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.match, true
}

func (c *matchCache) put(key string, match *Match) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	c.entries[key] = &cacheEntry{match: match, cachedAt: time.Now()}
}

// evictOldest drops the entry with the earliest timestamp. Must be called
// with the lock held.
func (c *matchCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, entry := range c.entries {
		if first || entry.cachedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.cachedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

func (c *matchCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *matchCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
