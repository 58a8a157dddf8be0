package caniuse

import (
	"sync"
	"time"
)

// Cache is an in-memory, time-boxed cache of fetched features. Entries
// expire after the configured TTL; expiry is checked lazily on read, there
// is no background sweep.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	feature   *Feature
	fetchedAt time.Time
}

// NewCache creates a cache whose entries live for ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached feature if present and fresh. Stale entries are
// dropped on the spot.
func (c *Cache) Get(id string) (*Feature, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) > c.ttl {
		delete(c.entries, id)
		return nil, false
	}
	return e.feature, true
}

// Put stores a feature with the current timestamp.
func (c *Cache) Put(id string, f *Feature) {
	c.mu.Lock()
	c.entries[id] = cacheEntry{feature: f, fetchedAt: c.now()}
	c.mu.Unlock()
}
