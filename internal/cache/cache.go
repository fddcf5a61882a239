// Package cache provides a process-wide TTL map used to avoid redundant
// upstream calls. Entries expire lazily on read; there is no size bound or
// LRU eviction. The cache exists for latency and bandwidth, not
// correctness, and Clear is the user-facing remedy for growth.
package cache

import (
	"sync"
	"time"
)

// Duration tiers for cached upstream responses. Pages live longest since
// page images are immutable once published.
const (
	TierBrowse   = 5 * time.Minute
	TierDetails  = 30 * time.Minute
	TierChapters = 10 * time.Minute
	TierPages    = time.Hour
)

type entry struct {
	data      any
	timestamp time.Time
	expiresAt time.Time
}

// Cache is a mutex-guarded key/expiry map. Keys are caller-chosen strings;
// the catalog client uses the upstream request path. Writes are
// last-writer-wins: two concurrent misses for the same key may both hit the
// transport, which is accepted.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty cache
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key. A read past the entry's expiry
// evicts it and reports a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

// Set stores data under key for the given duration. A zero or negative
// duration expires immediately.
func (c *Cache) Set(key string, data any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = entry{
		data:      data,
		timestamp: now,
		expiresAt: now.Add(ttl),
	}
}

// Invalidate removes a single entry
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Sweep removes every expired entry. Expiry is otherwise lazy, so Sweep is
// only needed for explicit bulk cleanup.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Stats reports the current entry count and keys
func (c *Cache) Stats() (int, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return len(c.entries), keys
}
