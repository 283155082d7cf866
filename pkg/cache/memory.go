package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process Cache bounded by entry count. When full, the
// entry closest to expiry (or the oldest, for entries without expiry) is
// evicted.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	limit   int
	seq     uint64
	now     func() time.Time
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
	seq       uint64
}

// NewMemoryCache returns a MemoryCache holding at most limit entries.
// A non-positive limit defaults to 1024.
func NewMemoryCache(limit int) *MemoryCache {
	if limit <= 0 {
		limit = 1024
	}
	return &MemoryCache{entries: make(map[string]memEntry), limit: limit, now: time.Now}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.limit {
		c.evictLocked()
	}
	c.seq++
	e := memEntry{data: data, seq: c.seq}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) evictLocked() {
	var victim string
	var best memEntry
	found := false
	for k, e := range c.entries {
		if !found || evictBefore(e, best) {
			victim, best, found = k, e, true
		}
	}
	if found {
		delete(c.entries, victim)
	}
}

func evictBefore(a, b memEntry) bool {
	switch {
	case a.expiresAt.IsZero() && b.expiresAt.IsZero():
		return a.seq < b.seq
	case a.expiresAt.IsZero():
		return false
	case b.expiresAt.IsZero():
		return true
	default:
		return a.expiresAt.Before(b.expiresAt)
	}
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// collected.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close implements Cache.
func (c *MemoryCache) Close() error { return nil }

var _ Cache = (*MemoryCache)(nil)
