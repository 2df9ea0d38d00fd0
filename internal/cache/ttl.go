package cache

import (
	"sort"
	"sync"
	"time"
)

// DefaultTTL is used when NewTTLCache is given a non-positive TTL.
const DefaultTTL = 300 * time.Second

type entry struct {
	value     any
	createdAt time.Time
	expiresAt time.Time
}

// Stats is a point-in-time view of the cache for health reporting.
type Stats struct {
	Count      int      `json:"total_entries"`
	Keys       []string `json:"keys"`
	TTLSeconds int      `json:"ttl_seconds"`
}

// TTLCache is an in-memory key/value store with per-entry expiry.
// A single mutex guards the whole map.
type TTLCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*TTLCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) {
		if now != nil {
			c.now = now
		}
	}
}

func NewTTLCache(ttl time.Duration, opts ...Option) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TTLCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the default time-to-live applied by Set.
func (c *TTLCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key if it has not expired. Expired entries are
// evicted on access.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Peek returns the stored value without evicting it, and reports whether it
// is still fresh. Fetchers use it so an expired value survives long enough
// to serve as a fallback when the upstream call fails.
func (c *TTLCache) Peek(key string) (value any, fresh bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.value, !c.now().After(e.expiresAt), true
}

// Set stores value under key using the default TTL.
func (c *TTLCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key, replacing any existing entry.
func (c *TTLCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = entry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// Invalidate removes key and reports whether it was present.
func (c *TTLCache) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	return true
}

func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

func (c *TTLCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Stats{
		Count:      len(c.entries),
		Keys:       keys,
		TTLSeconds: int(c.ttl / time.Second),
	}
}

// SweepExpired removes every entry whose expiry lies in the past and returns
// how many were removed. It is never called implicitly.
func (c *TTLCache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if e.expiresAt.Before(now) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}
