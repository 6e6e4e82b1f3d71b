package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	cachedAt time.Time
}

// TTL is an in-memory Store. Expired entries are dropped lazily on Get
// or in bulk by CleanExpired.
type TTL[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the wall clock used to stamp and age entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewTTL creates an empty in-memory cache whose entries live for ttl.
func NewTTL[V any](ttl time.Duration, opts ...Option) *TTL[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

// Get retrieves a value if present and not expired.
// An entry inserted at t is a hit as long as now <= t+ttl.
func (c *TTL[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if c.ttl <= 0 {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if c.now().Sub(e.cachedAt) > c.ttl {
		c.mu.Lock()
		// Another goroutine may have refreshed the entry meanwhile.
		if cur, ok := c.entries[key]; ok && cur.cachedAt.Equal(e.cachedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the current time.
func (c *TTL[V]) Set(_ context.Context, key string, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, cachedAt: c.now()}
}

// CleanExpired removes expired entries and returns how many were removed.
func (c *TTL[V]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.cachedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of stored entries, expired or not.
func (c *TTL[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the configured entry lifetime.
func (c *TTL[V]) TTL() time.Duration {
	return c.ttl
}
