package cache

import "context"

// Store is a time-bounded cache keyed by string.
// Implementations must be safe for concurrent use.
type Store[V any] interface {
	// Get returns the value stored under key if it has not expired.
	Get(ctx context.Context, key string) (V, bool)
	// Set stores value under key, replacing any previous entry and
	// restarting its lifetime.
	Set(ctx context.Context, key string, value V)
}

var (
	_ Store[int] = (*TTL[int])(nil)
	_ Store[int] = (*Redis[int])(nil)
)
