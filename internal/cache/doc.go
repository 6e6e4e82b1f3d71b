// Package cache provides time-bounded key/value stores for fetched events.
//
// Two backends implement Store:
//
//   - TTL keeps entries in process memory, guarded by a mutex
//   - Redis keeps JSON-encoded entries in a Redis server with native expiry
//
// An entry is served only while its age is within the configured TTL.
// A TTL of zero (or less) disables caching: every Get misses.
//
// Example usage:
//
//	c := cache.NewTTL[[]event.Event](10 * time.Minute)
//	c.Set(ctx, url, events)
//	if events, ok := c.Get(ctx, url); ok {
//	    // cache hit
//	}
package cache
