package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/cache"
	"github.com/pfrederiksen/calendar-aggregator/internal/config"
	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/fetcher"
	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
)

// eventCache is the cache built from the configuration plus its cleanup.
type eventCache struct {
	store  cache.Store[[]event.Event]
	memory *cache.TTL[[]event.Event] // nil for redis
	close  func() error
}

func newEventCache(cfg *config.Config) (*eventCache, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		r, err := cache.NewRedis[[]event.Event](cfg.Redis, cfg.CacheExpiration)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cache: %w", err)
		}
		logger.Info("Using redis cache", logger.Fields{
			"addr": cfg.Redis.Addr,
			"ttl":  cfg.CacheExpiration.String(),
		})
		return &eventCache{store: r, close: r.Close}, nil
	default:
		m := cache.NewTTL[[]event.Event](cfg.CacheExpiration)
		return &eventCache{store: m, memory: m, close: func() error { return nil }}, nil
	}
}

// janitor drops expired in-memory entries every interval until ctx is done.
func (c *eventCache) janitor(ctx context.Context, interval time.Duration) {
	if c.memory == nil || c.memory.TTL() <= 0 {
		return
	}
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := c.memory.CleanExpired()
			logger.SetGauge("cache.size", float64(c.memory.Size()))
			if removed > 0 {
				logger.Debug("Removed expired cache entries", logger.Fields{"removed": removed})
			}
		}
	}
}

// newFetcher builds the cached fetch stack described by cfg.
func newFetcher(cfg *config.Config) (*fetcher.Cached, *eventCache, error) {
	ec, err := newEventCache(cfg)
	if err != nil {
		return nil, nil, err
	}
	f, err := fetcher.New(cfg.Fetcher, ec.store)
	if err != nil {
		_ = ec.close()
		return nil, nil, err
	}
	return f, ec, nil
}
