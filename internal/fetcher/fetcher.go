package fetcher

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pfrederiksen/calendar-aggregator/internal/cache"
	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/extractor"
	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
)

// Fetcher returns the events published on a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]event.Event, error)
}

// Pipeline downloads a page from a Source and extracts its events.
type Pipeline struct {
	source    Source
	extractor extractor.Extractor
}

// NewPipeline combines a source and an extractor.
func NewPipeline(src Source, ex extractor.Extractor) *Pipeline {
	return &Pipeline{source: src, extractor: ex}
}

// Fetch downloads url and extracts every event on it, past ones included.
func (p *Pipeline) Fetch(ctx context.Context, url string) ([]event.Event, error) {
	start := time.Now()
	html, err := p.source.Fetch(ctx, url)
	logger.RecordTiming("fetch.duration", time.Since(start))
	if err != nil {
		logger.IncrCounter("fetch.error")
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	events, err := p.extractor.Extract(html)
	if err != nil {
		return nil, fmt.Errorf("extracting events from %s: %w", url, err)
	}

	logger.AddCounter("extract.events", int64(len(events)))
	logger.Debug("Extracted events", logger.Fields{
		"url":    url,
		"bytes":  len(html),
		"events": len(events),
	})
	return events, nil
}

// Cached wraps a Fetcher with a cache keyed by URL.
//
// A hit returns the stored events without calling the wrapped Fetcher.
// A miss calls it, stores the result and returns it. Concurrent misses for
// the same URL share a single call. Failed fetches are not cached.
type Cached struct {
	next  Fetcher
	store cache.Store[[]event.Event]
	group singleflight.Group
}

// NewCached wraps next with store.
func NewCached(next Fetcher, store cache.Store[[]event.Event]) *Cached {
	return &Cached{next: next, store: store}
}

// Fetch returns the cached events for url or fetches them.
func (c *Cached) Fetch(ctx context.Context, url string) ([]event.Event, error) {
	if events, ok := c.store.Get(ctx, url); ok {
		logger.IncrCounter("cache.hit")
		return events, nil
	}
	logger.IncrCounter("cache.miss")

	ch := c.group.DoChan(url, func() (interface{}, error) {
		// the shared fetch serves every waiting caller, so one caller
		// giving up must not cancel it
		shared := context.WithoutCancel(ctx)
		events, err := c.next.Fetch(shared, url)
		if err != nil {
			return nil, err
		}
		c.store.Set(shared, url, events)
		return events, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("Shared in-flight fetch", logger.Fields{"url": url})
		}
		return res.Val.([]event.Event), nil
	}
}
