package fetcher

import (
	"context"
	"sync"

	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
)

// Result is the outcome of fetching one URL in a batch.
type Result struct {
	Events []event.Event
	Err    error
}

// FetchAll fetches every URL concurrently and waits for all of them.
// The returned map has one entry per distinct input URL. A failing URL only
// sets Err on its own entry.
func FetchAll(ctx context.Context, f Fetcher, urls []string) map[string]Result {
	results := make(map[string]Result, len(urls))
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true

		wg.Add(1)
		go func(u string) {
			defer wg.Done()

			events, err := f.Fetch(ctx, u)
			if err != nil {
				logger.Error("Failed to fetch events", logger.Fields{"url": u}, err)
			}

			mu.Lock()
			results[u] = Result{Events: events, Err: err}
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	return results
}

// Failed reports how many results carry an error.
func Failed(results map[string]Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
