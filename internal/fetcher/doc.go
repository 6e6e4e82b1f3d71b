// Package fetcher turns page URLs into extracted events.
//
// A fetch goes through three layers:
//
//	Source   downloads the HTML of a page (HTTP or Colly)
//	Pipeline runs the rule-based extractor over the downloaded HTML
//	Cached   serves repeat requests from a cache.Store and collapses
//	         concurrent misses for the same URL into one download
//
// FetchAll fans a batch of URLs out over a Fetcher and reports a result per
// URL; one failing page never affects the others.
//
// Example usage:
//
//	f, err := fetcher.New(cfg, cache.NewTTL[[]event.Event](10*time.Minute))
//	if err != nil {
//	    return err
//	}
//	results := fetcher.FetchAll(ctx, f, urls)
package fetcher
