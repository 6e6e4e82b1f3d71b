package fetcher

import (
	"context"
	"fmt"

	"github.com/gocolly/colly/v2"
)

// Colly is a Source backed by a colly collector. Each Fetch uses a fresh
// clone of the configured collector so requests stay independent.
type Colly struct {
	base *colly.Collector
}

// NewColly creates a Colly source. Zero fields in cfg take their defaults.
func NewColly(cfg Config) *Colly {
	cfg = cfg.withDefaults()
	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.MaxBodySize(int(cfg.MaxBodyBytes)),
	)
	c.SetRequestTimeout(cfg.Timeout)
	return &Colly{base: c}
}

// Fetch visits url synchronously and returns the response body.
func (s *Colly) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	c := s.base.Clone()
	c.Context = ctx

	var (
		body     string
		fetchErr error
	)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHeader)
	})
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("unexpected status code: %d", r.StatusCode)
			return
		}
		fetchErr = fmt.Errorf("fetching page: %w", err)
	})

	if err := c.Visit(target); err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	c.Wait()

	if fetchErr != nil {
		return "", fetchErr
	}
	return body, nil
}
