package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Source downloads the HTML of a page.
type Source interface {
	Fetch(ctx context.Context, url string) (string, error)
}

const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// HTTP is a Source backed by net/http.
type HTTP struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// NewHTTP creates an HTTP source. Zero fields in cfg take their defaults.
func NewHTTP(cfg Config) *HTTP {
	cfg = cfg.withDefaults()
	return &HTTP{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Fetch downloads url and returns at most MaxBodyBytes of its body.
// Any non-2xx status is an error.
func (h *HTTP) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}
