package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/cache"
	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/extractor"
)

// countingFetcher returns fixed events and counts its calls.
type countingFetcher struct {
	calls  atomic.Int32
	events []event.Event
	err    error
	delay  time.Duration
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) ([]event.Event, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

// staticSource serves HTML from a map keyed by URL.
type staticSource map[string]string

func (s staticSource) Fetch(ctx context.Context, url string) (string, error) {
	html, ok := s[url]
	if !ok {
		return "", errors.New("connection refused")
	}
	return html, nil
}

func christmas() []event.Event {
	return []event.Event{event.New(time.Date(2023, 12, 25, 0, 0, 0, 0, time.Local), "Christmas")}
}

func TestCachedFetch(t *testing.T) {
	tests := []struct {
		name      string
		ttl       time.Duration
		wantCalls int32
	}{
		{"ttl 60s fetches once", 60 * time.Second, 1},
		{"ttl 0 fetches every time", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &countingFetcher{events: christmas()}
			cached := NewCached(inner, cache.NewTTL[[]event.Event](tt.ttl))

			for i := 0; i < 2; i++ {
				events, err := cached.Fetch(context.Background(), "https://example.com")
				if err != nil {
					t.Fatalf("Fetch() error = %v", err)
				}
				if len(events) != 1 {
					t.Fatalf("Fetch() returned %d events, want 1", len(events))
				}
			}

			if got := inner.calls.Load(); got != tt.wantCalls {
				t.Errorf("inner fetch calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestCachedFetchExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	inner := &countingFetcher{events: christmas()}
	cached := NewCached(inner, cache.NewTTL[[]event.Event](time.Minute, cache.WithClock(clock)))

	ctx := context.Background()
	_, _ = cached.Fetch(ctx, "https://example.com")
	now = now.Add(30 * time.Second)
	_, _ = cached.Fetch(ctx, "https://example.com")
	now = now.Add(2 * time.Minute)
	_, _ = cached.Fetch(ctx, "https://example.com")

	if got := inner.calls.Load(); got != 2 {
		t.Errorf("inner fetch calls = %d, want 2", got)
	}
}

func TestCachedFetchDoesNotCacheErrors(t *testing.T) {
	inner := &countingFetcher{err: errors.New("boom")}
	cached := NewCached(inner, cache.NewTTL[[]event.Event](time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := cached.Fetch(context.Background(), "https://example.com"); err == nil {
			t.Fatal("Fetch() error = nil, want error")
		}
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("inner fetch calls = %d, want 2", got)
	}
}

func TestCachedFetchCollapsesConcurrentMisses(t *testing.T) {
	inner := &countingFetcher{events: christmas(), delay: 50 * time.Millisecond}
	cached := NewCached(inner, cache.NewTTL[[]event.Event](time.Minute))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cached.Fetch(context.Background(), "https://example.com"); err != nil {
				t.Errorf("Fetch() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := inner.calls.Load(); got != 1 {
		t.Errorf("inner fetch calls = %d, want 1", got)
	}
}

// blockingFetcher holds every fetch until release is closed or the fetch
// context ends.
type blockingFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (f *blockingFetcher) Fetch(ctx context.Context, url string) ([]event.Event, error) {
	f.calls.Add(1)
	f.once.Do(func() { close(f.started) })
	select {
	case <-f.release:
		return christmas(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCachedFetchSurvivesCanceledCaller(t *testing.T) {
	inner := &blockingFetcher{started: make(chan struct{}), release: make(chan struct{})}
	cached := NewCached(inner, cache.NewTTL[[]event.Event](time.Minute))

	type result struct {
		events []event.Event
		err    error
	}
	fetch := func(ctx context.Context) <-chan result {
		out := make(chan result, 1)
		go func() {
			events, err := cached.Fetch(ctx, "https://example.com")
			out <- result{events, err}
		}()
		return out
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	first := fetch(ctxA)
	<-inner.started
	second := fetch(context.Background())

	cancelA()
	if got := <-first; !errors.Is(got.err, context.Canceled) {
		t.Errorf("canceled caller error = %v, want context.Canceled", got.err)
	}

	close(inner.release)
	got := <-second
	if got.err != nil {
		t.Fatalf("second caller error = %v, want nil", got.err)
	}
	if len(got.events) != 1 {
		t.Errorf("second caller got %d events, want 1", len(got.events))
	}
	if calls := inner.calls.Load(); calls != 1 {
		t.Errorf("inner fetch calls = %d, want 1", calls)
	}

	// the finished fetch was cached despite the first caller leaving
	if _, ok := cached.store.Get(context.Background(), "https://example.com"); !ok {
		t.Error("result of shared fetch was not cached")
	}
}

func TestPipelineFetch(t *testing.T) {
	src := staticSource{
		"https://example.com": `<ul><li>25.12.2023 Christmas</li><li>31.12.2023 New Year's Eve</li></ul>`,
	}
	p := NewPipeline(src, extractor.NewRuleBased())

	events, err := p.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Fetch() returned %d events, want 2", len(events))
	}
	if events[0].Text != "25.12.2023 Christmas" {
		t.Errorf("events[0].Text = %q, want %q", events[0].Text, "25.12.2023 Christmas")
	}

	if _, err := p.Fetch(context.Background(), "https://down.example.com"); err == nil {
		t.Error("Fetch() of unreachable page succeeded, want error")
	}
}

func TestNewEndToEnd(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<html><body><div>Concert on 25 Dec 2023</div></body></html>`))
	}))
	defer server.Close()

	f, err := New(Config{}, cache.NewTTL[[]event.Event](time.Minute))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		events, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("Fetch() returned %d events, want 1", len(events))
		}
		want := time.Date(2023, 12, 25, 0, 0, 0, 0, time.Local)
		if !events[0].Date.Equal(want) {
			t.Errorf("Date = %v, want %v", events[0].Date, want)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}
