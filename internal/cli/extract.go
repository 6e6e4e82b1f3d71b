package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/extractor"
	"github.com/pfrederiksen/calendar-aggregator/internal/fetcher"
	"github.com/pfrederiksen/calendar-aggregator/internal/filter"
	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
	"github.com/pfrederiksen/calendar-aggregator/internal/storage"
)

type extractFlags struct {
	files   []string
	format  string
	sort    string
	all     bool
	days    int
	verbose bool
	fetcher string
	newOnly bool
	dataDir string

	dateRange string
	keywords  []string
	weekends  bool
	filter    *filter.Filter
}

func newExtractCmd(g *globalFlags) *cobra.Command {
	f := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract [URL...]",
		Short: "Print the events found on web pages or local HTML files",
		Long: `Fetch each URL (or read each --file) and print the events found on it.
Only events from today on are shown unless --all is given.
With --new-only, only events not seen on a source by the previous
--new-only run are shown; snapshots are kept in --data-dir.
Exits with status 1 when every source failed, and with status 2 when
--new-only found new events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(f.files) == 0 {
				return fmt.Errorf("at least one URL or --file is required")
			}

			format := OutputFormat(strings.ToLower(f.format))
			if format != FormatText && format != FormatJSON && format != FormatICS {
				return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", f.format)
			}
			order := SortOrder(strings.ToLower(f.sort))
			if order != SortNone && order != SortByDate && order != SortByText {
				return fmt.Errorf("invalid sort order: %s (must be 'none', 'date' or 'text')", f.sort)
			}

			now := time.Now()
			ef, err := f.buildFilter(now)
			if err != nil {
				return err
			}
			f.filter = ef

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if f.fetcher != "" {
				cfg.Fetcher.Kind = f.fetcher
			}
			// one-shot runs gain nothing from caching
			cfg.CacheExpiration = 0
			cfg.CacheBackend = "memory"

			sources := make([]SourceResult, 0, len(args)+len(f.files))
			if len(args) > 0 {
				fetch, ec, err := newFetcher(cfg)
				if err != nil {
					return err
				}
				defer ec.close()
				sources = append(sources, fetchSources(cmd.Context(), fetch, args)...)
			}
			for _, path := range f.files {
				sources = append(sources, readFileSource(path))
			}

			if f.newOnly {
				store, err := storage.New(f.dataDir)
				if err != nil {
					return err
				}
				if err := keepNewEvents(store, sources); err != nil {
					return err
				}
			}

			result := buildResult(sources, f, order, now)
			if err := WriteOutput(cmd.OutOrStdout(), result, format, f.verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if result.Failed == len(result.Sources) {
				return errAllFailed
			}
			if f.newOnly && result.EventCount > 0 {
				return errNewEvents
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&f.files, "file", nil, "Local HTML file to extract from (repeatable)")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&f.sort, "sort", "none", "Sort events within a source: none, date or text")
	cmd.Flags().BoolVar(&f.all, "all", false, "Include past events")
	cmd.Flags().IntVar(&f.days, "days", 0, "Only show events within the next N days (0 = no limit)")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Show event IDs")
	cmd.Flags().StringVar(&f.fetcher, "fetcher", "", "Page fetcher: http or colly")
	cmd.Flags().StringVar(&f.dateRange, "range", "", "Only show events in a date range, e.g. 'Mar 1-15', 'March' or '2026-03-01..2026-03-15'")
	cmd.Flags().StringSliceVar(&f.keywords, "match", nil, "Only show events whose text contains this keyword (repeatable)")
	cmd.Flags().BoolVar(&f.weekends, "weekends", false, "Only show events on Saturday or Sunday")
	cmd.Flags().BoolVar(&f.newOnly, "new-only", false, "Only show events not seen by the previous --new-only run")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", storage.DefaultDataDir, "Data directory for --new-only snapshots")

	return cmd
}

// fetchSources fetches all URLs concurrently and returns results in argument order.
func fetchSources(ctx context.Context, f fetcher.Fetcher, urls []string) []SourceResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := fetcher.FetchAll(ctx, f, urls)

	out := make([]SourceResult, 0, len(results))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, newSourceResult(u, results[u].Events, results[u].Err))
	}
	return out
}

func readFileSource(path string) SourceResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return newSourceResult(path, nil, fmt.Errorf("reading file: %w", err))
	}
	events, err := extractor.NewRuleBased().Extract(string(data))
	return newSourceResult(path, events, err)
}

func newSourceResult(source string, events []event.Event, err error) SourceResult {
	r := SourceResult{Source: source, Events: events}
	if err != nil {
		r.Error = err.Error()
		r.Events = nil
	}
	if r.Events == nil {
		r.Events = []event.Event{}
	}
	return r
}

func (f *extractFlags) buildFilter(now time.Time) (*filter.Filter, error) {
	ef := filter.NewFilter()
	if f.dateRange != "" {
		from, to, err := filter.ParseDateRange(f.dateRange, now)
		if err != nil {
			return nil, err
		}
		ef.DateFrom, ef.DateTo = from, to
	}
	ef.Keywords = append(ef.Keywords, f.keywords...)
	ef.WeekendsOnly = f.weekends
	return ef, nil
}

// keepNewEvents replaces the events of every successful source with the ones
// missing from its stored snapshot, then stores the full set as the new
// snapshot. Failed sources keep their previous snapshot.
func keepNewEvents(store *storage.Storage, sources []SourceResult) error {
	for i, s := range sources {
		if s.Error != "" {
			continue
		}
		diff, err := store.Update(s.Source, s.Events)
		if err != nil {
			return fmt.Errorf("updating snapshot for %s: %w", s.Source, err)
		}
		logger.Debug("Compared with snapshot", logger.Fields{
			"source":  s.Source,
			"new":     len(diff.NewEvents),
			"removed": len(diff.RemovedEvents),
		})
		sources[i].Events = diff.NewEvents
	}
	return nil
}

// buildResult applies the date filters and sort order to every source.
func buildResult(sources []SourceResult, f *extractFlags, order SortOrder, now time.Time) *OutputResult {
	result := &OutputResult{
		CheckedAt: now.UTC(),
		ShowAll:   f.all,
		NewOnly:   f.newOnly,
	}
	for _, s := range sources {
		if s.Error != "" {
			result.Failed++
		}
		if !f.all {
			s.Events = event.Upcoming(s.Events, now)
		}
		if f.days > 0 {
			kept := make([]event.Event, 0, len(s.Events))
			for _, e := range s.Events {
				if e.IsWithinDays(now, f.days) {
					kept = append(kept, e)
				}
			}
			s.Events = kept
		}
		if f.filter != nil && !f.filter.IsEmpty() {
			s.Events = f.filter.Apply(s.Events)
		}
		sortEvents(s.Events, order)

		result.EventCount += len(s.Events)
		result.Sources = append(result.Sources, s)
	}
	return result
}
