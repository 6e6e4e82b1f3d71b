package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/calendar"
	"github.com/pfrederiksen/calendar-aggregator/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// SourceResult holds the events of one URL or file
type SourceResult struct {
	Source string        `json:"source"`
	Events []event.Event `json:"events"`
	Error  string        `json:"error,omitempty"`
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time      `json:"checked_at"`
	Sources    []SourceResult `json:"sources"`
	EventCount int            `json:"event_count"`
	Failed     int            `json:"failed"`
	ShowAll    bool           `json:"show_all,omitempty"`
	NewOnly    bool           `json:"new_only,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		return writeICS(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeICS outputs the events of all sources as one calendar, in date order
func writeICS(w io.Writer, result *OutputResult) error {
	events := make([]event.Event, 0, result.EventCount)
	for _, s := range result.Sources {
		events = append(events, s.Events...)
	}
	event.SortByDate(events)

	_, err := io.WriteString(w, calendar.Generate(events))
	return err
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	eventLabel := "upcoming"
	switch {
	case result.NewOnly:
		eventLabel = "new"
	case result.ShowAll:
		eventLabel = "events"
	}

	for _, s := range result.Sources {
		if s.Error != "" {
			fmt.Fprintf(w, "\n%s: error: %s\n", s.Source, s.Error)
			continue
		}

		fmt.Fprintf(w, "\n%s (%d %s):\n", s.Source, len(s.Events), eventLabel)
		for _, evt := range s.Events {
			fmt.Fprintf(w, "  %s  %s\n", evt.Date.Format("2006-01-02"), oneLine(evt.Text))
			if verbose {
				fmt.Fprintf(w, "              ID: %s\n", evt.ID())
			}
		}
	}

	if result.EventCount == 0 {
		switch {
		case result.NewOnly:
			fmt.Fprintln(w, "\nNo new events found.")
		case result.ShowAll:
			fmt.Fprintln(w, "\nNo events found.")
		default:
			fmt.Fprintln(w, "\nNo upcoming events found.")
		}
		return nil
	}

	fmt.Fprintf(w, "\nTotal: %d %s across %d sources\n", result.EventCount, eventLabel, len(result.Sources)-result.Failed)
	return nil
}

// oneLine collapses all whitespace runs in s into single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
