// Package filter narrows extracted events down by date range, keywords and
// weekday.
//
// Example usage:
//
//	from, to, err := filter.ParseDateRange("Mar 1-15", time.Now())
//	f := filter.NewFilter()
//	f.DateFrom, f.DateTo = from, to
//	f.Keywords = []string{"jazz"}
//	filtered := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/event"
)

// Filter represents event filtering criteria
type Filter struct {
	// Date range filtering, both ends inclusive
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Event text must contain one of these (case-insensitive)
	Keywords []string `json:"keywords,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Keywords: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Keywords) == 0 &&
		!f.WeekendsOnly
}

// Matches reports whether evt passes every active criterion.
// An empty filter matches all events.
func (f *Filter) Matches(evt event.Event) bool {
	if f.DateFrom != nil && evt.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && evt.Date.After(*f.DateTo) {
		return false
	}

	if f.WeekendsOnly {
		weekday := evt.Date.Weekday()
		if weekday != time.Saturday && weekday != time.Sunday {
			return false
		}
	}

	if len(f.Keywords) > 0 {
		text := strings.ToLower(evt.Text)
		matched := false
		for _, kw := range f.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the events matching the filter, preserving order.
// The result is never nil.
func (f *Filter) Apply(events []event.Event) []event.Event {
	filtered := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if f.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Jan 2, 2026 | To: Jan 15, 2026 | Keywords: jazz | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if len(f.Keywords) > 0 {
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(f.Keywords, ", ")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}

	return strings.Join(parts, " | ")
}
