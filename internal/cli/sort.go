package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/calendar-aggregator/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone   SortOrder = "none"
	SortByDate SortOrder = "date"
	SortByText SortOrder = "text"
)

// sortEvents sorts a slice of events based on the specified sort order.
// SortNone keeps document order.
func sortEvents(events []event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		event.SortByDate(events)
	case SortByText:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(oneLine(events[i].Text)), strings.ToLower(oneLine(events[j].Text))
			if ti != tj {
				return ti < tj
			}
			// If texts are equal, sort by date
			return events[i].Date.Before(events[j].Date)
		})
	}
}
