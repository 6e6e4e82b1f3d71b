package event

import (
	"sort"
	"time"
)

// IsUpcoming reports whether the event happens today or later, comparing
// dates only against midnight of now in now's location.
func (e Event) IsUpcoming(now time.Time) bool {
	return !e.Date.Before(midnight(now))
}

// Upcoming returns the events that happen today or later, preserving order.
func Upcoming(events []Event, now time.Time) []Event {
	filtered := make([]Event, 0, len(events))
	for _, e := range events {
		if e.IsUpcoming(now) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// IsWithinDays checks if an event falls within the next N days from now.
// Returns true if days <= 0 (feature disabled).
func (e Event) IsWithinDays(now time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	cutoff := midnight(now).AddDate(0, 0, days+1)
	return e.IsUpcoming(now) && e.Date.Before(cutoff)
}

// SortByDate orders events by date. Events on the same day keep their
// relative order.
func SortByDate(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
}

func sortByText(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Text < events[j].Text
	})
}
