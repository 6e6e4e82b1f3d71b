package filter

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/event"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty filter", NewFilter(), true},
		{"date from", &Filter{DateFrom: timePtr(time.Now())}, false},
		{"weekends only", &Filter{WeekendsOnly: true}, false},
		{"keyword", &Filter{Keywords: []string{"jazz"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	// 14 March 2026 is a Saturday
	sat := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	tue := time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)
	mar1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mar15 := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)

	jazz := event.New(sat, "Jazz Night at the Blue Room")
	rock := event.New(tue, "Rock concert")

	tests := []struct {
		name   string
		filter *Filter
		evt    event.Event
		want   bool
	}{
		{"empty matches", NewFilter(), rock, true},
		{"inside range", &Filter{DateFrom: &mar1, DateTo: &mar15}, jazz, true},
		{"after range", &Filter{DateFrom: &mar1, DateTo: &mar15}, rock, false},
		{"before from", &Filter{DateFrom: &tue}, jazz, false},
		{"from is inclusive", &Filter{DateFrom: &sat}, jazz, true},
		{"weekend", &Filter{WeekendsOnly: true}, jazz, true},
		{"weekday", &Filter{WeekendsOnly: true}, rock, false},
		{"keyword case-insensitive", &Filter{Keywords: []string{"JAZZ"}}, jazz, true},
		{"any keyword", &Filter{Keywords: []string{"opera", "rock"}}, rock, true},
		{"no keyword", &Filter{Keywords: []string{"opera"}}, rock, false},
		{"all criteria", &Filter{DateFrom: &mar1, DateTo: &mar15, WeekendsOnly: true, Keywords: []string{"blue"}}, jazz, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.evt); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	events := []event.Event{
		event.New(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), "Jazz brunch"),
		event.New(time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), "Rock concert"),
		event.New(time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC), "Jazz night"),
	}

	got := (&Filter{Keywords: []string{"jazz"}}).Apply(events)
	if len(got) != 2 || got[0].Text != "Jazz brunch" || got[1].Text != "Jazz night" {
		t.Errorf("Apply() = %v, want the two jazz events in order", got)
	}

	none := (&Filter{Keywords: []string{"opera"}}).Apply(events)
	if none == nil || len(none) != 0 {
		t.Errorf("Apply() = %v, want empty non-nil slice", none)
	}
}

func TestFilter_String(t *testing.T) {
	if got := NewFilter().String(); got != "No active filters" {
		t.Errorf("String() = %q", got)
	}

	from := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	f := &Filter{DateFrom: &from, Keywords: []string{"jazz", "blues"}, WeekendsOnly: true}
	got := f.String()
	for _, want := range []string{"From: Jan 2, 2026", "Keywords: jazz, blues", "Weekends only"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
