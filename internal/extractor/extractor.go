package extractor

import (
	"strings"

	"github.com/pfrederiksen/calendar-aggregator/internal/dates"
	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/htmltree"
)

// Extractor turns a page's HTML into events.
type Extractor interface {
	Extract(html string) ([]event.Event, error)
}

// RuleBased finds events by locating the largest HTML elements that contain
// exactly one date.
type RuleBased struct {
	selector *Selector
	builder  *Builder
}

// NewRuleBased creates a RuleBased extractor using the default date parsers.
func NewRuleBased() *RuleBased {
	return NewRuleBasedWithDates(dates.NewExtractor())
}

// NewRuleBasedWithDates creates a RuleBased extractor using d for all date lookups.
func NewRuleBasedWithDates(d *dates.Extractor) *RuleBased {
	return &RuleBased{
		selector: NewSelector(d),
		builder:  NewBuilder(d),
	}
}

// Extract parses html and returns its events in document order: roots in
// order, then selected elements within each root. Selected elements that do
// not yield an event are skipped.
func (r *RuleBased) Extract(html string) ([]event.Event, error) {
	tree, err := htmltree.Parse(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return r.ExtractTree(tree), nil
}

// ExtractTree is Extract for an already parsed document.
func (r *RuleBased) ExtractTree(tree *htmltree.Tree) []event.Event {
	events := make([]event.Event, 0)
	for _, root := range tree.Roots() {
		for _, id := range r.selector.Select(tree, root) {
			if evt, ok := r.builder.Build(tree, id); ok {
				events = append(events, evt)
			}
		}
	}
	return events
}
