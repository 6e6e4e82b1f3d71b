package extractor

import (
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/event"
	"github.com/pfrederiksen/calendar-aggregator/internal/htmltree"
)

// DateFinder returns the dates found in text, in match order.
type DateFinder interface {
	ExtractDates(text string) []time.Time
}

// Builder converts a selected node into an Event.
type Builder struct {
	dates DateFinder
}

// NewBuilder creates a Builder reading dates with df.
func NewBuilder(df DateFinder) *Builder {
	return &Builder{dates: df}
}

// Build returns the event for node id. The event takes the first date in the
// node's text and keeps the whole text, untrimmed, as its description.
// It reports false for nodes without text or without a date.
func (b *Builder) Build(tree *htmltree.Tree, id htmltree.NodeID) (event.Event, bool) {
	n := tree.Node(id)
	if n.Kind != htmltree.KindText && n.Kind != htmltree.KindElement {
		return event.Event{}, false
	}

	text := tree.Text(id)
	found := b.dates.ExtractDates(text)
	if len(found) == 0 {
		return event.Event{}, false
	}
	return event.New(found[0], text), true
}
