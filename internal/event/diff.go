package event

// Snapshot is the set of events last seen on one source.
type Snapshot struct {
	Source    string           `json:"source"`
	Events    map[string]Event `json:"events"`     // keyed by Event.ID
	UpdatedAt string           `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Events: make(map[string]Event),
	}
}

// DiffResult contains the results of comparing current events to a snapshot
type DiffResult struct {
	NewEvents     []Event
	RemovedEvents []Event
}

// Diff compares current events against a previous snapshot. NewEvents keeps
// the order of current; RemovedEvents is sorted by date. A nil previous
// snapshot makes every event new.
func Diff(previous *Snapshot, current []Event) *DiffResult {
	result := &DiffResult{
		NewEvents:     make([]Event, 0),
		RemovedEvents: make([]Event, 0),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	seen := make(map[string]bool, len(current))
	for _, evt := range current {
		id := evt.ID()
		if seen[id] {
			continue
		}
		seen[id] = true

		if _, exists := previous.Events[id]; !exists {
			result.NewEvents = append(result.NewEvents, evt)
		}
	}

	for id, evt := range previous.Events {
		if !seen[id] {
			result.RemovedEvents = append(result.RemovedEvents, evt)
		}
	}
	// map order is random; same-day removals are ordered by text
	sortByText(result.RemovedEvents)
	SortByDate(result.RemovedEvents)

	return result
}

// CreateSnapshot creates a snapshot from a list of events
func CreateSnapshot(source string, events []Event, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.Source = source
	snap.UpdatedAt = updatedAt

	for _, evt := range events {
		snap.Events[evt.ID()] = evt
	}

	return snap
}
