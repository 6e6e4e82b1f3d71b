package storage

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/calendar-aggregator/internal/event"
)

// DefaultDataDir is where extract --new-only keeps its snapshots.
const DefaultDataDir = "~/.local/share/calendar-aggregator"

// Storage keeps one event snapshot file per source in a data directory.
type Storage struct {
	dataDir string
	now     func() time.Time
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
		now:     time.Now,
	}, nil
}

// Dir returns the data directory with ~ expanded.
func (s *Storage) Dir() string {
	return s.dataDir
}

// snapshotPath maps a URL or file path to a stable file name
func (s *Storage) snapshotPath(source string) string {
	sum := sha1.Sum([]byte(source))
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%x.json", sum[:8]))
}

// LoadSnapshot loads the snapshot of source. A source never saved before
// yields an empty snapshot.
func (s *Storage) LoadSnapshot(source string) (*event.Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath(source))
	if err != nil {
		if os.IsNotExist(err) {
			snap := event.NewSnapshot()
			snap.Source = source
			return snap, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot event.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Events == nil {
		snapshot.Events = make(map[string]event.Event)
	}

	return &snapshot, nil
}

// SaveSnapshot writes the snapshot of its source, stamping UpdatedAt.
// The file is replaced atomically.
func (s *Storage) SaveSnapshot(snapshot *event.Snapshot) error {
	if snapshot.Source == "" {
		return fmt.Errorf("snapshot has no source")
	}
	snapshot.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	path := s.snapshotPath(snapshot.Source)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// Update diffs events against the stored snapshot of source and then
// replaces that snapshot with events.
func (s *Storage) Update(source string, events []event.Event) (*event.DiffResult, error) {
	previous, err := s.LoadSnapshot(source)
	if err != nil {
		return nil, err
	}

	result := event.Diff(previous, events)

	current := event.CreateSnapshot(source, events, "")
	if err := s.SaveSnapshot(current); err != nil {
		return nil, err
	}
	return result, nil
}
