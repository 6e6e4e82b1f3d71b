// Package storage provides JSON-based persistence for event snapshots.
//
// Each source (URL or file path) has its own snapshot file named after a hash
// of the source, so extract --new-only can report the events that appeared
// since its previous run. The default location is ~/.local/share/calendar-aggregator/.
package storage
