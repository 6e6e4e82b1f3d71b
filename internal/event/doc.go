// Package event provides the Event type produced by extraction and helpers for
// identifying, filtering and ordering events.
//
// An Event is a plain value: a date (midnight, date-only semantics) and the raw
// text snippet it was found in. Events have no identity beyond value equality;
// ID derives a deterministic SHA1 key from both fields for calendar exports
// and snapshots. Snapshot and Diff tell which events are new since a previous run.
package event
