// Package cli implements the command-line interface for calendar-aggregator.
//
// The cli package provides the Cobra-based CLI: serve runs the HTTP API,
// extract prints the events found on pages or local HTML files (text, JSON
// or iCalendar), and topics manages the stored topic lists. extract can
// narrow its output with filter and report only new events using the
// snapshots in storage. The package loads the layered configuration, sets up
// logging and wires the cache, fetcher, topic store and api packages together.
package cli
