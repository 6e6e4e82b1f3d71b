// Package topic persists named groups of event page URLs in SQLite.
//
// A topic such as "Berlin concerts" bundles the URLs whose events should be
// shown together. URLs are stored once and linked to any number of topics.
package topic
