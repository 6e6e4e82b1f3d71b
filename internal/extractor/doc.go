// Package extractor turns raw HTML into dated events without site-specific rules.
//
// The rule-based extractor counts the dates found in the full text of every
// subtree, then picks the largest subtrees that contain exactly one date. Each
// picked subtree becomes one event whose text is the subtree's text verbatim.
package extractor
