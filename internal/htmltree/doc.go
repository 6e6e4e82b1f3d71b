// Package htmltree flattens a parsed HTML document into an index-addressed arena.
//
// Nodes are identified by their position in the arena rather than by pointer, so
// per-node annotations (such as date counts) can be plain slices indexed by NodeID
// and two structurally identical subtrees never collide.
package htmltree
