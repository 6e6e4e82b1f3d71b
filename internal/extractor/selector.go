package extractor

import (
	"github.com/pfrederiksen/calendar-aggregator/internal/htmltree"
)

// DateCounter reports how many dates a piece of text contains.
type DateCounter interface {
	Count(text string) int
}

// Selector finds the largest subtrees holding exactly one date.
type Selector struct {
	dates DateCounter
}

// NewSelector creates a Selector counting dates with dc.
func NewSelector(dc DateCounter) *Selector {
	return &Selector{dates: dc}
}

// DateCounts annotates every node below root with the number of dates in its
// full text, indexed by NodeID. Nodes outside root are left at zero.
//
// An element is not credited with the sum of its children: its merged text is
// scanned again, because a date may be split across siblings ("19" | "Mar" |
// "2023") and only shows up in the concatenation. This rescans text once per
// ancestor, which is quadratic for deep trees.
func (s *Selector) DateCounts(tree *htmltree.Tree, root htmltree.NodeID) []int {
	counts := make([]int, tree.Len())
	texts := make(map[htmltree.NodeID]string)

	tree.Walk(root, func(id htmltree.NodeID) {
		n := tree.Node(id)
		switch n.Kind {
		case htmltree.KindText:
			texts[id] = n.Data
			counts[id] = s.dates.Count(n.Data)
		case htmltree.KindElement:
			text := mergedText(n.Children, texts)
			texts[id] = text
			counts[id] = s.dates.Count(text)
		}
	})
	return counts
}

// mergedText concatenates the texts of already visited children and releases
// them, since nothing above the parent needs them again.
func mergedText(children []htmltree.NodeID, texts map[htmltree.NodeID]string) string {
	size := 0
	for _, c := range children {
		size += len(texts[c])
	}
	buf := make([]byte, 0, size)
	for _, c := range children {
		buf = append(buf, texts[c]...)
		delete(texts, c)
	}
	return string(buf)
}

// Select returns, in document order, the largest nodes below root whose date
// count is exactly one. Nodes with zero or several dates are broken down into
// their children.
func (s *Selector) Select(tree *htmltree.Tree, root htmltree.NodeID) []htmltree.NodeID {
	counts := s.DateCounts(tree, root)
	return largestWithSingleDate(tree, root, counts, nil)
}

func largestWithSingleDate(tree *htmltree.Tree, id htmltree.NodeID, counts []int, out []htmltree.NodeID) []htmltree.NodeID {
	if counts[id] == 1 {
		return append(out, id)
	}
	for _, c := range tree.Node(id).Children {
		out = largestWithSingleDate(tree, c, counts, out)
	}
	return out
}
