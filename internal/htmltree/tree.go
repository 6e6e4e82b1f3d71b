package htmltree

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Kind classifies a node.
type Kind int

const (
	// KindOther covers comments, doctypes and text that is never rendered
	// (script and style bodies).
	KindOther Kind = iota
	KindText
	KindElement
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindElement:
		return "element"
	default:
		return "other"
	}
}

// NodeID indexes a node in a Tree.
type NodeID int

// NoParent is the Parent of top-level nodes.
const NoParent NodeID = -1

// Node is one entry of the arena.
type Node struct {
	Kind     Kind
	Data     string // text content for text nodes, tag name for elements
	Parent   NodeID
	Children []NodeID
}

// Tree is a read-only HTML document in arena form. Nodes are stored in
// document (pre-)order, so a parent always has a smaller ID than its children.
type Tree struct {
	nodes []Node
	roots []NodeID
}

// Parse reads an HTML document and builds its arena.
func Parse(r io.Reader) (*Tree, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return &Tree{}, nil
	}
	return FromNode(doc.Nodes[0]), nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Tree, error) {
	return Parse(strings.NewReader(s))
}

// FromNode builds a tree from an already parsed node. When n is a document
// node its children become the roots; otherwise n itself is the only root.
func FromNode(n *html.Node) *Tree {
	t := &Tree{}
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.roots = append(t.roots, t.add(c, NoParent, false))
		}
		return t
	}
	t.roots = append(t.roots, t.add(n, NoParent, false))
	return t
}

func (t *Tree) add(n *html.Node, parent NodeID, raw bool) NodeID {
	id := NodeID(len(t.nodes))
	node := Node{Parent: parent}

	switch n.Type {
	case html.TextNode:
		node.Data = n.Data
		if !raw {
			node.Kind = KindText
		}
	case html.ElementNode:
		node.Kind = KindElement
		node.Data = n.Data
	}
	t.nodes = append(t.nodes, node)

	if n.Type == html.ElementNode {
		childRaw := raw || isRawTextElement(n.Data)
		var children []NodeID
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, t.add(c, id, childRaw))
		}
		t.nodes[id].Children = children
	}
	return id
}

func isRawTextElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

// Roots returns the top-level nodes in document order.
func (t *Tree) Roots() []NodeID {
	return t.roots
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Text returns the text of a text node, or the concatenated text of all
// descendant text nodes of an element. Other nodes have no text.
func (t *Tree) Text(id NodeID) string {
	var b strings.Builder
	t.writeText(&b, id)
	return b.String()
}

func (t *Tree) writeText(b *strings.Builder, id NodeID) {
	n := &t.nodes[id]
	switch n.Kind {
	case KindText:
		b.WriteString(n.Data)
	case KindElement:
		for _, c := range n.Children {
			t.writeText(b, c)
		}
	}
}

// Walk calls fn for id and its descendants in post-order (children first).
func (t *Tree) Walk(id NodeID, fn func(NodeID)) {
	for _, c := range t.nodes[id].Children {
		t.Walk(c, fn)
	}
	fn(id)
}
