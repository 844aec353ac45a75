// Package red provides the positional navigation overlay for green trees.
// Red nodes are ephemeral: they carry an absolute position and a parent
// link, are materialized lazily, and are discarded wholesale whenever the
// green tree underneath is replaced.
package red

import (
	"sync/atomic"

	"github.com/oxhq/syntree/green"
)

// Node wraps one green node with absolute position and parent context.
// Child wrappers are materialized on first access and cached per slot with
// a compare-and-swap, so concurrent readers racing to materialize the same
// child converge on one instance.
type Node struct {
	green    green.Node
	parent   *Node
	position int
	slot     int
	children []atomic.Pointer[Node]

	// factories is set on the root node only.
	factories *Factories
	semantic  atomic.Pointer[semanticCell]
}

type semanticCell struct {
	value Semantic
	err   error
}

// NewRoot builds the overlay root at position zero. The factory table may
// be nil for purely structural trees.
func NewRoot(g green.Node, factories *Factories) *Node {
	return &Node{
		green:     g,
		position:  0,
		slot:      -1,
		children:  make([]atomic.Pointer[Node], g.SlotCount()),
		factories: factories,
	}
}

// Green returns the underlying green node.
func (n *Node) Green() green.Node { return n.green }

// Kind returns the green node's kind.
func (n *Node) Kind() green.NodeKind { return n.green.Kind() }

// Flags returns the green node's flag bitset.
func (n *Node) Flags() green.Flags { return n.green.Flags() }

// Position returns the absolute character offset of the node's start,
// including its leading trivia.
func (n *Node) Position() int { return n.position }

// EndPosition returns the absolute offset just past the node's last
// character.
func (n *Node) EndPosition() int { return n.position + n.green.Width() }

// Width returns the green node's width.
func (n *Node) Width() int { return n.green.Width() }

// Parent returns the parent wrapper, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// SlotCount returns the number of child slots.
func (n *Node) SlotCount() int { return n.green.SlotCount() }

// Leaf returns the underlying green leaf when the node is terminal.
func (n *Node) Leaf() (*green.Leaf, bool) {
	l, ok := n.green.(*green.Leaf)
	return l, ok
}

// Text renders the node's full text, trivia included.
func (n *Node) Text() string { return green.ToString(n.green) }

// Child returns the lazily built wrapper for the i-th slot, or nil when the
// slot is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	if c := n.children[i].Load(); c != nil {
		return c
	}
	g := n.green.Slot(i)
	if g == nil {
		return nil
	}
	built := &Node{
		green:    g,
		parent:   n,
		position: n.position + n.green.SlotOffset(i),
		slot:     i,
		children: make([]atomic.Pointer[Node], g.SlotCount()),
	}
	if n.children[i].CompareAndSwap(nil, built) {
		return built
	}
	// Another reader won the race; both converge on its instance.
	return n.children[i].Load()
}

// Children materializes and returns all child wrappers.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for i := range n.children {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Root walks parent links to the top of the overlay.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Ancestors returns the parent chain from immediate parent to root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// Descendants returns every node below this one in document order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	n.walk(func(d *Node) { out = append(out, d) }, false)
	return out
}

// DescendantsAndSelf returns the node followed by its descendants in
// document order.
func (n *Node) DescendantsAndSelf() []*Node {
	var out []*Node
	n.walk(func(d *Node) { out = append(out, d) }, true)
	return out
}

// Walk visits the node and its descendants in document order. Returning
// false from fn prunes the subtree below the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for i := 0; i < n.SlotCount(); i++ {
		n.Child(i).Walk(fn)
	}
}

func (n *Node) walk(fn func(*Node), self bool) {
	if self {
		fn(n)
	}
	for i := 0; i < n.SlotCount(); i++ {
		c := n.Child(i)
		fn(c)
		c.walk(fn, false)
	}
}

// SiblingIndex returns the node's slot index in its parent, or -1 at the
// root.
func (n *Node) SiblingIndex() int {
	if n.parent == nil {
		return -1
	}
	return n.slot
}

// NextSibling returns the wrapper one slot to the right, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.slot + 1)
}

// PreviousSibling returns the wrapper one slot to the left, or nil.
func (n *Node) PreviousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.Child(n.slot - 1)
}

// FindNodeAt returns the deepest node whose span contains pos. For any pos
// inside the node's own span it returns at minimum the node itself; for a
// pos outside it returns nil.
func (n *Node) FindNodeAt(pos int) *Node {
	if pos < n.position || pos >= n.EndPosition() {
		return nil
	}
	for i := 0; i < n.SlotCount(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if pos >= c.position && pos < c.EndPosition() {
			return c.FindNodeAt(pos)
		}
	}
	return n
}

// FindLeafAt returns the leaf covering pos. When pos falls on a delimiter
// or inside an empty block there is no deeper covering child, and the
// covering container itself is returned.
func (n *Node) FindLeafAt(pos int) *Node {
	return n.FindNodeAt(pos)
}
