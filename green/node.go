package green

import (
	"fmt"
	"strings"
)

// Node is an immutable, position-independent tree node. A node knows its
// kind, its exact character width (trivia and delimiters included), and its
// children, but never its absolute position; positions live on the red
// overlay. Nodes are shared freely across tree versions and must never be
// mutated after construction.
type Node interface {
	Kind() NodeKind
	Width() int
	Flags() Flags

	// SlotCount returns the number of child slots. Leaves have zero.
	SlotCount() int

	// Slot returns the i-th child, or nil when i is out of range.
	Slot(i int) Node

	// SlotOffset returns the character offset of the i-th child's start
	// relative to this node's start. It is only meaningful for containers.
	SlotOffset(i int) int

	// LeadingTrivia returns the trivia before the node's first character.
	// For containers other than blocks this descends to the first leaf.
	LeadingTrivia() TriviaList

	// TrailingTrivia returns the trivia after the node's last character.
	// For containers other than blocks this descends to the last leaf.
	TrailingTrivia() TriviaList

	writeTo(b *strings.Builder)
}

// Container is a node with mutable-by-replacement children. Every mutation
// returns a new container; untouched children are shared by reference.
type Container interface {
	Node

	// Children returns the child slice. Callers must not modify it.
	Children() []Node

	// WithSlot replaces the i-th child.
	WithSlot(i int, child Node) (Container, error)

	// WithChildren replaces the whole child slice.
	WithChildren(children []Node) Container

	// WithInsert inserts nodes before index i (i may equal len(children)).
	WithInsert(i int, nodes ...Node) (Container, error)

	// WithRemove removes count children starting at index i.
	WithRemove(i, count int) (Container, error)

	// WithReplace removes count children at index i, then inserts nodes
	// at i. Defined as remove followed by insert.
	WithReplace(i, count int, nodes ...Node) (Container, error)
}

// RangeError reports a slot index or count outside a container's bounds.
// Mutations never clamp; a bad index fails immediately.
type RangeError struct {
	Op    string
	Index int
	Count int
	Len   int
}

func (e *RangeError) Error() string {
	if e.Count != 0 {
		return fmt.Sprintf("green: %s: range [%d, %d+%d) out of bounds for %d children",
			e.Op, e.Index, e.Index, e.Count, e.Len)
	}
	return fmt.Sprintf("green: %s: index %d out of bounds for %d children", e.Op, e.Index, e.Len)
}

// ToString renders the node back to source text. For a parsed tree this is
// the byte-exact inverse of tokenizing.
func ToString(n Node) string {
	var b strings.Builder
	b.Grow(n.Width())
	n.writeTo(&b)
	return b.String()
}

// FirstLeaf returns the first leaf in document order, or nil for an empty
// container.
func FirstLeaf(n Node) *Leaf {
	if l, ok := n.(*Leaf); ok {
		return l
	}
	for i := 0; i < n.SlotCount(); i++ {
		if l := FirstLeaf(n.Slot(i)); l != nil {
			return l
		}
	}
	return nil
}

// LastLeaf returns the last leaf in document order, or nil for an empty
// container.
func LastLeaf(n Node) *Leaf {
	if l, ok := n.(*Leaf); ok {
		return l
	}
	for i := n.SlotCount() - 1; i >= 0; i-- {
		if l := LastLeaf(n.Slot(i)); l != nil {
			return l
		}
	}
	return nil
}

// Equal reports structural equality: same kind, width, text, trivia and
// children. Reference-identical nodes compare equal without descending.
func Equal(a, b Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind() != b.Kind() || a.Width() != b.Width() || a.SlotCount() != b.SlotCount() {
		return false
	}
	switch an := a.(type) {
	case *Leaf:
		bn, ok := b.(*Leaf)
		if !ok || an.Text() != bn.Text() {
			return false
		}
		return triviaEqual(an.LeadingTrivia(), bn.LeadingTrivia()) &&
			triviaEqual(an.TrailingTrivia(), bn.TrailingTrivia())
	case *Block:
		bn, ok := b.(*Block)
		if !ok || an.Opener() != bn.Opener() {
			return false
		}
		if !triviaEqual(an.leading, bn.leading) ||
			!triviaEqual(an.inner, bn.inner) ||
			!triviaEqual(an.trailing, bn.trailing) {
			return false
		}
	}
	for i := 0; i < a.SlotCount(); i++ {
		if !Equal(a.Slot(i), b.Slot(i)) {
			return false
		}
	}
	return true
}

func triviaEqual(a, b TriviaList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
