package green

import "strings"

// SyntaxNode is a schema-defined composite produced by binding: a matched
// span of siblings re-wrapped under a semantic kind. Children are shared
// with the tree they were matched in, never copied. The type tag names the
// concrete red-side wrapper to materialize for this node.
type SyntaxNode struct {
	slots
	kind    NodeKind
	typeTag string
	flags   Flags
}

// NewSyntaxNode wraps children under a semantic kind.
func NewSyntaxNode(kind NodeKind, typeTag string, children ...Node) *SyntaxNode {
	return &SyntaxNode{
		slots:   newSlots(children),
		kind:    kind,
		typeTag: typeTag,
		flags:   containsFlags(0, kind, children),
	}
}

func (n *SyntaxNode) Kind() NodeKind       { return n.kind }
func (n *SyntaxNode) Width() int           { return n.slots.width }
func (n *SyntaxNode) Flags() Flags         { return n.flags }
func (n *SyntaxNode) SlotCount() int       { return len(n.children) }
func (n *SyntaxNode) Slot(i int) Node      { return n.slots.slot(i) }
func (n *SyntaxNode) SlotOffset(i int) int { return n.slots.offset(i) }
func (n *SyntaxNode) Children() []Node     { return n.children }

// TypeTag names the red wrapper type registered for this node.
func (n *SyntaxNode) TypeTag() string { return n.typeTag }

// LeadingTrivia descends to the first leaf.
func (n *SyntaxNode) LeadingTrivia() TriviaList {
	if f := FirstLeaf(n); f != nil {
		return f.LeadingTrivia()
	}
	return nil
}

// TrailingTrivia descends to the last leaf.
func (n *SyntaxNode) TrailingTrivia() TriviaList {
	if f := LastLeaf(n); f != nil {
		return f.TrailingTrivia()
	}
	return nil
}

func (n *SyntaxNode) WithChildren(children []Node) Container {
	return NewSyntaxNode(n.kind, n.typeTag, children...)
}

func (n *SyntaxNode) WithSlot(i int, child Node) (Container, error) {
	out, err := spliceSlot(n.children, i, child, "with_slot")
	if err != nil {
		return nil, err
	}
	return n.WithChildren(out), nil
}

func (n *SyntaxNode) WithInsert(i int, nodes ...Node) (Container, error) {
	out, err := spliceInsert(n.children, i, nodes, "with_insert")
	if err != nil {
		return nil, err
	}
	return n.WithChildren(out), nil
}

func (n *SyntaxNode) WithRemove(i, count int) (Container, error) {
	out, err := spliceRemove(n.children, i, count, "with_remove")
	if err != nil {
		return nil, err
	}
	return n.WithChildren(out), nil
}

func (n *SyntaxNode) WithReplace(i, count int, nodes ...Node) (Container, error) {
	removed, err := n.WithRemove(i, count)
	if err != nil {
		return nil, err
	}
	return removed.WithInsert(i, nodes...)
}

func (n *SyntaxNode) writeTo(b *strings.Builder) {
	for _, c := range n.children {
		c.writeTo(b)
	}
}
