package green

import "strings"

// List is the root sequence of a parsed document. It has no delimiters and
// owns no boundary trivia: boundary flags always mean "this node's own
// edge", so a list never inherits them from its first or last child.
type List struct {
	slots
	flags Flags
}

// NewList builds a root sequence over children.
func NewList(children ...Node) *List {
	return &List{
		slots: newSlots(children),
		flags: containsFlags(0, KindList, children),
	}
}

func (l *List) Kind() NodeKind     { return KindList }
func (l *List) Width() int         { return l.slots.width }
func (l *List) Flags() Flags       { return l.flags }
func (l *List) SlotCount() int     { return len(l.children) }
func (l *List) Slot(i int) Node    { return l.slots.slot(i) }
func (l *List) SlotOffset(i int) int { return l.slots.offset(i) }
func (l *List) Children() []Node   { return l.children }

// LeadingTrivia descends to the first leaf; an empty list has none.
func (l *List) LeadingTrivia() TriviaList {
	if f := FirstLeaf(l); f != nil {
		return f.LeadingTrivia()
	}
	return nil
}

// TrailingTrivia descends to the last leaf; an empty list has none.
func (l *List) TrailingTrivia() TriviaList {
	if f := LastLeaf(l); f != nil {
		return f.TrailingTrivia()
	}
	return nil
}

func (l *List) WithChildren(children []Node) Container {
	return NewList(children...)
}

func (l *List) WithSlot(i int, child Node) (Container, error) {
	out, err := spliceSlot(l.children, i, child, "with_slot")
	if err != nil {
		return nil, err
	}
	return NewList(out...), nil
}

func (l *List) WithInsert(i int, nodes ...Node) (Container, error) {
	out, err := spliceInsert(l.children, i, nodes, "with_insert")
	if err != nil {
		return nil, err
	}
	return NewList(out...), nil
}

func (l *List) WithRemove(i, count int) (Container, error) {
	out, err := spliceRemove(l.children, i, count, "with_remove")
	if err != nil {
		return nil, err
	}
	return NewList(out...), nil
}

func (l *List) WithReplace(i, count int, nodes ...Node) (Container, error) {
	removed, err := l.WithRemove(i, count)
	if err != nil {
		return nil, err
	}
	return removed.WithInsert(i, nodes...)
}

func (l *List) writeTo(b *strings.Builder) {
	for _, c := range l.children {
		c.writeTo(b)
	}
}
