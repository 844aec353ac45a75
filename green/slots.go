package green

// offsetTableThreshold is the child count at which a container precomputes
// its offset table. Narrow nodes use linear summation; wide nodes trade
// memory for O(1) lookup.
const offsetTableThreshold = 10

// slots holds a container's shared child bookkeeping: the child slice, the
// total child width, and an optional precomputed offset table.
type slots struct {
	children []Node
	width    int
	offsets  []int
}

func newSlots(children []Node) slots {
	s := slots{children: children}
	for _, c := range children {
		s.width += c.Width()
	}
	if len(children) >= offsetTableThreshold {
		s.offsets = make([]int, len(children))
		off := 0
		for i, c := range children {
			s.offsets[i] = off
			off += c.Width()
		}
	}
	return s
}

// offset returns the width of all children before index i, relative to the
// start of the child area.
func (s *slots) offset(i int) int {
	if s.offsets != nil {
		return s.offsets[i]
	}
	off := 0
	for j := 0; j < i; j++ {
		off += s.children[j].Width()
	}
	return off
}

func (s *slots) slot(i int) Node {
	if i < 0 || i >= len(s.children) {
		return nil
	}
	return s.children[i]
}

// spliceSlot returns a copy of children with index i replaced. Untouched
// entries keep their original references.
func spliceSlot(children []Node, i int, child Node, op string) ([]Node, error) {
	if i < 0 || i >= len(children) {
		return nil, &RangeError{Op: op, Index: i, Len: len(children)}
	}
	out := make([]Node, len(children))
	copy(out, children)
	out[i] = child
	return out, nil
}

// spliceInsert returns a copy of children with nodes inserted before index i.
func spliceInsert(children []Node, i int, nodes []Node, op string) ([]Node, error) {
	if i < 0 || i > len(children) {
		return nil, &RangeError{Op: op, Index: i, Len: len(children)}
	}
	out := make([]Node, 0, len(children)+len(nodes))
	out = append(out, children[:i]...)
	out = append(out, nodes...)
	out = append(out, children[i:]...)
	return out, nil
}

// spliceRemove returns a copy of children with count entries removed at i.
func spliceRemove(children []Node, i, count int, op string) ([]Node, error) {
	if count < 0 || i < 0 || i+count > len(children) {
		return nil, &RangeError{Op: op, Index: i, Count: count, Len: len(children)}
	}
	out := make([]Node, 0, len(children)-count)
	out = append(out, children[:i]...)
	out = append(out, children[i+count:]...)
	return out, nil
}
