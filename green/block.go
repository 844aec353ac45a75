package green

import "strings"

// Closer returns the closing delimiter matching an opener, or zero when the
// rune is not a known opener.
func Closer(opener rune) rune {
	switch opener {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

// Block is a delimited container such as {...}, [...] or (...). Both
// delimiters derive from the canonical opener. A block owns its boundary
// trivia directly rather than deriving it from children, because an empty
// block has no leaf children to derive from; inner trivia holds whatever
// sits between the delimiters in that empty case.
type Block struct {
	slots
	opener   rune
	leading  TriviaList
	inner    TriviaList
	trailing TriviaList
	width    int
	flags    Flags
}

// NewBlock builds a delimited container. Inner trivia is only rendered when
// the block has no children.
func NewBlock(opener rune, leading, inner, trailing TriviaList, children ...Node) *Block {
	s := newSlots(children)
	own := boundaryFlags(leading, trailing)
	flags := own | containsFlags(own, KindBlock, children)
	if len(children) == 0 {
		if inner.HasNewline() {
			flags |= FlagContainsNewline
		}
		if inner.HasComment() {
			flags |= FlagContainsComment
		}
	}
	w := leading.Width() + 1 + s.width + 1 + trailing.Width()
	if len(children) == 0 {
		w += inner.Width()
	}
	return &Block{
		slots:    s,
		opener:   opener,
		leading:  leading,
		inner:    inner,
		trailing: trailing,
		width:    w,
		flags:    flags,
	}
}

func (blk *Block) Kind() NodeKind  { return KindBlock }
func (blk *Block) Width() int      { return blk.width }
func (blk *Block) Flags() Flags    { return blk.flags }
func (blk *Block) SlotCount() int  { return len(blk.children) }
func (blk *Block) Slot(i int) Node { return blk.slots.slot(i) }

// SlotOffset accounts for the leading trivia and the opener delimiter.
func (blk *Block) SlotOffset(i int) int {
	return blk.leading.Width() + 1 + blk.slots.offset(i)
}

func (blk *Block) Children() []Node          { return blk.children }
func (blk *Block) Opener() rune              { return blk.opener }
func (blk *Block) CloserRune() rune          { return Closer(blk.opener) }
func (blk *Block) LeadingTrivia() TriviaList { return blk.leading }

// InnerTrivia is the trivia between the delimiters of an empty block.
func (blk *Block) InnerTrivia() TriviaList   { return blk.inner }
func (blk *Block) TrailingTrivia() TriviaList { return blk.trailing }

func (blk *Block) WithChildren(children []Node) Container {
	return NewBlock(blk.opener, blk.leading, blk.inner, blk.trailing, children...)
}

func (blk *Block) WithSlot(i int, child Node) (Container, error) {
	out, err := spliceSlot(blk.children, i, child, "with_slot")
	if err != nil {
		return nil, err
	}
	return blk.WithChildren(out), nil
}

func (blk *Block) WithInsert(i int, nodes ...Node) (Container, error) {
	out, err := spliceInsert(blk.children, i, nodes, "with_insert")
	if err != nil {
		return nil, err
	}
	return blk.WithChildren(out), nil
}

func (blk *Block) WithRemove(i, count int) (Container, error) {
	out, err := spliceRemove(blk.children, i, count, "with_remove")
	if err != nil {
		return nil, err
	}
	return blk.WithChildren(out), nil
}

func (blk *Block) WithReplace(i, count int, nodes ...Node) (Container, error) {
	removed, err := blk.WithRemove(i, count)
	if err != nil {
		return nil, err
	}
	return removed.WithInsert(i, nodes...)
}

// WithTrivia returns a new block with replaced boundary trivia.
func (blk *Block) WithTrivia(leading, inner, trailing TriviaList) *Block {
	return NewBlock(blk.opener, leading, inner, trailing, blk.children...)
}

func (blk *Block) writeTo(b *strings.Builder) {
	blk.leading.writeTo(b)
	b.WriteRune(blk.opener)
	if len(blk.children) == 0 {
		blk.inner.writeTo(b)
	} else {
		for _, c := range blk.children {
			c.writeTo(b)
		}
	}
	b.WriteRune(blk.CloserRune())
	blk.trailing.writeTo(b)
}
