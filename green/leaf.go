package green

import "strings"

// Leaf is a terminal token. It owns its boundary trivia directly: leading
// trivia before the token text, trailing trivia after it.
type Leaf struct {
	kind     NodeKind
	text     string
	leading  TriviaList
	trailing TriviaList
	width    int
	flags    Flags
}

// NewLeaf builds a leaf token. Width is fixed at construction as the sum of
// trivia widths and text length.
func NewLeaf(kind NodeKind, text string, leading, trailing TriviaList) *Leaf {
	own := boundaryFlags(leading, trailing)
	return &Leaf{
		kind:     kind,
		text:     text,
		leading:  leading,
		trailing: trailing,
		width:    leading.Width() + len(text) + trailing.Width(),
		flags:    own | containsFlags(own, kind, nil),
	}
}

// NewToken builds a leaf with no trivia.
func NewToken(kind NodeKind, text string) *Leaf {
	return NewLeaf(kind, text, nil, nil)
}

// NewErrorLeaf builds an error leaf preserving text verbatim.
func NewErrorLeaf(text string, leading, trailing TriviaList) *Leaf {
	return NewLeaf(KindError, text, leading, trailing)
}

func (l *Leaf) Kind() NodeKind              { return l.kind }
func (l *Leaf) Width() int                  { return l.width }
func (l *Leaf) Flags() Flags                { return l.flags }
func (l *Leaf) SlotCount() int              { return 0 }
func (l *Leaf) Slot(int) Node               { return nil }
func (l *Leaf) SlotOffset(int) int          { return 0 }
func (l *Leaf) LeadingTrivia() TriviaList   { return l.leading }
func (l *Leaf) TrailingTrivia() TriviaList  { return l.trailing }

// Text returns the token text without trivia.
func (l *Leaf) Text() string { return l.text }

// WithText returns a new leaf with the same kind and trivia but new text.
func (l *Leaf) WithText(text string) *Leaf {
	return NewLeaf(l.kind, text, l.leading, l.trailing)
}

// WithTrivia returns a new leaf with replaced boundary trivia.
func (l *Leaf) WithTrivia(leading, trailing TriviaList) *Leaf {
	return NewLeaf(l.kind, l.text, leading, trailing)
}

func (l *Leaf) writeTo(b *strings.Builder) {
	l.leading.writeTo(b)
	b.WriteString(l.text)
	l.trailing.writeTo(b)
}
