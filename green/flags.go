package green

// Flags summarize a node in a single bitset.
//
// Boundary bits describe trivia the node's own edge literally owns: a leaf's
// leading/trailing lists, or a block's trivia around its delimiters. They are
// never inherited from descendants. Contains bits describe the whole subtree
// and propagate upward by OR, which lets traversals prune subtrees in O(1).
type Flags uint16

const (
	FlagLeadingNewline Flags = 1 << iota
	FlagTrailingNewline
	FlagLeadingComment
	FlagTrailingComment

	FlagContainsNewline
	FlagContainsComment
	FlagContainsError
	FlagContainsKeyword
)

const boundaryMask = FlagLeadingNewline | FlagTrailingNewline |
	FlagLeadingComment | FlagTrailingComment

const containsMask = FlagContainsNewline | FlagContainsComment |
	FlagContainsError | FlagContainsKeyword

// Has reports whether all bits in f2 are set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Boundary returns only the boundary bits.
func (f Flags) Boundary() Flags { return f & boundaryMask }

// Contains returns only the contains bits.
func (f Flags) Contains() Flags { return f & containsMask }

// boundaryFlags derives boundary bits from a node's own leading and trailing
// trivia lists.
func boundaryFlags(leading, trailing TriviaList) Flags {
	var f Flags
	if leading.HasNewline() {
		f |= FlagLeadingNewline
	}
	if trailing.HasNewline() {
		f |= FlagTrailingNewline
	}
	if leading.HasComment() {
		f |= FlagLeadingComment
	}
	if trailing.HasComment() {
		f |= FlagTrailingComment
	}
	return f
}

// containsFlags lifts a node's own facts into contains bits and ORs in the
// contains bits of its children. Boundary bits of children contribute their
// contains equivalents, not their boundary identity.
func containsFlags(own Flags, kind NodeKind, children []Node) Flags {
	f := own.Contains()
	if own&(FlagLeadingNewline|FlagTrailingNewline) != 0 {
		f |= FlagContainsNewline
	}
	if own&(FlagLeadingComment|FlagTrailingComment) != 0 {
		f |= FlagContainsComment
	}
	if kind == KindError {
		f |= FlagContainsError
	}
	if kind.IsKeyword() {
		f |= FlagContainsKeyword
	}
	for _, c := range children {
		cf := c.Flags()
		f |= cf.Contains()
	}
	return f
}
