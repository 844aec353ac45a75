package green

import "fmt"

// NodeKind identifies the structural or semantic category of a node.
//
// Structural kinds occupy the low value range. Keyword kinds are allocated
// from KeywordBase by the schema's keyword table, and semantic kinds from
// SemanticBase in schema declaration order.
type NodeKind uint16

const (
	// KindError marks a leaf holding text the tokenizer could not place.
	// The text is preserved verbatim so reconstruction stays exact.
	KindError NodeKind = iota
	KindIdent
	KindNumber
	KindString
	KindOperator
	KindPunct
	KindBlock
	KindList

	// KindEOF is a zero-width leaf emitted only when trivia has no token
	// to attach to, e.g. a document containing nothing but comments.
	KindEOF
)

const (
	// KeywordBase is the first kind value available for keyword tokens.
	KeywordBase NodeKind = 0x1000

	// SemanticBase is the first kind value available for schema-defined
	// semantic nodes.
	SemanticBase NodeKind = 0x4000
)

// IsKeyword reports whether k is a keyword kind.
func (k NodeKind) IsKeyword() bool {
	return k >= KeywordBase && k < SemanticBase
}

// IsSemantic reports whether k is a schema-allocated semantic kind.
func (k NodeKind) IsSemantic() bool {
	return k >= SemanticBase
}

func (k NodeKind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindIdent:
		return "ident"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindOperator:
		return "operator"
	case KindPunct:
		return "punct"
	case KindBlock:
		return "block"
	case KindList:
		return "list"
	case KindEOF:
		return "eof"
	}
	if k.IsKeyword() {
		return fmt.Sprintf("keyword+%d", uint16(k-KeywordBase))
	}
	if k.IsSemantic() {
		return fmt.Sprintf("semantic+%d", uint16(k-SemanticBase))
	}
	return fmt.Sprintf("kind(%d)", uint16(k))
}
