package green

import "strings"

// TriviaKind classifies non-semantic text attached to token boundaries.
type TriviaKind uint8

const (
	TriviaWhitespace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaWhitespace:
		return "whitespace"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line-comment"
	case TriviaBlockComment:
		return "block-comment"
	}
	return "trivia(?)"
}

// Trivia is one piece of non-semantic text. It never exists on its own;
// it belongs to a leaf or block boundary.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// Width returns the character count of the trivia text.
func (t Trivia) Width() int { return len(t.Text) }

// IsComment reports whether the trivia is a line or block comment.
func (t Trivia) IsComment() bool {
	return t.Kind == TriviaLineComment || t.Kind == TriviaBlockComment
}

// TriviaList is an ordered run of trivia pieces.
type TriviaList []Trivia

// Width returns the total character count of the list.
func (l TriviaList) Width() int {
	w := 0
	for _, t := range l {
		w += t.Width()
	}
	return w
}

// HasNewline reports whether any piece is a newline or a block comment
// spanning multiple lines.
func (l TriviaList) HasNewline() bool {
	for _, t := range l {
		if t.Kind == TriviaNewline {
			return true
		}
		if t.Kind == TriviaBlockComment && strings.ContainsRune(t.Text, '\n') {
			return true
		}
	}
	return false
}

// HasComment reports whether any piece is a comment.
func (l TriviaList) HasComment() bool {
	for _, t := range l {
		if t.IsComment() {
			return true
		}
	}
	return false
}

func (l TriviaList) writeTo(b *strings.Builder) {
	for _, t := range l {
		b.WriteString(t.Text)
	}
}

// Whitespace builds a whitespace trivia piece.
func Whitespace(text string) Trivia { return Trivia{Kind: TriviaWhitespace, Text: text} }

// Newline builds a newline trivia piece.
func Newline(text string) Trivia { return Trivia{Kind: TriviaNewline, Text: text} }

// LineComment builds a line comment trivia piece. Text includes the markers.
func LineComment(text string) Trivia { return Trivia{Kind: TriviaLineComment, Text: text} }

// BlockComment builds a block comment trivia piece. Text includes the markers.
func BlockComment(text string) Trivia { return Trivia{Kind: TriviaBlockComment, Text: text} }
