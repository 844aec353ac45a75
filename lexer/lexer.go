// Package lexer turns raw text into green trees. Every input character
// ends up either in a leaf's text or in some node's trivia; nothing is
// dropped, so rendering the tree reproduces the input byte for byte even
// for malformed fragments.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/oxhq/syntree/green"
)

// Options configure tokenization. They are typically produced by a schema.
type Options struct {
	// Keywords promotes identifier texts to keyword kinds.
	Keywords map[string]green.NodeKind

	// DisableBlocks leaves delimiters as plain punctuation leaves instead
	// of building Block containers.
	DisableBlocks bool
}

// DefaultOptions tokenizes with no keywords and block building enabled.
func DefaultOptions() Options { return Options{} }

// Tokenize lexes text into a green root list.
func Tokenize(text string, opts Options) *green.List {
	toks := scan(text, opts)
	if len(toks) == 0 {
		if text == "" {
			return green.NewList()
		}
		// Trivia-only input hangs off a zero-width EOF leaf.
		trivia := scanTriviaOnly(text)
		return green.NewList(green.NewLeaf(green.KindEOF, "", trivia, nil))
	}
	if opts.DisableBlocks {
		nodes := make([]green.Node, len(toks))
		for i, tk := range toks {
			nodes[i] = tk.leaf()
		}
		return green.NewList(nodes...)
	}
	p := &blockParser{toks: toks}
	nodes := p.parseRun(0)
	return green.NewList(nodes...)
}

type rawToken struct {
	kind     green.NodeKind
	text     string
	leading  green.TriviaList
	trailing green.TriviaList
}

func (t rawToken) leaf() *green.Leaf {
	return green.NewLeaf(t.kind, t.text, t.leading, t.trailing)
}

func isOpener(t rawToken) bool {
	return t.kind == green.KindPunct && len(t.text) == 1 && green.Closer(rune(t.text[0])) != 0
}

func isCloser(t rawToken) bool {
	if t.kind != green.KindPunct || len(t.text) != 1 {
		return false
	}
	switch t.text[0] {
	case ')', ']', '}':
		return true
	}
	return false
}

// blockParser assembles the flat token stream into nested blocks.
type blockParser struct {
	toks []rawToken
	pos  int
}

// parseRun collects siblings until a closer matching opener (0 at top
// level) or the end of input.
func (p *blockParser) parseRun(opener rune) []green.Node {
	var out []green.Node
	for p.pos < len(p.toks) {
		tk := p.toks[p.pos]
		switch {
		case isCloser(tk):
			if opener != 0 && rune(tk.text[0]) == green.Closer(opener) {
				return out
			}
			// Stray closer: an inner mismatch unwinds to the enclosing
			// block; a top-level stray becomes an error leaf.
			if opener != 0 {
				return out
			}
			p.pos++
			out = append(out, green.NewErrorLeaf(tk.text, tk.leading, tk.trailing))
		case isOpener(tk):
			p.pos++
			out = append(out, p.parseBlock(tk)...)
		default:
			p.pos++
			out = append(out, tk.leaf())
		}
	}
	return out
}

// parseBlock builds a Block for an opener token. When the closer never
// arrives the opener degrades to an error leaf and its children splice
// flat into the parent, keeping the text exact.
func (p *blockParser) parseBlock(opener rawToken) []green.Node {
	op := rune(opener.text[0])
	children := p.parseRun(op)

	if p.pos < len(p.toks) && isCloser(p.toks[p.pos]) &&
		rune(p.toks[p.pos].text[0]) == green.Closer(op) {
		closer := p.toks[p.pos]
		p.pos++
		if len(children) == 0 {
			return []green.Node{green.NewBlock(op, opener.leading, closer.leading, closer.trailing)}
		}
		children[len(children)-1] = appendTrailing(children[len(children)-1], closer.leading)
		return []green.Node{green.NewBlock(op, opener.leading, nil, closer.trailing, children...)}
	}

	// Unclosed block.
	return append([]green.Node{green.NewErrorLeaf(opener.text, opener.leading, opener.trailing)}, children...)
}

// appendTrailing rebuilds a node with extra trailing trivia on its last
// edge. Used to hand a closer's leading trivia to the last child.
func appendTrailing(n green.Node, extra green.TriviaList) green.Node {
	if len(extra) == 0 {
		return n
	}
	switch v := n.(type) {
	case *green.Leaf:
		merged := append(append(green.TriviaList{}, v.TrailingTrivia()...), extra...)
		return v.WithTrivia(v.LeadingTrivia(), merged)
	case *green.Block:
		merged := append(append(green.TriviaList{}, v.TrailingTrivia()...), extra...)
		return v.WithTrivia(v.LeadingTrivia(), v.InnerTrivia(), merged)
	}
	return n
}

const operatorRunes = "+-*/=<>!&|%^~?"

// scan produces the flat token stream with trivia attached: a token owns
// the trivia before it and the same-line trivia after it; the newline and
// anything past it lead the next token.
func scan(text string, opts Options) []rawToken {
	var toks []rawToken
	s := &scanner{src: text}

	for {
		leading := s.scanTrivia(false)
		if s.eof() {
			if len(toks) > 0 && len(leading) > 0 {
				last := &toks[len(toks)-1]
				last.trailing = append(append(green.TriviaList{}, last.trailing...), leading...)
			} else if len(toks) == 0 && len(leading) > 0 {
				// Trivia-only input; Tokenize handles it.
				return nil
			}
			return toks
		}
		tk := s.scanToken(opts)
		tk.leading = leading
		if !isOpener(tk) {
			tk.trailing = s.scanTrivia(true)
		}
		toks = append(toks, tk)
	}
}

// scanTriviaOnly re-lexes input known to contain no tokens.
func scanTriviaOnly(text string) green.TriviaList {
	s := &scanner{src: text}
	return s.scanTrivia(false)
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) rest() string { return s.src[s.pos:] }

// scanTrivia consumes whitespace and comments. In sameLine mode it stops
// before the first newline so the newline leads the next token.
func (s *scanner) scanTrivia(sameLine bool) green.TriviaList {
	var out green.TriviaList
	for !s.eof() {
		c := s.peek()
		switch {
		case c == '\n' || c == '\r':
			if sameLine {
				return out
			}
			start := s.pos
			if c == '\r' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
				s.pos += 2
			} else {
				s.pos++
			}
			out = append(out, green.Newline(s.src[start:s.pos]))
		case c == ' ' || c == '\t':
			start := s.pos
			for !s.eof() && (s.peek() == ' ' || s.peek() == '\t') {
				s.pos++
			}
			out = append(out, green.Whitespace(s.src[start:s.pos]))
		case strings.HasPrefix(s.rest(), "//"):
			start := s.pos
			for !s.eof() && s.peek() != '\n' && s.peek() != '\r' {
				s.pos++
			}
			out = append(out, green.LineComment(s.src[start:s.pos]))
		case strings.HasPrefix(s.rest(), "/*"):
			start := s.pos
			s.pos += 2
			for !s.eof() && !strings.HasPrefix(s.rest(), "*/") {
				s.pos++
			}
			if !s.eof() {
				s.pos += 2
			}
			// An unterminated comment runs to EOF, preserved verbatim.
			out = append(out, green.BlockComment(s.src[start:s.pos]))
		default:
			return out
		}
	}
	return out
}

func (s *scanner) scanToken(opts Options) rawToken {
	c, size := utf8.DecodeRuneInString(s.rest())
	switch {
	case c == '_' || unicode.IsLetter(c):
		return s.scanIdent(opts)
	case c >= '0' && c <= '9':
		return s.scanNumber()
	case c == '"' || c == '\'':
		return s.scanString(byte(c))
	case strings.ContainsRune("()[]{}", c):
		s.pos += size
		return rawToken{kind: green.KindPunct, text: string(c)}
	case strings.ContainsRune(",;:.#@$`\\", c):
		s.pos += size
		return rawToken{kind: green.KindPunct, text: string(c)}
	case strings.ContainsRune(operatorRunes, c):
		start := s.pos
		for !s.eof() {
			r, sz := utf8.DecodeRuneInString(s.rest())
			if !strings.ContainsRune(operatorRunes, r) {
				break
			}
			s.pos += sz
		}
		return rawToken{kind: green.KindOperator, text: s.src[start:s.pos]}
	default:
		// Anything unplaceable is preserved as an error leaf.
		s.pos += size
		return rawToken{kind: green.KindError, text: string(c)}
	}
}

func (s *scanner) scanIdent(opts Options) rawToken {
	start := s.pos
	for !s.eof() {
		r, sz := utf8.DecodeRuneInString(s.rest())
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		s.pos += sz
	}
	text := s.src[start:s.pos]
	if kind, ok := opts.Keywords[text]; ok {
		return rawToken{kind: kind, text: text}
	}
	return rawToken{kind: green.KindIdent, text: text}
}

func (s *scanner) scanNumber() rawToken {
	start := s.pos
	seenDot := false
	for !s.eof() {
		c := s.peek()
		if c == '.' && !seenDot {
			seenDot = true
			s.pos++
			continue
		}
		if (c < '0' || c > '9') && !(c >= 'a' && c <= 'f') && !(c >= 'A' && c <= 'F') && c != 'x' && c != '_' {
			break
		}
		s.pos++
	}
	return rawToken{kind: green.KindNumber, text: s.src[start:s.pos]}
}

// scanString lexes a quoted literal. An unterminated literal becomes an
// error leaf running to the end of the line, text preserved verbatim.
func (s *scanner) scanString(quote byte) rawToken {
	start := s.pos
	s.pos++
	for !s.eof() {
		c := s.peek()
		if c == '\\' && s.pos+1 < len(s.src) {
			s.pos += 2
			continue
		}
		if c == quote {
			s.pos++
			return rawToken{kind: green.KindString, text: s.src[start:s.pos]}
		}
		if c == '\n' || c == '\r' {
			break
		}
		s.pos++
	}
	return rawToken{kind: green.KindError, text: s.src[start:s.pos]}
}
