package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/query"
)

// Compile turns a pattern expression into a query. Expressions are small
// call-shaped terms, e.g.
//
//	seq(ident, block(paren))
//	until(any, newline)
//	repeat(kind(number), 1, 3)
//	seq(keyword(if), any, block(brace))
//
// Atoms: ident, number, string, operator, punct, error, eof, any, leaf,
// newline, block, keyword(NAME), text("...") and kind(NAME). Combinators:
// seq, opt, repeat, star, plus, until, followed_by, not_followed_by, not,
// any_of, none_of, between, sibling, parent, ancestor. Selection modes:
// first, last, nth, skip, take.
func (s *Schema) Compile(src string) (query.Query, error) {
	p := &exprParser{src: src, schema: s}
	q, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing input at %d", p.pos)
	}
	return q, nil
}

// MustCompile is Compile for statically known expressions.
func (s *Schema) MustCompile(src string) query.Query {
	q, err := s.Compile(src)
	if err != nil {
		panic(err)
	}
	return q
}

type exprParser struct {
	src    string
	pos    int
	schema *Schema
}

func (p *exprParser) errorf(format string, args ...any) error {
	return fmt.Errorf("pattern %q: %s", p.src, fmt.Sprintf(format, args...))
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) eat(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *exprParser) parseExpr() (query.Query, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected a term at %d", p.pos)
	}

	switch name {
	case "ident":
		return query.Kind(green.KindIdent), nil
	case "number":
		return query.Kind(green.KindNumber), nil
	case "string":
		return query.Kind(green.KindString), nil
	case "operator":
		return query.Kind(green.KindOperator), nil
	case "punct":
		return query.Kind(green.KindPunct), nil
	case "error":
		return query.Kind(green.KindError), nil
	case "eof":
		return query.Kind(green.KindEOF), nil
	case "any":
		return query.Any(), nil
	case "leaf":
		return query.Leaf(), nil
	case "newline":
		return query.Newline(), nil
	case "block":
		if !p.eat('(') {
			return nil, p.errorf("block needs an opener argument, e.g. block(paren)")
		}
		opener, err := p.parseOpener()
		if err != nil {
			return nil, err
		}
		if !p.eat(')') {
			return nil, p.errorf("unclosed block(...)")
		}
		if opener == 0 {
			return query.AnyBlock(), nil
		}
		return query.Block(opener), nil
	case "keyword":
		arg, err := p.parseNameArg("keyword")
		if err != nil {
			return nil, err
		}
		kind, ok := p.schema.KeywordKind(arg)
		if !ok {
			return nil, p.errorf("keyword %q is not in the schema's keyword table", arg)
		}
		return query.Kind(kind), nil
	case "kind":
		arg, err := p.parseNameArg("kind")
		if err != nil {
			return nil, err
		}
		return p.kindByName(arg)
	case "text":
		arg, err := p.parseStringArg("text")
		if err != nil {
			return nil, err
		}
		return query.Text(arg), nil
	}

	if !p.eat('(') {
		return nil, p.errorf("unknown atom %q", name)
	}
	args, ints, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	if !p.eat(')') {
		return nil, p.errorf("unclosed %s(...)", name)
	}
	return p.build(name, args, ints)
}

// parseArgs collects sub-expressions and trailing integer arguments.
func (p *exprParser) parseArgs() ([]query.Query, []int, error) {
	var args []query.Query
	var ints []int
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] == ')' {
			return args, ints, nil
		}
		if c := p.src[p.pos]; c == '-' || (c >= '0' && c <= '9') {
			n, err := p.parseInt()
			if err != nil {
				return nil, nil, err
			}
			ints = append(ints, n)
		} else {
			q, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			args = append(args, q)
		}
		if !p.eat(',') {
			return args, ints, nil
		}
	}
}

func (p *exprParser) parseInt() (int, error) {
	p.skipSpace()
	start := p.pos
	if p.pos < len(p.src) && p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, p.errorf("bad integer at %d", start)
	}
	return n, nil
}

func (p *exprParser) parseNameArg(fn string) (string, error) {
	if !p.eat('(') {
		return "", p.errorf("%s needs an argument", fn)
	}
	arg := p.ident()
	if arg == "" {
		return "", p.errorf("%s needs a name argument", fn)
	}
	if !p.eat(')') {
		return "", p.errorf("unclosed %s(...)", fn)
	}
	return arg, nil
}

func (p *exprParser) parseStringArg(fn string) (string, error) {
	if !p.eat('(') {
		return "", p.errorf("%s needs an argument", fn)
	}
	p.skipSpace()
	if p.pos >= len(p.src) || (p.src[p.pos] != '"' && p.src[p.pos] != '\'') {
		return "", p.errorf("%s needs a quoted argument", fn)
	}
	quote := p.src[p.pos]
	p.pos++
	start := p.pos
	idx := strings.IndexByte(p.src[start:], quote)
	if idx < 0 {
		return "", p.errorf("unterminated string in %s(...)", fn)
	}
	arg := p.src[start : start+idx]
	p.pos = start + idx + 1
	if !p.eat(')') {
		return "", p.errorf("unclosed %s(...)", fn)
	}
	return arg, nil
}

func (p *exprParser) parseOpener() (rune, error) {
	arg := p.ident()
	switch arg {
	case "", "any":
		return 0, nil
	case "paren":
		return '(', nil
	case "bracket":
		return '[', nil
	case "brace":
		return '{', nil
	}
	return 0, p.errorf("unknown opener %q (want paren, bracket, brace or any)", arg)
}

func (p *exprParser) kindByName(name string) (query.Query, error) {
	switch name {
	case "ident":
		return query.Kind(green.KindIdent), nil
	case "number":
		return query.Kind(green.KindNumber), nil
	case "string":
		return query.Kind(green.KindString), nil
	case "operator":
		return query.Kind(green.KindOperator), nil
	case "punct":
		return query.Kind(green.KindPunct), nil
	case "error":
		return query.Kind(green.KindError), nil
	case "eof":
		return query.Kind(green.KindEOF), nil
	}
	if d, err := p.schema.Definition(name); err == nil {
		return query.Kind(d.Kind()), nil
	}
	if k, ok := p.schema.KeywordKind(name); ok {
		return query.Kind(k), nil
	}
	return nil, p.errorf("unknown kind %q", name)
}

func (p *exprParser) build(name string, args []query.Query, ints []int) (query.Query, error) {
	need := func(n int) error {
		if len(args) != n {
			return p.errorf("%s wants %d sub-pattern(s), got %d", name, n, len(args))
		}
		return nil
	}
	needInts := func(n int) error {
		if len(ints) != n {
			return p.errorf("%s wants %d integer(s), got %d", name, n, len(ints))
		}
		return nil
	}

	switch name {
	case "seq":
		if len(args) == 0 {
			return nil, p.errorf("seq wants at least one sub-pattern")
		}
		return query.Sequence(args...), nil
	case "opt":
		if err := need(1); err != nil {
			return nil, err
		}
		return query.Optional(args[0]), nil
	case "repeat":
		if err := need(1); err != nil {
			return nil, err
		}
		if err := needInts(2); err != nil {
			return nil, err
		}
		return query.Repeat(args[0], ints[0], ints[1]), nil
	case "star":
		if err := need(1); err != nil {
			return nil, err
		}
		return query.ZeroOrMore(args[0]), nil
	case "plus":
		if err := need(1); err != nil {
			return nil, err
		}
		return query.OneOrMore(args[0]), nil
	case "until":
		if err := need(2); err != nil {
			return nil, err
		}
		return query.RepeatUntil(args[0], args[1]), nil
	case "followed_by":
		if err := need(2); err != nil {
			return nil, err
		}
		return query.FollowedBy(args[0], args[1]), nil
	case "not_followed_by":
		if err := need(2); err != nil {
			return nil, err
		}
		return query.NotFollowedBy(args[0], args[1]), nil
	case "not":
		if err := need(1); err != nil {
			return nil, err
		}
		return query.Not(args[0]), nil
	case "any_of":
		return query.AnyOf(args...), nil
	case "none_of":
		return query.NoneOf(args...), nil
	case "between":
		if err := need(2); err != nil {
			return nil, err
		}
		return query.Between(args[0], args[1]), nil
	case "sibling":
		if err := need(1); err != nil {
			return nil, err
		}
		if err := needInts(1); err != nil {
			return nil, err
		}
		return query.Sibling(ints[0], args[0]), nil
	case "parent":
		if err := need(1); err != nil {
			return nil, err
		}
		return query.Parent(args[0]), nil
	case "ancestor":
		if err := need(1); err != nil {
			return nil, err
		}
		return query.Ancestor(args[0]), nil
	case "first":
		if err := need(1); err != nil {
			return nil, err
		}
		return query.First(args[0]), nil
	case "last":
		if err := need(1); err != nil {
			return nil, err
		}
		return query.Last(args[0]), nil
	case "nth":
		if err := need(1); err != nil {
			return nil, err
		}
		if err := needInts(1); err != nil {
			return nil, err
		}
		return query.Nth(args[0], ints[0]), nil
	case "skip":
		if err := need(1); err != nil {
			return nil, err
		}
		if err := needInts(1); err != nil {
			return nil, err
		}
		return query.Skip(args[0], ints[0]), nil
	case "take":
		if err := need(1); err != nil {
			return nil, err
		}
		if err := needInts(1); err != nil {
			return nil, err
		}
		return query.Take(args[0], ints[0]), nil
	}
	return nil, p.errorf("unknown combinator %q", name)
}
