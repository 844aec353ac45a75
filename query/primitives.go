package query

import (
	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/red"
)

// Kind matches a single node of the given kind, consuming it.
func Kind(k green.NodeKind) Query { return kindQuery{kind: k} }

type kindQuery struct {
	kind green.NodeKind
}

func (q kindQuery) Matches(n *red.Node) bool {
	return n != nil && n.Kind() == q.kind
}

func (q kindQuery) MatchesGreen(g green.Node) bool {
	return g.Kind() == q.kind
}

func (q kindQuery) TryMatch(start *red.Node) (int, bool) {
	if q.Matches(start) {
		return 1, true
	}
	return 0, false
}

func (q kindQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

func (q kindQuery) SkipSubtree(g green.Node) bool {
	switch {
	case q.kind == green.KindError:
		return !g.Flags().Has(green.FlagContainsError)
	case q.kind.IsKeyword():
		return !g.Flags().Has(green.FlagContainsKeyword)
	}
	return false
}

// Block matches a delimited container with the given opener, consuming it.
func Block(opener rune) Query { return blockQuery{opener: opener} }

// AnyBlock matches any delimited container.
func AnyBlock() Query { return blockQuery{} }

type blockQuery struct {
	opener rune
}

func (q blockQuery) Matches(n *red.Node) bool {
	return n != nil && q.MatchesGreen(n.Green())
}

func (q blockQuery) MatchesGreen(g green.Node) bool {
	b, ok := g.(*green.Block)
	if !ok {
		return false
	}
	return q.opener == 0 || b.Opener() == q.opener
}

func (q blockQuery) TryMatch(start *red.Node) (int, bool) {
	if q.Matches(start) {
		return 1, true
	}
	return 0, false
}

func (q blockQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Leaf matches any terminal token, consuming it.
func Leaf() Query { return leafQuery{} }

type leafQuery struct{}

func (leafQuery) Matches(n *red.Node) bool {
	if n == nil {
		return false
	}
	_, ok := n.Leaf()
	return ok
}

func (leafQuery) MatchesGreen(g green.Node) bool {
	_, ok := g.(*green.Leaf)
	return ok
}

func (q leafQuery) TryMatch(start *red.Node) (int, bool) {
	if q.Matches(start) {
		return 1, true
	}
	return 0, false
}

func (q leafQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Any matches any single node, consuming it.
func Any() Query { return anyQuery{} }

type anyQuery struct{}

func (anyQuery) Matches(n *red.Node) bool         { return n != nil }
func (anyQuery) MatchesGreen(green.Node) bool     { return true }
func (q anyQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

func (q anyQuery) TryMatch(start *red.Node) (int, bool) {
	if start == nil {
		return 0, false
	}
	return 1, true
}

// Text matches a leaf with exact token text, consuming it.
func Text(text string) Query { return textQuery{text: text} }

type textQuery struct {
	text string
}

func (q textQuery) Matches(n *red.Node) bool {
	if n == nil {
		return false
	}
	l, ok := n.Leaf()
	return ok && l.Text() == q.text
}

func (q textQuery) MatchesGreen(g green.Node) bool {
	l, ok := g.(*green.Leaf)
	return ok && l.Text() == q.text
}

func (q textQuery) TryMatch(start *red.Node) (int, bool) {
	if q.Matches(start) {
		return 1, true
	}
	return 0, false
}

func (q textQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Newline is a zero-width assertion on a node's leading edge: it matches a
// node whose leading trivia carries a newline. Newlines are attached as
// trivia rather than standalone tokens, so this is how patterns observe
// line breaks.
func Newline() Query { return newlineQuery{} }

type newlineQuery struct{}

// triviaTerminator marks queries whose match can be read off a node's
// leading trivia. RepeatUntil consults it so trivia-derived terminators
// stop the repetition without consuming the node.
type triviaTerminator interface {
	matchesLeadingTrivia(g green.Node) bool
}

func (newlineQuery) matchesLeadingTrivia(g green.Node) bool {
	return g.LeadingTrivia().HasNewline()
}

func (q newlineQuery) Matches(n *red.Node) bool {
	return n != nil && q.matchesLeadingTrivia(n.Green())
}

func (q newlineQuery) MatchesGreen(g green.Node) bool {
	return q.matchesLeadingTrivia(g)
}

func (q newlineQuery) TryMatch(start *red.Node) (int, bool) {
	if q.Matches(start) {
		return 0, true
	}
	return 0, false
}

func (q newlineQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

func (newlineQuery) SkipSubtree(g green.Node) bool {
	return !g.Flags().Has(green.FlagContainsNewline)
}
