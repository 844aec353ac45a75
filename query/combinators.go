package query

import (
	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/red"
)

// Sequence matches its parts against consecutive siblings: the first part
// at the start node, the second at the sibling just past the first part's
// consumed run, and so on. It fails as a whole if any part fails.
func Sequence(parts ...Query) Query { return sequenceQuery{parts: parts} }

type sequenceQuery struct {
	parts []Query
}

func (q sequenceQuery) Matches(n *red.Node) bool {
	_, ok := q.TryMatch(n)
	return ok
}

// MatchesGreen checks parts up to the first one that can consume input.
// Pure assertions never consume, so later parts still constrain the start
// node; once a part may consume it — even optionally — the start node
// could land anywhere in the rest of the sequence and nothing further can
// be required of it without risking a false negative.
func (q sequenceQuery) MatchesGreen(g green.Node) bool {
	for _, p := range q.parts {
		if !p.MatchesGreen(g) {
			return false
		}
		if !neverConsumes(p) {
			return true
		}
	}
	return true
}

func (q sequenceQuery) TryMatch(start *red.Node) (int, bool) {
	total := 0
	cur := start
	for _, p := range q.parts {
		c, ok := p.TryMatch(cur)
		if !ok {
			return 0, false
		}
		total += c
		cur = advance(cur, c)
	}
	return total, true
}

func (q sequenceQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// neverConsumes reports whether a query is a pure assertion that always
// succeeds or fails without consuming siblings, which makes it transparent
// for green pre-filtering. Queries that merely may consume zero (Optional,
// RepeatUntil, Repeat with min 0) do not qualify: when they do consume,
// the node they consumed no longer has to satisfy the parts after them.
func neverConsumes(q Query) bool {
	switch q.(type) {
	case notQuery, newlineQuery, siblingQuery, parentQuery, ancestorQuery:
		return true
	}
	return false
}

// Optional always succeeds, consuming the inner match when present.
func Optional(inner Query) Query { return optionalQuery{inner: inner} }

type optionalQuery struct {
	inner Query
}

func (q optionalQuery) Matches(n *red.Node) bool     { return true }
func (q optionalQuery) MatchesGreen(green.Node) bool { return true }

func (q optionalQuery) TryMatch(start *red.Node) (int, bool) {
	if c, ok := q.inner.TryMatch(start); ok {
		return c, true
	}
	return 0, true
}

func (q optionalQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Repeat greedily matches inner between min and max times. A negative max
// means unbounded. Repetitions beyond max are not attempted.
func Repeat(inner Query, min, max int) Query {
	return repeatQuery{inner: inner, min: min, max: max}
}

// ZeroOrMore is Repeat(inner, 0, unbounded).
func ZeroOrMore(inner Query) Query { return Repeat(inner, 0, -1) }

// OneOrMore is Repeat(inner, 1, unbounded).
func OneOrMore(inner Query) Query { return Repeat(inner, 1, -1) }

type repeatQuery struct {
	inner    Query
	min, max int
}

func (q repeatQuery) Matches(n *red.Node) bool {
	_, ok := q.TryMatch(n)
	return ok
}

func (q repeatQuery) MatchesGreen(g green.Node) bool {
	if q.min == 0 {
		return true
	}
	return q.inner.MatchesGreen(g)
}

func (q repeatQuery) TryMatch(start *red.Node) (int, bool) {
	total := 0
	count := 0
	cur := start
	for q.max < 0 || count < q.max {
		c, ok := q.inner.TryMatch(cur)
		if !ok {
			break
		}
		if c == 0 {
			// A zero-width inner match would repeat forever.
			break
		}
		total += c
		count++
		cur = advance(cur, c)
	}
	if count < q.min {
		return 0, false
	}
	return total, true
}

func (q repeatQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// RepeatUntil repeats inner while the terminator does not match at the
// current position. The terminator is checked by lookahead and never
// consumed. Terminators derived from leading trivia (such as Newline) stop
// the run as soon as the node under consideration carries the trivia. It
// always succeeds, possibly consuming nothing.
func RepeatUntil(inner, terminator Query) Query {
	return repeatUntilQuery{inner: inner, terminator: terminator}
}

type repeatUntilQuery struct {
	inner      Query
	terminator Query
}

func (q repeatUntilQuery) Matches(n *red.Node) bool     { return true }
func (q repeatUntilQuery) MatchesGreen(green.Node) bool { return true }

func (q repeatUntilQuery) terminatesAt(n *red.Node) bool {
	if n == nil {
		return true
	}
	if tt, ok := q.terminator.(triviaTerminator); ok && tt.matchesLeadingTrivia(n.Green()) {
		return true
	}
	_, ok := q.terminator.TryMatch(n)
	return ok
}

func (q repeatUntilQuery) TryMatch(start *red.Node) (int, bool) {
	total := 0
	cur := start
	for cur != nil && !q.terminatesAt(cur) {
		c, ok := q.inner.TryMatch(cur)
		if !ok || c == 0 {
			break
		}
		total += c
		cur = advance(cur, c)
	}
	return total, true
}

func (q repeatUntilQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// FollowedBy matches inner, then requires the node just past the consumed
// run to satisfy the assertion. The assertion is never consumed.
func FollowedBy(inner, assertion Query) Query {
	return lookaheadQuery{inner: inner, assertion: assertion, positive: true}
}

// NotFollowedBy matches inner, then requires the node just past the
// consumed run not to satisfy the assertion.
func NotFollowedBy(inner, assertion Query) Query {
	return lookaheadQuery{inner: inner, assertion: assertion, positive: false}
}

type lookaheadQuery struct {
	inner     Query
	assertion Query
	positive  bool
}

func (q lookaheadQuery) Matches(n *red.Node) bool {
	_, ok := q.TryMatch(n)
	return ok
}

func (q lookaheadQuery) MatchesGreen(g green.Node) bool {
	return q.inner.MatchesGreen(g)
}

func (q lookaheadQuery) TryMatch(start *red.Node) (int, bool) {
	c, ok := q.inner.TryMatch(start)
	if !ok {
		return 0, false
	}
	next := advance(start, c)
	asserted := false
	if next != nil {
		_, asserted = q.assertion.TryMatch(next)
	}
	if asserted != q.positive {
		return 0, false
	}
	return c, true
}

func (q lookaheadQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Not is a zero-width negative assertion: it succeeds, consuming nothing,
// exactly when inner fails at the node.
func Not(inner Query) Query { return notQuery{inner: inner} }

type notQuery struct {
	inner Query
}

func (q notQuery) Matches(n *red.Node) bool {
	_, ok := q.inner.TryMatch(n)
	return !ok
}

func (q notQuery) MatchesGreen(green.Node) bool { return true }

func (q notQuery) TryMatch(start *red.Node) (int, bool) {
	if q.Matches(start) {
		return 0, true
	}
	return 0, false
}

func (q notQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// AnyOf tries each alternative in order; the first that matches wins.
func AnyOf(alternatives ...Query) Query { return anyOfQuery{alts: alternatives} }

type anyOfQuery struct {
	alts []Query
}

func (q anyOfQuery) Matches(n *red.Node) bool {
	_, ok := q.TryMatch(n)
	return ok
}

func (q anyOfQuery) MatchesGreen(g green.Node) bool {
	for _, a := range q.alts {
		if a.MatchesGreen(g) {
			return true
		}
	}
	return false
}

func (q anyOfQuery) TryMatch(start *red.Node) (int, bool) {
	for _, a := range q.alts {
		if c, ok := a.TryMatch(start); ok {
			return c, true
		}
	}
	return 0, false
}

func (q anyOfQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// NoneOf consumes one node when none of the alternatives match at it.
func NoneOf(alternatives ...Query) Query { return noneOfQuery{alts: alternatives} }

type noneOfQuery struct {
	alts []Query
}

func (q noneOfQuery) Matches(n *red.Node) bool {
	if n == nil {
		return false
	}
	for _, a := range q.alts {
		if _, ok := a.TryMatch(n); ok {
			return false
		}
	}
	return true
}

// MatchesGreen stays conservative: green-level alternative hits may be
// false positives, so nothing can be excluded here.
func (q noneOfQuery) MatchesGreen(green.Node) bool { return true }

func (q noneOfQuery) TryMatch(start *red.Node) (int, bool) {
	if q.Matches(start) {
		return 1, true
	}
	return 0, false
}

func (q noneOfQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Between matches an inclusive sibling span: start must match at the first
// node, then siblings are scanned until end matches; the span through the
// end match is consumed. It fails when end never matches.
func Between(start, end Query) Query { return betweenQuery{start: start, end: end} }

type betweenQuery struct {
	start Query
	end   Query
}

func (q betweenQuery) Matches(n *red.Node) bool {
	_, ok := q.TryMatch(n)
	return ok
}

func (q betweenQuery) MatchesGreen(g green.Node) bool {
	return q.start.MatchesGreen(g)
}

func (q betweenQuery) TryMatch(start *red.Node) (int, bool) {
	sc, ok := q.start.TryMatch(start)
	if !ok {
		return 0, false
	}
	if sc == 0 {
		sc = 1
	}
	consumed := sc
	cur := advance(start, sc)
	// The end query may match the same node the start run ended on only
	// when the span advanced past it; scan forward for the end.
	for cur != nil {
		ec, ok := q.end.TryMatch(cur)
		if ok {
			if ec == 0 {
				ec = 1
			}
			return consumed + ec, true
		}
		consumed++
		cur = cur.NextSibling()
	}
	return 0, false
}

func (q betweenQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Sibling is a zero-width check on the node offset slots away: negative
// offsets look left, positive right.
func Sibling(offset int, inner Query) Query {
	return siblingQuery{offset: offset, inner: inner}
}

type siblingQuery struct {
	offset int
	inner  Query
}

func (q siblingQuery) target(n *red.Node) *red.Node {
	cur := n
	if q.offset >= 0 {
		return advance(cur, q.offset)
	}
	for i := 0; i > q.offset && cur != nil; i-- {
		cur = cur.PreviousSibling()
	}
	return cur
}

func (q siblingQuery) Matches(n *red.Node) bool {
	if n == nil {
		return false
	}
	t := q.target(n)
	if t == nil {
		return false
	}
	_, ok := q.inner.TryMatch(t)
	return ok
}

func (q siblingQuery) MatchesGreen(green.Node) bool { return true }

func (q siblingQuery) TryMatch(start *red.Node) (int, bool) {
	return 0, q.Matches(start)
}

func (q siblingQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Parent is a zero-width check on the node's parent.
func Parent(inner Query) Query { return parentQuery{inner: inner} }

type parentQuery struct {
	inner Query
}

func (q parentQuery) Matches(n *red.Node) bool {
	if n == nil || n.Parent() == nil {
		return false
	}
	return q.inner.Matches(n.Parent())
}

func (q parentQuery) MatchesGreen(green.Node) bool { return true }

func (q parentQuery) TryMatch(start *red.Node) (int, bool) {
	return 0, q.Matches(start)
}

func (q parentQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }

// Ancestor is a zero-width check satisfied when any node on the parent
// chain matches.
func Ancestor(inner Query) Query { return ancestorQuery{inner: inner} }

type ancestorQuery struct {
	inner Query
}

func (q ancestorQuery) Matches(n *red.Node) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Ancestors() {
		if q.inner.Matches(a) {
			return true
		}
	}
	return false
}

func (q ancestorQuery) MatchesGreen(green.Node) bool { return true }

func (q ancestorQuery) TryMatch(start *red.Node) (int, bool) {
	return 0, q.Matches(start)
}

func (q ancestorQuery) Select(scope *red.Node) []Match { return selectAll(q, scope) }
