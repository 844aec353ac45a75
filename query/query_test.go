package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/red"
)

func ident(name string) green.Node {
	return green.NewLeaf(green.KindIdent, name, nil, green.TriviaList{green.Whitespace(" ")})
}

func punct(text string) green.Node {
	return green.NewToken(green.KindPunct, text)
}

func root(children ...green.Node) *red.Node {
	return red.NewRoot(green.NewList(children...), nil)
}

func leafText(t *testing.T, n *red.Node) string {
	t.Helper()
	l, ok := n.Leaf()
	require.True(t, ok)
	return l.Text()
}

func TestKindAndTextQueries(t *testing.T) {
	r := root(ident("foo"), punct(","), ident("bar"))

	matches := Kind(green.KindIdent).Select(r)
	require.Len(t, matches, 2)
	assert.Equal(t, "foo", leafText(t, matches[0].Start))
	assert.Equal(t, "bar", leafText(t, matches[1].Start))

	matches = Text("bar").Select(r)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Count)
}

func TestSequenceAdjacency(t *testing.T) {
	parenAfterIdent := root(
		ident("foo"),
		green.NewBlock('(', nil, nil, nil, ident("x")),
	)
	seq := Sequence(Kind(green.KindIdent), Block('('))

	c, ok := seq.TryMatch(parenAfterIdent.Child(0))
	require.True(t, ok)
	assert.Equal(t, 2, c, "ident plus block consumes two siblings")

	// A node between ident and block breaks adjacency.
	separated := root(
		ident("foo"),
		punct(","),
		green.NewBlock('(', nil, nil, nil),
	)
	_, ok = seq.TryMatch(separated.Child(0))
	assert.False(t, ok)
	_, ok = seq.TryMatch(nil)
	assert.False(t, ok)
}

func TestOptionalAndRepeat(t *testing.T) {
	r := root(ident("a"), ident("b"), ident("c"), punct(";"))
	start := r.Child(0)

	c, ok := Optional(Kind(green.KindNumber)).TryMatch(start)
	require.True(t, ok)
	assert.Equal(t, 0, c)

	c, ok = Repeat(Kind(green.KindIdent), 1, -1).TryMatch(start)
	require.True(t, ok)
	assert.Equal(t, 3, c, "greedy run stops at the punct")

	c, ok = Repeat(Kind(green.KindIdent), 0, 2).TryMatch(start)
	require.True(t, ok)
	assert.Equal(t, 2, c, "repetitions beyond max are not attempted")

	_, ok = Repeat(Kind(green.KindIdent), 4, -1).TryMatch(start)
	assert.False(t, ok, "greedy count below min fails")
}

func TestRepeatUntilNewlineTerminator(t *testing.T) {
	// a, b, c followed by a token whose leading trivia holds the newline.
	r := root(
		ident("a"),
		ident("b"),
		ident("c"),
		green.NewLeaf(green.KindIdent, "next", green.TriviaList{green.Newline("\n")}, nil),
	)

	q := RepeatUntil(Kind(green.KindIdent), Newline())
	c, ok := q.TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 3, c, "the newline-bearing token stays unconsumed")

	// Starting at the newline-bearing token consumes nothing.
	c, ok = q.TryMatch(r.Child(3))
	require.True(t, ok)
	assert.Equal(t, 0, c)
}

func TestRepeatUntilQueryTerminator(t *testing.T) {
	r := root(ident("a"), ident("b"), punct(";"), ident("c"))

	q := RepeatUntil(Any(), Kind(green.KindPunct))
	c, ok := q.TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 2, c, "terminator is looked ahead, not consumed")
}

func TestLookahead(t *testing.T) {
	r := root(ident("f"), green.NewBlock('(', nil, nil, nil), punct(";"))

	c, ok := FollowedBy(Kind(green.KindIdent), Block('(')).TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 1, c, "assertion is never consumed")

	_, ok = FollowedBy(Kind(green.KindIdent), Kind(green.KindPunct)).TryMatch(r.Child(0))
	assert.False(t, ok)

	c, ok = NotFollowedBy(Kind(green.KindIdent), Kind(green.KindPunct)).TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 1, c)

	// Negative lookahead at end of input succeeds.
	c, ok = NotFollowedBy(Kind(green.KindPunct), Any()).TryMatch(r.Child(2))
	require.True(t, ok)
	assert.Equal(t, 1, c)
}

func TestNotAnyOfNoneOf(t *testing.T) {
	r := root(ident("a"), punct(";"))

	c, ok := Not(Kind(green.KindPunct)).TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 0, c, "negation is zero width")
	_, ok = Not(Kind(green.KindIdent)).TryMatch(r.Child(0))
	assert.False(t, ok)

	c, ok = AnyOf(Kind(green.KindPunct), Kind(green.KindIdent)).TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 1, c)

	c, ok = NoneOf(Kind(green.KindPunct), Kind(green.KindNumber)).TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 1, c, "none-of consumes the cleared node")
	_, ok = NoneOf(Kind(green.KindIdent)).TryMatch(r.Child(0))
	assert.False(t, ok)
}

func TestBetween(t *testing.T) {
	r := root(ident("start"), ident("x"), ident("y"), punct(";"), ident("tail"))

	c, ok := Between(Text("start"), Kind(green.KindPunct)).TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 4, c, "span is inclusive of both ends")

	_, ok = Between(Text("start"), Kind(green.KindNumber)).TryMatch(r.Child(0))
	assert.False(t, ok, "missing end fails the span")
}

func TestStructuralAssertions(t *testing.T) {
	inner := green.NewBlock('{', nil, nil, nil, ident("deep"))
	r := root(ident("top"), inner)
	deep := r.Child(1).Child(0)

	assert.True(t, Parent(Block('{')).Matches(deep))
	assert.False(t, Parent(Block('(')).Matches(deep))
	assert.True(t, Ancestor(Kind(green.KindList)).Matches(deep))
	assert.False(t, Ancestor(Block('[')).Matches(deep))

	assert.True(t, Sibling(1, AnyBlock()).Matches(r.Child(0)))
	assert.True(t, Sibling(-1, Text("top")).Matches(r.Child(1)))
	assert.False(t, Sibling(2, Any()).Matches(r.Child(0)))

	c, ok := Sibling(1, AnyBlock()).TryMatch(r.Child(0))
	require.True(t, ok)
	assert.Equal(t, 0, c, "sibling checks are zero width")
}

func TestSelectDocumentOrderAndPruning(t *testing.T) {
	errLeaf := green.NewErrorLeaf("@@", nil, nil)
	clean := green.NewBlock('{', nil, nil, nil, ident("inside"))
	dirty := green.NewBlock('(', nil, nil, nil, errLeaf)
	r := root(ident("first"), clean, dirty)

	matches := Kind(green.KindError).Select(r)
	require.Len(t, matches, 1)
	assert.Equal(t, "@@", leafText(t, matches[0].Start))

	idents := Kind(green.KindIdent).Select(r)
	require.Len(t, idents, 2)
	assert.Equal(t, "first", leafText(t, idents[0].Start))
	assert.Equal(t, "inside", leafText(t, idents[1].Start))
	assert.Less(t, idents[0].Position(), idents[1].Position())
}

func TestSelectionModes(t *testing.T) {
	r := root(ident("a"), ident("b"), ident("c"), ident("d"))
	base := Kind(green.KindIdent)

	names := func(ms []Match) []string {
		var out []string
		for _, m := range ms {
			out = append(out, leafText(t, m.Start))
		}
		return out
	}

	assert.Equal(t, []string{"a"}, names(First(base).Select(r)))
	assert.Equal(t, []string{"d"}, names(Last(base).Select(r)))
	assert.Equal(t, []string{"c"}, names(Nth(base, 2).Select(r)))
	assert.Equal(t, []string{"c", "d"}, names(Skip(base, 2).Select(r)))
	assert.Equal(t, []string{"a", "b"}, names(Take(base, 2).Select(r)))
	assert.Empty(t, Nth(base, 9).Select(r))
	assert.Empty(t, Skip(base, 9).Select(r))
}

func TestSelectSequenceWithOptionalPrefix(t *testing.T) {
	r := root(ident("x"), green.NewToken(green.KindNumber, "1"))
	seq := Sequence(Optional(Kind(green.KindIdent)), Kind(green.KindNumber))

	// The optional prefix consumes "x" at the first start, nothing at the
	// second; Select must surface both.
	matches := seq.Select(r)
	require.Len(t, matches, 2)
	assert.Equal(t, "x", leafText(t, matches[0].Start))
	assert.Equal(t, 2, matches[0].Count)
	assert.Equal(t, "1", leafText(t, matches[1].Start))
	assert.Equal(t, 1, matches[1].Count)
}

func TestSelectSequenceWithRepeatUntilPrefix(t *testing.T) {
	r := root(ident("a"), ident("b"), punct(";"))
	seq := Sequence(
		RepeatUntil(Kind(green.KindIdent), Kind(green.KindPunct)),
		Kind(green.KindPunct),
	)

	matches := seq.Select(r)
	require.Len(t, matches, 3)
	assert.Equal(t, "a", leafText(t, matches[0].Start))
	assert.Equal(t, 3, matches[0].Count, "run plus terminator from the first ident")
	assert.Equal(t, "b", leafText(t, matches[1].Start))
	assert.Equal(t, 2, matches[1].Count)
	assert.Equal(t, ";", leafText(t, matches[2].Start))
	assert.Equal(t, 1, matches[2].Count, "empty run straight into the terminator")
}

func TestPreFilterNeverRejectsAccepted(t *testing.T) {
	r := root(ident("x"), green.NewToken(green.KindNumber, "1"), punct(";"))

	// Any node TryMatch accepts must pass MatchesGreen, whatever the
	// sequence prefix.
	queries := []Query{
		Sequence(Optional(Kind(green.KindIdent)), Kind(green.KindNumber)),
		Sequence(ZeroOrMore(Kind(green.KindIdent)), Kind(green.KindNumber)),
		Sequence(RepeatUntil(Any(), Kind(green.KindPunct)), Kind(green.KindPunct)),
		Sequence(Not(Kind(green.KindPunct)), Kind(green.KindIdent)),
	}
	for _, q := range queries {
		for _, n := range r.Children() {
			if _, ok := q.TryMatch(n); ok {
				assert.True(t, q.MatchesGreen(n.Green()),
					"pre-filter rejected %q which TryMatch accepts", leafText(t, n))
			}
		}
	}
}

func TestZeroWidthMatchClaimsNoSpan(t *testing.T) {
	r := root(
		ident("a"),
		green.NewLeaf(green.KindIdent, "next", green.TriviaList{green.Newline("\n")}, nil),
	)

	matches := Newline().Select(r)
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, 0, m.Count)
	assert.Equal(t, 0, m.Width(), "nothing consumed, no span claimed")
	assert.Equal(t, "next", leafText(t, m.Start), "anchor node is still reported")
	require.Len(t, m.Nodes(), 1)
}

func TestMatchNodesAndWidth(t *testing.T) {
	r := root(ident("a"), ident("b"), punct(";"))
	seq := Sequence(Kind(green.KindIdent), Kind(green.KindIdent))

	matches := seq.Select(r)
	require.NotEmpty(t, matches)
	m := matches[0]
	assert.Equal(t, 2, m.Count)
	nodes := m.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", leafText(t, nodes[0]))
	assert.Equal(t, "b", leafText(t, nodes[1]))
	assert.Equal(t, 4, m.Width(), "widths include trailing trivia")
}
