package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/lexer"
	"github.com/oxhq/syntree/query"
	"github.com/oxhq/syntree/red"
)

func parse(t *testing.T, s *Schema, text string) *green.List {
	t.Helper()
	opts := lexer.DefaultOptions()
	if s != nil {
		opts = s.TokenizerOptions()
	}
	return lexer.Tokenize(text, opts)
}

func TestKeywordAllocation(t *testing.T) {
	s := New("kw")
	kIf := s.AddKeyword("if")
	kElse := s.AddKeyword("else")

	assert.Equal(t, green.KeywordBase, kIf)
	assert.Equal(t, green.KeywordBase+1, kElse)
	assert.Equal(t, kIf, s.AddKeyword("if"), "re-adding returns the existing kind")

	got, ok := s.KeywordKind("else")
	require.True(t, ok)
	assert.Equal(t, kElse, got)

	opts := s.TokenizerOptions()
	root := lexer.Tokenize("if x", opts)
	assert.Equal(t, kIf, root.Slot(0).Kind())
}

func TestDefineValidation(t *testing.T) {
	s := New("v")
	_, err := s.Define(&Definition{Name: "", Patterns: []query.Query{query.Any()}})
	require.Error(t, err)

	_, err = s.Define(&Definition{Name: "empty"})
	require.Error(t, err)

	_, err = s.Define(&Definition{Name: "ok", Patterns: []query.Query{query.Any()}})
	require.NoError(t, err)
	_, err = s.Define(&Definition{Name: "ok", Patterns: []query.Query{query.Any()}})
	require.Error(t, err, "duplicate names are rejected")
}

func TestKindAllocationOrder(t *testing.T) {
	s := New("k")
	k1 := s.MustDefine(&Definition{Name: "first", Patterns: []query.Query{query.Kind(green.KindNumber)}})
	k2 := s.MustDefine(&Definition{Name: "second", Patterns: []query.Query{query.Kind(green.KindString)}})

	assert.Equal(t, green.SemanticBase, k1)
	assert.Equal(t, green.SemanticBase+1, k2)
	assert.True(t, k1.IsSemantic())

	got, err := s.KindOf("second")
	require.NoError(t, err)
	assert.Equal(t, k2, got)

	_, err = s.KindOf("missing")
	require.ErrorIs(t, err, ErrUnknownDefinition)
}

func TestBindWrapsSpan(t *testing.T) {
	s := New("call")
	callKind := s.MustDefine(&Definition{
		Name:     "call",
		Patterns: []query.Query{s.MustCompile("seq(ident, block(paren))")},
	})

	src := "f(x) + g(y)"
	root := parse(t, s, src)
	bound, err := Bind(root, s)
	require.NoError(t, err)

	// Round trip survives binding.
	assert.Equal(t, src, green.ToString(bound))

	redRoot := red.NewRoot(bound, s.Factories())
	calls := query.Kind(callKind).Select(redRoot)
	require.Len(t, calls, 2)

	first := calls[0].Start
	assert.Equal(t, 0, first.Position())
	assert.Equal(t, 5, first.Width(), "f(x) plus trailing space")
	assert.Equal(t, 2, first.SlotCount(), "ident and block re-wrapped verbatim")

	sem, err := first.Semantic()
	require.NoError(t, err)
	assert.Equal(t, callKind, sem.SemanticKind())
}

func TestBindPreservesSharing(t *testing.T) {
	s := New("call")
	s.MustDefine(&Definition{
		Name:     "call",
		Patterns: []query.Query{s.MustCompile("seq(ident, block(paren))")},
	})

	root := parse(t, s, "a b(c)")
	bound, err := Bind(root, s)
	require.NoError(t, err)

	// The unclaimed leading token is shared by reference with the
	// original tree, and so are the claimed span's own children.
	assert.Same(t, root.Slot(0), bound.Slot(0))
	syn, ok := bound.Slot(1).(*green.SyntaxNode)
	require.True(t, ok)
	assert.Same(t, root.Slot(1), syn.Slot(0))
	assert.Same(t, root.Slot(2), syn.Slot(1))
}

func TestBindingOrderFirstMatchWins(t *testing.T) {
	s := New("overlap")
	d1 := s.MustDefine(&Definition{
		Name:     "wide",
		Patterns: []query.Query{s.MustCompile("seq(ident, number)")},
	})
	d2 := s.MustDefine(&Definition{
		Name:     "narrow",
		Patterns: []query.Query{s.MustCompile("ident")},
	})

	root := parse(t, s, "x 1")
	bound, err := Bind(root, s)
	require.NoError(t, err)

	// Both definitions could match at the ident; the earlier one claims it.
	require.Equal(t, 1, bound.SlotCount())
	assert.Equal(t, d1, bound.Slot(0).Kind())
	_ = d2
}

func TestBindScansPastClaims(t *testing.T) {
	s := New("pair")
	kind := s.MustDefine(&Definition{
		Name:     "pair",
		Patterns: []query.Query{s.MustCompile("seq(ident, number)")},
	})

	bound, err := Bind(parse(t, s, "a 1 b 2 c"), s)
	require.NoError(t, err)

	require.Equal(t, 3, bound.SlotCount())
	assert.Equal(t, kind, bound.Slot(0).Kind())
	assert.Equal(t, kind, bound.Slot(1).Kind())
	assert.Equal(t, green.KindIdent, bound.Slot(2).Kind(), "trailing ident stays unclaimed")
}

func TestBindDescendsIntoBlocks(t *testing.T) {
	s := New("nested")
	kind := s.MustDefine(&Definition{
		Name:     "call",
		Patterns: []query.Query{s.MustCompile("seq(ident, block(paren))")},
	})

	bound, err := Bind(parse(t, s, "{ g(y) }"), s)
	require.NoError(t, err)

	blk, ok := bound.Slot(0).(*green.Block)
	require.True(t, ok)
	require.Equal(t, 1, blk.SlotCount())
	assert.Equal(t, kind, blk.Slot(0).Kind())
}

func TestAcceptFallsThroughPatterns(t *testing.T) {
	s := New("picky")
	s.MustDefine(&Definition{
		Name: "named",
		Patterns: []query.Query{
			s.MustCompile("seq(ident, block(paren))"),
		},
		Accept: func(m NodeMatch) bool {
			leaf, ok := m.Nodes[0].(*green.Leaf)
			return ok && leaf.Text() == "keep"
		},
	})

	bound, err := Bind(parse(t, s, "drop(x) keep(y)"), s)
	require.NoError(t, err)

	require.Equal(t, 3, bound.SlotCount())
	assert.Equal(t, green.KindIdent, bound.Slot(0).Kind(), "rejected match stays structural")
	assert.True(t, bound.Slot(2).Kind().IsSemantic())
}

func TestNodeMatchCapture(t *testing.T) {
	s := New("cap")
	var captured NodeMatch
	s.MustDefine(&Definition{
		Name:     "pair",
		Patterns: []query.Query{s.MustCompile("seq(ident, number)")},
		Accept: func(m NodeMatch) bool {
			captured = m
			return true
		},
	})

	_, err := Bind(parse(t, s, "x 42"), s)
	require.NoError(t, err)

	require.Len(t, captured.Nodes, 2)
	assert.Equal(t, 0, captured.Position)
	assert.Equal(t, 4, captured.Width)
	assert.Equal(t, green.SemanticBase, captured.Kind)
}

func TestBindWithoutDefinitionsIsIdentity(t *testing.T) {
	root := parse(t, nil, "a b c")
	bound, err := Bind(root, New("empty"))
	require.NoError(t, err)
	assert.Same(t, root, bound)

	bound, err = Bind(root, nil)
	require.NoError(t, err)
	assert.Same(t, root, bound)
}

type callNode struct {
	Generic
	name string
}

func TestCustomConstructor(t *testing.T) {
	s := New("typed")
	kind := s.MustDefine(&Definition{
		Name:     "call",
		Patterns: []query.Query{s.MustCompile("seq(ident, block(paren))")},
		New: func(n *red.Node) (red.Semantic, error) {
			leaf, _ := n.Child(0).Leaf()
			return &callNode{
				Generic: Generic{kind: n.Kind(), node: n},
				name:    leaf.Text(),
			}, nil
		},
	})

	bound, err := Bind(parse(t, s, "f(x)"), s)
	require.NoError(t, err)

	redRoot := red.NewRoot(bound, s.Factories())
	sem, err := redRoot.Child(0).Semantic()
	require.NoError(t, err)

	call, ok := sem.(*callNode)
	require.True(t, ok)
	assert.Equal(t, "f", call.name)
	assert.Equal(t, kind, call.SemanticKind())
}
