package syntree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/query"
	"github.com/oxhq/syntree/red"
	"github.com/oxhq/syntree/schema"
)

func mustParse(t *testing.T, text string, sch *schema.Schema) *Tree {
	t.Helper()
	tree, err := Parse(text, sch)
	require.NoError(t, err)
	return tree
}

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"x = f(a, b) // call\n",
		"{ nested { deep } }",
		"broken \"string\nnext line",
		"/* only a comment */",
		"",
	}
	for _, src := range tests {
		tree := mustParse(t, src, nil)
		assert.Equal(t, src, tree.Text())
	}
}

func TestParseWithSchemaBinds(t *testing.T) {
	sch := schema.New("demo")
	callKind := sch.MustDefine(&schema.Definition{
		Name:     "call",
		Patterns: []query.Query{sch.MustCompile("seq(ident, block(paren))")},
	})

	src := "f(x) + 1"
	tree := mustParse(t, src, sch)
	assert.Equal(t, src, tree.Text(), "binding preserves round trip")

	matches := tree.Select(query.Kind(callKind))
	require.Len(t, matches, 1)

	sem, err := matches[0].Start.Semantic()
	require.NoError(t, err)
	assert.Equal(t, callKind, sem.SemanticKind())
}

func TestRootIsLazyAndCached(t *testing.T) {
	tree := mustParse(t, "a b", nil)
	assert.Same(t, tree.Root(), tree.Root())

	err := tree.Replace(red.Path{}, 0, 1, green.NewToken(green.KindIdent, "z"))
	require.NoError(t, err)
	// Mutation drops the overlay; the next access builds a fresh one.
	require.NotNil(t, tree.Root())
	assert.Equal(t, "z b", tree.Text())
}

func TestEditUndoRedo(t *testing.T) {
	tree := mustParse(t, "a b c", nil)
	original := tree.Text()

	err := tree.Replace(red.Path{}, 1, 1, green.NewLeaf(green.KindIdent, "B", nil, green.TriviaList{green.Whitespace(" ")}))
	require.NoError(t, err)
	edited := tree.Text()
	assert.Equal(t, "a B c", edited)

	require.NoError(t, tree.Undo())
	assert.Equal(t, original, tree.Text())
	assert.True(t, tree.CanRedo())

	require.NoError(t, tree.Redo())
	assert.Equal(t, edited, tree.Text())

	require.ErrorIs(t, tree.Redo(), ErrNoRedo)
	require.NoError(t, tree.Undo())
	require.NoError(t, tree.Undo())
	require.ErrorIs(t, tree.Undo(), ErrNoUndo)
}

func TestEditClearsRedo(t *testing.T) {
	tree := mustParse(t, "a b", nil)

	require.NoError(t, tree.Replace(red.Path{}, 0, 1, green.NewToken(green.KindIdent, "x")))
	require.NoError(t, tree.Undo())
	require.True(t, tree.CanRedo())

	// A divergent edit after undo invalidates the redo stack.
	require.NoError(t, tree.Replace(red.Path{}, 1, 1, green.NewToken(green.KindIdent, "y")))
	assert.False(t, tree.CanRedo())
	require.ErrorIs(t, tree.Redo(), ErrNoRedo)
}

func TestEditErrorLeavesTreeUntouched(t *testing.T) {
	tree := mustParse(t, "a b", nil)
	before := tree.Text()

	err := tree.Replace(red.Path{}, 5, 1, green.NewToken(green.KindIdent, "x"))
	require.Error(t, err)
	var re *green.RangeError
	require.ErrorAs(t, err, &re)

	assert.Equal(t, before, tree.Text())
	assert.False(t, tree.CanUndo(), "failed edits leave no history")
}

func TestClearHistory(t *testing.T) {
	tree := mustParse(t, "a", nil)
	require.NoError(t, tree.Replace(red.Path{}, 0, 1, green.NewToken(green.KindIdent, "b")))
	require.NoError(t, tree.Undo())

	tree.ClearHistory()
	assert.False(t, tree.CanUndo())
	assert.False(t, tree.CanRedo())
	assert.Equal(t, "a", tree.Text())
}

func TestPathSurvivesEdits(t *testing.T) {
	tree := mustParse(t, "f(a, b)", nil)

	// Capture the path to "b" inside the block.
	matches := tree.Select(query.Text("b"))
	require.Len(t, matches, 1)
	path := red.PathOf(matches[0].Start)

	// Replace "a" with a longer token; positions shift but paths hold.
	require.NoError(t, tree.Replace(red.Path{1}, 0, 1, green.NewToken(green.KindIdent, "longer")))
	assert.Equal(t, "f(longer, b)", tree.Text())

	relocated, err := tree.ResolvePath(path)
	require.NoError(t, err)
	leaf, ok := relocated.Leaf()
	require.True(t, ok)
	assert.Equal(t, "b", leaf.Text())
}

func TestSelectExpr(t *testing.T) {
	sch := schema.New("expr")
	tree := mustParse(t, "a 1 b 2", sch)

	matches, err := tree.SelectExpr("number")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	_, err = tree.SelectExpr("bogus(")
	require.Error(t, err)

	unbound := mustParse(t, "a", nil)
	_, err = unbound.SelectExpr("ident")
	require.ErrorIs(t, err, ErrNoSchema)
}

func TestMultipleLiveVersions(t *testing.T) {
	tree := mustParse(t, "a b c d", nil)
	v0 := tree.GreenRoot()

	require.NoError(t, tree.Replace(red.Path{}, 0, 1, green.NewToken(green.KindIdent, "x")))
	v1 := tree.GreenRoot()

	// Both versions stay valid and share untouched children.
	assert.Equal(t, "a b c d", green.ToString(v0))
	assert.Equal(t, "x b c d", green.ToString(v1))
	assert.Same(t, v0.Slot(1), v1.Slot(1))
	assert.Same(t, v0.Slot(3), v1.Slot(3))
}
