package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/lexer"
	"github.com/oxhq/syntree/red"
)

func selectTexts(t *testing.T, s *Schema, expr, src string) []string {
	t.Helper()
	q, err := s.Compile(expr)
	require.NoError(t, err)

	root := red.NewRoot(lexer.Tokenize(src, s.TokenizerOptions()), nil)
	var out []string
	for _, m := range q.Select(root) {
		out = append(out, green.ToString(m.Start.Green()))
	}
	return out
}

func TestCompileAtoms(t *testing.T) {
	s := New("atoms")
	s.AddKeyword("func")

	tests := []struct {
		expr string
		src  string
		want []string
	}{
		{"ident", "a 1 b", []string{"a ", "b"}},
		{"number", "a 1 b", []string{"1 "}},
		{"text(\"a\")", "a b a", []string{"a ", "a"}},
		{"keyword(func)", "func a", []string{"func "}},
		{"block(brace)", "( ) { }", []string{"{ }"}},
		{"block(any)", "( ) { }", []string{"( ) ", "{ }"}},
		{"first(ident)", "a b c", []string{"a "}},
		{"nth(ident, 1)", "a b c", []string{"b "}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, selectTexts(t, s, tt.expr, tt.src))
		})
	}
}

func TestCompileCombinators(t *testing.T) {
	s := New("combinators")
	for _, expr := range []string{
		"seq(ident, block(paren))",
		"opt(ident)",
		"repeat(ident, 1, 3)",
		"star(any)",
		"plus(number)",
		"until(any, newline)",
		"followed_by(ident, operator)",
		"not_followed_by(ident, operator)",
		"not(error)",
		"any_of(ident, number)",
		"none_of(punct, operator)",
		"between(ident, punct)",
		"sibling(ident, -1)",
		"parent(block(brace))",
		"ancestor(kind(list))",
		"skip(ident, 1)",
		"take(ident, 2)",
		"last(ident)",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := s.Compile(expr)
			if expr == "ancestor(kind(list))" {
				// list is not a named kind in the expression language.
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	s := New("bad")
	for _, expr := range []string{
		"",
		"nonsense",
		"seq(",
		"seq()",
		"repeat(ident)",
		"keyword(missing)",
		"block(angle)",
		"ident trailing",
		"text(unquoted)",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := s.Compile(expr)
			require.Error(t, err)
		})
	}
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
name: demo
keywords: [if, else]
definitions:
  - name: call
    patterns:
      - seq(ident, block(paren))
  - name: conditional
    patterns:
      - seq(keyword(if), any, block(brace))
`)
	s, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name())
	assert.True(t, s.HasDefinitions())
	assert.Len(t, s.SortedDefinitions(), 2)

	kIf, ok := s.KeywordKind("if")
	require.True(t, ok)
	assert.Equal(t, green.KeywordBase, kIf)

	callKind, err := s.KindOf("call")
	require.NoError(t, err)
	assert.Equal(t, green.SemanticBase, callKind)

	condKind, err := s.KindOf("conditional")
	require.NoError(t, err)
	assert.Equal(t, green.SemanticBase+1, condKind)

	// Bad pattern text surfaces with definition context.
	_, err = Parse([]byte("definitions:\n  - name: x\n    patterns: [\"bogus(\"]\n"))
	require.Error(t, err)
}
