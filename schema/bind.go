package schema

import (
	"fmt"

	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/red"
)

// Bind runs the schema's definitions over a green tree and returns a new
// tree where every claimed span is wrapped in a green.SyntaxNode. The
// original tree is untouched; unclaimed subtrees are shared by reference.
//
// Binding walks the tree once per definition in declaration order, so
// earlier definitions claim nodes first. Within one definition a node is
// tried against each pattern in order and the first pattern whose match is
// accepted wins; scanning then resumes after the claimed span.
func Bind(root *green.List, s *Schema) (*green.List, error) {
	if s == nil || !s.HasDefinitions() {
		return root, nil
	}
	cur := root
	for _, def := range s.defs {
		next, err := bindDefinition(cur, def)
		if err != nil {
			return nil, fmt.Errorf("schema %q: bind %q: %w", s.name, def.Name, err)
		}
		cur = next
	}
	return cur, nil
}

// claim is one span a definition takes: the parent's path, the start slot
// and the sibling count, plus the wrapped green children.
type claim struct {
	parent red.Path
	start  int
	count  int
	nodes  []green.Node
}

func bindDefinition(root *green.List, def *Definition) (*green.List, error) {
	redRoot := red.NewRoot(root, nil)
	claims := collectClaims(redRoot, def)
	if len(claims) == 0 {
		return root, nil
	}

	// Claims were collected in document order. Applying them in reverse
	// keeps every remaining claim's path and slot indices valid: a
	// replacement only shifts slots after its own start inside its own
	// parent, and those all belong to later claims.
	var out green.Container = root
	for i := len(claims) - 1; i >= 0; i-- {
		c := claims[i]
		wrapped := green.NewSyntaxNode(def.kind, def.Name, c.nodes...)
		next, err := green.ReplaceAt(out, c.parent, c.start, c.count, wrapped)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out.(*green.List), nil
}

func collectClaims(n *red.Node, def *Definition) []claim {
	var claims []claim
	var scan func(n *red.Node)
	scan = func(n *red.Node) {
		for i := 0; i < n.SlotCount(); {
			child := n.Child(i)
			count, ok := tryClaim(child, def)
			if !ok {
				scan(child)
				i++
				continue
			}
			nodes := make([]green.Node, count)
			for k := 0; k < count; k++ {
				nodes[k] = n.Green().Slot(i + k)
			}
			claims = append(claims, claim{
				parent: red.PathOf(n),
				start:  i,
				count:  count,
				nodes:  nodes,
			})
			i += count
		}
	}
	scan(n)
	return claims
}

// tryClaim tries the definition's patterns in order at one start node.
func tryClaim(n *red.Node, def *Definition) (int, bool) {
	for _, p := range def.Patterns {
		c, ok := p.TryMatch(n)
		if !ok || c == 0 {
			continue
		}
		if def.Accept != nil && !def.Accept(makeMatch(def, n, c)) {
			continue
		}
		return c, true
	}
	return 0, false
}

func makeMatch(def *Definition, start *red.Node, count int) NodeMatch {
	m := NodeMatch{
		Kind:     def.kind,
		Position: start.Position(),
	}
	cur := start
	for i := 0; i < count && cur != nil; i++ {
		m.Nodes = append(m.Nodes, cur.Green())
		m.Width += cur.Width()
		cur = cur.NextSibling()
	}
	return m
}
