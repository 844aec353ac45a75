// Package query implements the composable matcher engine used for both
// structural queries and semantic binding. Queries operate at two
// granularities: a conservative green-level pre-filter usable without
// position context, and exact matching over red nodes. Multi-sibling
// patterns report how many siblings they consumed so combinators can chain.
package query

import (
	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/red"
)

// Query is a composable matcher.
type Query interface {
	// Matches reports whether the query matches starting at n.
	Matches(n *red.Node) bool

	// MatchesGreen is a conservative pre-filter without position context:
	// it may report false positives but never false negatives.
	MatchesGreen(g green.Node) bool

	// TryMatch attempts a match starting at a node, advancing across
	// siblings. It reports the number of siblings consumed. A failed match
	// consumes zero.
	TryMatch(start *red.Node) (consumed int, ok bool)

	// Select walks a subtree in document order collecting every position
	// where the query matches.
	Select(scope *red.Node) []Match
}

// Match is one query hit: the start node and the number of siblings the
// match consumed. A zero-width match (Count 0) anchors at Start without
// claiming any of its span.
type Match struct {
	Start *red.Node
	Count int
}

// Nodes returns the consumed sibling run. Zero-width matches return only
// the anchor node.
func (m Match) Nodes() []*red.Node {
	if m.Count == 0 {
		return []*red.Node{m.Start}
	}
	out := make([]*red.Node, 0, m.Count)
	cur := m.Start
	for i := 0; i < m.Count && cur != nil; i++ {
		out = append(out, cur)
		cur = cur.NextSibling()
	}
	return out
}

// Position returns the absolute start of the match.
func (m Match) Position() int { return m.Start.Position() }

// Width returns the total character width of the consumed run. A
// zero-width match consumed nothing and reports zero, not the anchor
// node's width.
func (m Match) Width() int {
	if m.Count == 0 {
		return 0
	}
	w := 0
	for _, n := range m.Nodes() {
		w += n.Width()
	}
	return w
}

// subtreePruner lets a query skip whole subtrees during Select using the
// green contains flags. Skipping must never lose a real match.
type subtreePruner interface {
	SkipSubtree(g green.Node) bool
}

// selectAll is the shared document-order walk behind every combinator's
// Select.
func selectAll(q Query, scope *red.Node) []Match {
	var out []Match
	pruner, prunes := q.(subtreePruner)
	scope.Walk(func(n *red.Node) bool {
		if q.MatchesGreen(n.Green()) {
			if c, ok := q.TryMatch(n); ok {
				out = append(out, Match{Start: n, Count: c})
			}
		}
		if prunes && pruner.SkipSubtree(n.Green()) {
			return false
		}
		return true
	})
	return out
}

// advance returns the sibling k slots to the right of n, or nil when the
// run ends first.
func advance(n *red.Node, k int) *red.Node {
	cur := n
	for i := 0; i < k && cur != nil; i++ {
		cur = cur.NextSibling()
	}
	return cur
}
