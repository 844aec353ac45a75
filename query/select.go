package query

import (
	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/red"
)

// Selection modes are pure post-filters over a query's match sequence;
// matching semantics are untouched.

// First keeps only the first match in document order.
func First(inner Query) Query { return selector{inner: inner, pick: pickFirst} }

// Last keeps only the last match in document order.
func Last(inner Query) Query { return selector{inner: inner, pick: pickLast} }

// Nth keeps only the n-th match (zero-based).
func Nth(inner Query, n int) Query { return selector{inner: inner, pick: pickNth, n: n} }

// Skip drops the first n matches.
func Skip(inner Query, n int) Query { return selector{inner: inner, pick: pickSkip, n: n} }

// Take keeps at most the first n matches.
func Take(inner Query, n int) Query { return selector{inner: inner, pick: pickTake, n: n} }

type pickMode int

const (
	pickFirst pickMode = iota
	pickLast
	pickNth
	pickSkip
	pickTake
)

type selector struct {
	inner Query
	pick  pickMode
	n     int
}

func (s selector) Matches(n *red.Node) bool          { return s.inner.Matches(n) }
func (s selector) MatchesGreen(g green.Node) bool    { return s.inner.MatchesGreen(g) }
func (s selector) TryMatch(n *red.Node) (int, bool)  { return s.inner.TryMatch(n) }

func (s selector) Select(scope *red.Node) []Match {
	all := s.inner.Select(scope)
	switch s.pick {
	case pickFirst:
		if len(all) == 0 {
			return nil
		}
		return all[:1]
	case pickLast:
		if len(all) == 0 {
			return nil
		}
		return all[len(all)-1:]
	case pickNth:
		if s.n < 0 || s.n >= len(all) {
			return nil
		}
		return all[s.n : s.n+1]
	case pickSkip:
		if s.n >= len(all) {
			return nil
		}
		if s.n < 0 {
			return all
		}
		return all[s.n:]
	case pickTake:
		if s.n <= 0 {
			return nil
		}
		if s.n >= len(all) {
			return all
		}
		return all[:s.n]
	}
	return all
}
