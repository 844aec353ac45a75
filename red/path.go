package red

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a position-independent node address: the child-index route from
// the root. A path captured before a mutation can be resolved against the
// new red root to re-locate "the same place" in the replaced tree.
type Path []int

// PathOf captures the route from the root to n.
func PathOf(n *Node) Path {
	depth := 0
	for p := n; p.parent != nil; p = p.parent {
		depth++
	}
	path := make(Path, depth)
	for p := n; p.parent != nil; p = p.parent {
		depth--
		path[depth] = p.slot
	}
	return path
}

// Resolve walks the path from root. It fails when an index runs past the
// current tree's shape.
func (p Path) Resolve(root *Node) (*Node, error) {
	cur := root
	for i, idx := range p {
		next := cur.Child(idx)
		if next == nil {
			return nil, fmt.Errorf("red: path %s: no child %d at depth %d", p, idx, i)
		}
		cur = next
	}
	return cur, nil
}

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, idx := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(idx))
	}
	return b.String()
}
