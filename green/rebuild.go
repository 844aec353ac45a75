package green

import "fmt"

// ReplaceAt rebuilds the ancestor chain from a mutation site to the root:
// it walks the child-index path to the target container, replaces count
// children at start with repl, and reconstructs exactly the containers
// along the path. Everything off the path is shared with the input tree.
func ReplaceAt(root Container, path []int, start, count int, repl ...Node) (Container, error) {
	if len(path) == 0 {
		return root.WithReplace(start, count, repl...)
	}
	slot := path[0]
	child, ok := root.Slot(slot).(Container)
	if !ok {
		return nil, fmt.Errorf("green: replace at path %v: slot %d is not a container", path, slot)
	}
	rebuilt, err := ReplaceAt(child, path[1:], start, count, repl...)
	if err != nil {
		return nil, err
	}
	return root.WithSlot(slot, rebuilt)
}
