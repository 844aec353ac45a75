package red

import (
	"errors"
	"fmt"

	"github.com/oxhq/syntree/green"
)

// ErrUnregisteredType reports a green syntax node whose type tag has no
// registered constructor. This is a configuration error: the schema that
// produced the node must register a wrapper for every tag it emits.
var ErrUnregisteredType = errors.New("red: no factory registered for syntax type")

// ErrNoFactories reports semantic materialization on a tree built without
// a factory table.
var ErrNoFactories = errors.New("red: tree has no factory table")

// Semantic is a typed wrapper over a bound syntax node.
type Semantic interface {
	// SemanticKind returns the schema-allocated kind.
	SemanticKind() green.NodeKind
	// Syntax returns the red node the wrapper was materialized from.
	Syntax() *Node
}

// Constructor builds a typed wrapper from the red node being materialized.
// The node gives access to the green node, parent, absolute position and
// sibling index.
type Constructor func(n *Node) (Semantic, error)

// Factories maps syntax type tags to constructors. The table is built once
// during schema construction and is read-only afterwards, so lookups on the
// materialization path take no lock.
type Factories struct {
	byTag map[string]Constructor
}

// NewFactories builds an empty table.
func NewFactories() *Factories {
	return &Factories{byTag: make(map[string]Constructor)}
}

// Register adds a constructor for a type tag. Registration happens during
// schema construction only; the table must not change afterwards.
func (f *Factories) Register(tag string, c Constructor) {
	f.byTag[tag] = c
}

// Resolve returns the constructor for a tag.
func (f *Factories) Resolve(tag string) (Constructor, error) {
	c, ok := f.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnregisteredType, tag)
	}
	return c, nil
}

// Semantic materializes the typed wrapper for a bound syntax node. The
// result is cached on the red node; concurrent callers converge on one
// wrapper. Calling it on a non-syntax node returns nil with no error.
func (n *Node) Semantic() (Semantic, error) {
	syn, ok := n.green.(*green.SyntaxNode)
	if !ok {
		return nil, nil
	}
	if cell := n.semantic.Load(); cell != nil {
		return cell.value, cell.err
	}
	root := n.Root()
	cell := &semanticCell{}
	if root.factories == nil {
		cell.err = ErrNoFactories
	} else if ctor, err := root.factories.Resolve(syn.TypeTag()); err != nil {
		cell.err = err
	} else {
		cell.value, cell.err = ctor(n)
	}
	if n.semantic.CompareAndSwap(nil, cell) {
		return cell.value, cell.err
	}
	won := n.semantic.Load()
	return won.value, won.err
}
