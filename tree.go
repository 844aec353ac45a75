// Package syntree is a lossless, mutable-by-replacement syntax tree
// library. Text is tokenized into an immutable green tree that preserves
// every character, navigated through an ephemeral red overlay carrying
// absolute positions, queried with composable patterns, and edited by
// structural replacement without re-parsing. Green roots share structure
// across versions, which makes undo history O(1) per edit.
package syntree

import (
	"errors"
	"sync/atomic"

	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/lexer"
	"github.com/oxhq/syntree/query"
	"github.com/oxhq/syntree/red"
	"github.com/oxhq/syntree/schema"
)

var (
	// ErrNoUndo reports an Undo call with no history to pop.
	ErrNoUndo = errors.New("syntree: nothing to undo")

	// ErrNoRedo reports a Redo call after the redo stack was cleared or
	// exhausted.
	ErrNoRedo = errors.New("syntree: nothing to redo")

	// ErrNoSchema reports a schema-dependent operation on an unbound tree.
	ErrNoSchema = errors.New("syntree: tree has no schema")
)

// Tree owns one current green root, a lazily built red overlay, and the
// undo/redo history. A tree is safe for concurrent read-only navigation;
// Edit, Undo and Redo must be serialized by the owner and must not run
// concurrently with navigation.
type Tree struct {
	sch  *schema.Schema
	root *green.List
	red  atomic.Pointer[red.Node]
	undo []*green.List
	redo []*green.List
}

// Parse tokenizes text and, when the schema declares semantic patterns,
// binds them. A nil schema produces a purely structural tree.
func Parse(text string, sch *schema.Schema) (*Tree, error) {
	opts := lexer.DefaultOptions()
	if sch != nil {
		opts = sch.TokenizerOptions()
	}
	root := lexer.Tokenize(text, opts)
	if sch != nil && sch.HasDefinitions() {
		bound, err := schema.Bind(root, sch)
		if err != nil {
			return nil, err
		}
		root = bound
	}
	return New(root, sch), nil
}

// New wraps an existing green root in a tree.
func New(root *green.List, sch *schema.Schema) *Tree {
	return &Tree{sch: sch, root: root}
}

// Schema returns the attached schema, or nil for an unbound tree.
func (t *Tree) Schema() *schema.Schema { return t.sch }

// GreenRoot returns the current green root.
func (t *Tree) GreenRoot() *green.List { return t.root }

// Root returns the red overlay root, building it on first access after a
// parse or mutation.
func (t *Tree) Root() *red.Node {
	if r := t.red.Load(); r != nil {
		return r
	}
	var factories *red.Factories
	if t.sch != nil {
		factories = t.sch.Factories()
	}
	built := red.NewRoot(t.root, factories)
	if t.red.CompareAndSwap(nil, built) {
		return built
	}
	return t.red.Load()
}

// Text reconstructs the full source in one depth-first pass. For any
// parsed input this is byte-exact, error nodes included.
func (t *Tree) Text() string { return green.ToString(t.root) }

// Select runs a query over the whole tree.
func (t *Tree) Select(q query.Query) []query.Match {
	return q.Select(t.Root())
}

// SelectExpr compiles a pattern expression against the schema and runs it.
func (t *Tree) SelectExpr(expr string) ([]query.Match, error) {
	if t.sch == nil {
		return nil, ErrNoSchema
	}
	q, err := t.sch.Compile(expr)
	if err != nil {
		return nil, err
	}
	return t.Select(q), nil
}

// ResolvePath re-locates a captured path against the current overlay.
func (t *Tree) ResolvePath(p red.Path) (*red.Node, error) {
	return p.Resolve(t.Root())
}

// Edit applies a mutation: fn receives the current red root and returns
// the replacement green root. On success the old root is pushed onto the
// undo stack, the redo stack is cleared, and the red overlay is dropped to
// be rebuilt lazily on next access. On error the tree is unchanged.
func (t *Tree) Edit(fn func(root *red.Node) (*green.List, error)) error {
	next, err := fn(t.Root())
	if err != nil {
		return err
	}
	t.undo = append(t.undo, t.root)
	t.redo = nil
	t.setRoot(next)
	return nil
}

// Replace is the common span edit: it substitutes count children at start
// under the container at path, keeping everything off the rebuilt ancestor
// chain shared.
func (t *Tree) Replace(path red.Path, start, count int, nodes ...green.Node) error {
	return t.Edit(func(*red.Node) (*green.List, error) {
		next, err := green.ReplaceAt(t.root, path, start, count, nodes...)
		if err != nil {
			return nil, err
		}
		return next.(*green.List), nil
	})
}

// Undo restores the previous green root, moving the current one to the
// redo stack. Plain stack transfers: O(1) thanks to structural sharing.
func (t *Tree) Undo() error {
	if len(t.undo) == 0 {
		return ErrNoUndo
	}
	prev := t.undo[len(t.undo)-1]
	t.undo = t.undo[:len(t.undo)-1]
	t.redo = append(t.redo, t.root)
	t.setRoot(prev)
	return nil
}

// Redo re-applies the most recently undone edit.
func (t *Tree) Redo() error {
	if len(t.redo) == 0 {
		return ErrNoRedo
	}
	next := t.redo[len(t.redo)-1]
	t.redo = t.redo[:len(t.redo)-1]
	t.undo = append(t.undo, t.root)
	t.setRoot(next)
	return nil
}

// CanUndo reports whether Undo would succeed.
func (t *Tree) CanUndo() bool { return len(t.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (t *Tree) CanRedo() bool { return len(t.redo) > 0 }

// ClearHistory drops both stacks without touching the current tree.
func (t *Tree) ClearHistory() {
	t.undo = nil
	t.redo = nil
}

func (t *Tree) setRoot(root *green.List) {
	t.root = root
	t.red.Store(nil)
}
