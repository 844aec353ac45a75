// Package schema holds language configuration: keyword tables, ordered
// semantic pattern definitions, and the factory wiring that turns bound
// syntax nodes into typed wrappers.
package schema

import (
	"errors"
	"fmt"

	"github.com/oxhq/syntree/green"
	"github.com/oxhq/syntree/lexer"
	"github.com/oxhq/syntree/query"
	"github.com/oxhq/syntree/red"
)

// ErrUnknownDefinition reports a lookup for a definition name the schema
// never declared.
var ErrUnknownDefinition = errors.New("schema: unknown definition")

// NodeMatch is the immutable capture of one pattern hit: the matched green
// nodes in sibling order plus the aggregate span.
type NodeMatch struct {
	Kind     green.NodeKind
	Nodes    []green.Node
	Position int
	Width    int
}

// Definition is one semantic rule: a name, one or more structural patterns
// tried in order, an optional acceptance filter, and an optional wrapper
// constructor. Definitions registered earlier claim nodes first.
type Definition struct {
	Name     string
	Patterns []query.Query

	// Accept vets a pattern hit before it claims the span; nil accepts
	// everything. Returning false falls through to the next pattern.
	Accept func(m NodeMatch) bool

	// New builds the typed red wrapper. Nil uses a generic wrapper.
	New red.Constructor

	kind green.NodeKind
}

// Kind returns the semantic kind allocated to the definition.
func (d *Definition) Kind() green.NodeKind { return d.kind }

// Schema is an ordered set of definitions plus a keyword table. Semantic
// kinds are allocated from green.SemanticBase in declaration order, and the
// red factory table is built incrementally at construction so the bind and
// materialization paths never take a lock.
type Schema struct {
	name      string
	defs      []*Definition
	byName    map[string]*Definition
	keywords  map[string]green.NodeKind
	kwOrder   []string
	factories *red.Factories
}

// New creates an empty schema.
func New(name string) *Schema {
	return &Schema{
		name:      name,
		byName:    make(map[string]*Definition),
		keywords:  make(map[string]green.NodeKind),
		factories: red.NewFactories(),
	}
}

// Name returns the schema's name.
func (s *Schema) Name() string { return s.name }

// AddKeyword allocates a keyword kind for a token text. Adding the same
// text twice returns the existing kind.
func (s *Schema) AddKeyword(text string) green.NodeKind {
	if k, ok := s.keywords[text]; ok {
		return k
	}
	k := green.KeywordBase + green.NodeKind(len(s.keywords))
	s.keywords[text] = k
	s.kwOrder = append(s.kwOrder, text)
	return k
}

// KeywordKind looks up the kind for a keyword text.
func (s *Schema) KeywordKind(text string) (green.NodeKind, bool) {
	k, ok := s.keywords[text]
	return k, ok
}

// Define registers a definition and allocates its semantic kind. The
// registration order is the binding order.
func (s *Schema) Define(d *Definition) (green.NodeKind, error) {
	if d.Name == "" {
		return 0, fmt.Errorf("schema %q: definition needs a name", s.name)
	}
	if _, dup := s.byName[d.Name]; dup {
		return 0, fmt.Errorf("schema %q: duplicate definition %q", s.name, d.Name)
	}
	if len(d.Patterns) == 0 {
		return 0, fmt.Errorf("schema %q: definition %q has no patterns", s.name, d.Name)
	}
	d.kind = green.SemanticBase + green.NodeKind(len(s.defs))
	s.defs = append(s.defs, d)
	s.byName[d.Name] = d

	ctor := d.New
	if ctor == nil {
		kind := d.kind
		ctor = func(n *red.Node) (red.Semantic, error) {
			return &Generic{kind: kind, node: n}, nil
		}
	}
	s.factories.Register(d.Name, ctor)
	return d.kind, nil
}

// MustDefine is Define for static schema construction.
func (s *Schema) MustDefine(d *Definition) green.NodeKind {
	k, err := s.Define(d)
	if err != nil {
		panic(err)
	}
	return k
}

// SortedDefinitions returns definitions in binding order.
func (s *Schema) SortedDefinitions() []*Definition { return s.defs }

// Definition looks up a definition by name.
func (s *Schema) Definition(name string) (*Definition, error) {
	d, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDefinition, name)
	}
	return d, nil
}

// KindOf returns the semantic kind allocated for a definition name.
func (s *Schema) KindOf(name string) (green.NodeKind, error) {
	d, err := s.Definition(name)
	if err != nil {
		return 0, err
	}
	return d.kind, nil
}

// HasDefinitions reports whether binding would do any work.
func (s *Schema) HasDefinitions() bool { return len(s.defs) > 0 }

// TokenizerOptions derives lexer options from the keyword table.
func (s *Schema) TokenizerOptions() lexer.Options {
	return lexer.Options{Keywords: s.keywords}
}

// Factories returns the red factory table. The table is complete once the
// last Define call returns and is read-only afterwards.
func (s *Schema) Factories() *red.Factories { return s.factories }

// Generic is the default semantic wrapper used when a definition supplies
// no constructor.
type Generic struct {
	kind green.NodeKind
	node *red.Node
}

func (g *Generic) SemanticKind() green.NodeKind { return g.kind }
func (g *Generic) Syntax() *red.Node            { return g.node }
