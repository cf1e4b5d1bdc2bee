// Package snippet defines snippet values and the registry contract that
// snippet resolution consumes.
//
// A Snippet is either a template, an abbreviation string that is parsed
// into a sub-tree, or a handler that mutates the node it resolves. The
// *Snippet pointer is its identity: aliases registered under several
// names share one pointer, and resolution uses that pointer to detect
// self-reference.
package snippet

import "github.com/vango-dev/abbrev/pkg/abbr"

// Kind is the snippet variant discriminator.
type Kind uint8

const (
	KindTemplate Kind = iota // Parsed into a sub-tree and spliced
	KindHandler              // Mutates the node directly
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindTemplate:
		return "template"
	case KindHandler:
		return "handler"
	default:
		return "unknown"
	}
}

// ResolveFunc resolves a single node. It is the continuation handed to
// handlers so they can resolve nodes they create.
type ResolveFunc func(t *abbr.Tree, id abbr.NodeID) error

// Call carries the arguments of a handler invocation.
type Call struct {
	Tree     *abbr.Tree
	Node     abbr.NodeID
	Registry Registry
	Parse    abbr.ParseFunc
	Resolve  ResolveFunc
}

// Element returns the payload of the node being resolved.
func (c *Call) Element() *abbr.Element {
	return c.Tree.Element(c.Node)
}

// Handler computes a node's final shape in place. It runs synchronously;
// a returned error is propagated unchanged.
type Handler func(c *Call) error

// Snippet is a registry entry.
type Snippet struct {
	kind     Kind
	template string
	handler  Handler
}

// Template returns a snippet that expands to the tree parsed from body.
func Template(body string) *Snippet {
	return &Snippet{kind: KindTemplate, template: body}
}

// Func returns a snippet that hands the node to h.
func Func(h Handler) *Snippet {
	return &Snippet{kind: KindHandler, handler: h}
}

// Kind returns the variant of s.
func (s *Snippet) Kind() Kind { return s.kind }

// Body returns the template text; empty for handlers.
func (s *Snippet) Body() string { return s.template }

// Handler returns the handler; nil for templates.
func (s *Snippet) Handler() Handler { return s.handler }

// Registry looks snippets up by node name.
type Registry interface {
	// Resolve returns the snippet registered for name, or nil. It must be
	// deterministic for a given name.
	Resolve(name string) *Snippet
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(name string) *Snippet

// Resolve implements Registry.
func (f RegistryFunc) Resolve(name string) *Snippet {
	return f(name)
}
