// Package treeyaml reads and writes abbreviation trees in a YAML notation.
//
// A document is a sequence of nodes, or a single node mapping:
//
//	- name: a
//	  attributes:
//	    href: "#"
//	    "!title": ~
//	  classes: [link]
//	  value: Home
//	  children:
//	    - name: span
//
// Attribute keys prefixed with "!" are implied; a null value means the
// attribute carries no explicit value. A "class" attribute is folded into
// the class list. classes accepts a list or a space-separated string.
//
// [Parse] has the shape of an [abbr.ParseFunc], so snippet templates can
// be written in this notation.
package treeyaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/abbrev/pkg/abbr"
)

// Error reports a malformed document. Path locates the offending node,
// like "nodes[0].children[1]".
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("treeyaml: %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const docPath = "<doc>"

// yamlNode mirrors abbr.Element with YAML tags. Attributes and classes are
// held as yaml.Node for ordered and polymorphic decoding; an absent key
// leaves Kind at 0.
type yamlNode struct {
	Name        string      `yaml:"name"`
	Attributes  yaml.Node   `yaml:"attributes,omitempty"`
	Classes     yaml.Node   `yaml:"classes,omitempty"`
	Value       *string     `yaml:"value,omitempty"`
	SelfClosing bool        `yaml:"selfClosing,omitempty"`
	Repeat      *yamlRepeat `yaml:"repeat,omitempty"`
	Children    []yamlNode  `yaml:"children,omitempty"`
}

type yamlRepeat struct {
	Count int `yaml:"count"`
	Index int `yaml:"index"`
}

// Parse parses template text. It is an abbr.ParseFunc.
func Parse(template string) (*abbr.Tree, error) {
	return Decode([]byte(template))
}

// Decode parses a YAML document into a new tree. An empty or null
// document yields an empty tree.
func Decode(in []byte) (*abbr.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(in, &doc); err != nil {
		return nil, &Error{Path: docPath, Err: err}
	}
	if len(doc.Content) == 0 {
		return abbr.New(), nil
	}
	return DecodeNode(doc.Content[0])
}

// DecodeNode converts an already parsed YAML node into a new tree.
func DecodeNode(root *yaml.Node) (*abbr.Tree, error) {
	var nodes []yamlNode
	switch {
	case root.Kind == yaml.SequenceNode:
		for i, item := range root.Content {
			if err := checkFields(item, fmt.Sprintf("nodes[%d]", i)); err != nil {
				return nil, err
			}
		}
		if err := root.Decode(&nodes); err != nil {
			return nil, &Error{Path: docPath, Err: err}
		}
	case root.Kind == yaml.MappingNode:
		if err := checkFields(root, "nodes[0]"); err != nil {
			return nil, err
		}
		var n yamlNode
		if err := root.Decode(&n); err != nil {
			return nil, &Error{Path: docPath, Err: err}
		}
		nodes = []yamlNode{n}
	case isNull(root):
		return abbr.New(), nil
	default:
		return nil, &Error{Path: docPath, Err: fmt.Errorf("expected a node or a list of nodes, got %s", kindName(root))}
	}

	t := abbr.New()
	for i, n := range nodes {
		if err := appendNode(t, t.Root(), n, fmt.Sprintf("nodes[%d]", i)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

var nodeFields = map[string]bool{
	"name":        true,
	"attributes":  true,
	"classes":     true,
	"value":       true,
	"selfClosing": true,
	"repeat":      true,
	"children":    true,
}

// checkFields rejects keys of a node mapping, or of its children, that
// do not name a node field.
func checkFields(n *yaml.Node, path string) error {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if !nodeFields[key.Value] {
			return &Error{Path: path, Err: fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)}
		}
		if key.Value == "children" && val.Kind == yaml.SequenceNode {
			for j, c := range val.Content {
				if err := checkFields(c, fmt.Sprintf("%s.children[%d]", path, j)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func appendNode(t *abbr.Tree, parent abbr.NodeID, n yamlNode, path string) error {
	el, err := convertElement(n)
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	id := t.Append(parent, el)
	for i, c := range n.Children {
		if err := appendNode(t, id, c, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func convertElement(n yamlNode) (abbr.Element, error) {
	el := abbr.Element{
		Name:        n.Name,
		Value:       n.Value,
		SelfClosing: n.SelfClosing,
	}

	classes, err := convertClasses(&n.Classes)
	if err != nil {
		return abbr.Element{}, err
	}
	el.AddClass(classes...)

	if err := convertAttributes(&el, &n.Attributes); err != nil {
		return abbr.Element{}, err
	}

	if n.Repeat != nil {
		r := *n.Repeat
		if r.Count < 1 {
			return abbr.Element{}, fmt.Errorf("repeat: count must be positive, got %d", r.Count)
		}
		if r.Index < 0 || r.Index >= r.Count {
			return abbr.Element{}, fmt.Errorf("repeat: index %d out of range [0, %d)", r.Index, r.Count)
		}
		el.Repeat = &abbr.Repeat{Count: r.Count, Index: r.Index}
	}
	return el, nil
}

func convertClasses(n *yaml.Node) ([]string, error) {
	switch {
	case n.Kind == 0 || isNull(n):
		return nil, nil
	case n.Kind == yaml.ScalarNode:
		return strings.Fields(n.Value), nil
	case n.Kind == yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for i, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("classes[%d]: expected a string, got %s", i, kindName(c))
			}
			out = append(out, c.Value)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("classes: expected a list or a string, got %s", kindName(n))
	}
}

func convertAttributes(el *abbr.Element, n *yaml.Node) error {
	if n.Kind == 0 || isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("attributes: expected a mapping, got %s", kindName(n))
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		a := abbr.Attribute{Name: key.Value}
		if name, ok := strings.CutPrefix(a.Name, "!"); ok {
			a.Name = name
			a.Implied = true
		}
		if a.Name == "" {
			return errors.New("attributes: empty attribute name")
		}
		switch {
		case isNull(val):
		case val.Kind == yaml.ScalarNode:
			a.Value = abbr.Str(val.Value)
		default:
			return fmt.Errorf("attributes.%s: expected a scalar, got %s", a.Name, kindName(val))
		}
		if el.Attr(a.Name) != nil {
			return fmt.Errorf("attributes: duplicate attribute %q", a.Name)
		}
		el.SetAttr(a)
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar " + n.ShortTag()
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node kind " + strconv.Itoa(int(n.Kind))
	}
}

// ---- Marshal ----------------------------------------------------------------

// Marshal encodes the children of t's root as a YAML sequence. Attribute
// order is preserved. The output decodes back into an equal tree.
func Marshal(t *abbr.Tree) ([]byte, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, c := range t.Children(t.Root()) {
		seq.Content = append(seq.Content, encodeNode(t, c))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return nil, fmt.Errorf("treeyaml: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("treeyaml: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeNode(t *abbr.Tree, id abbr.NodeID) *yaml.Node {
	el := t.Element(id)
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, val *yaml.Node) {
		m.Content = append(m.Content, strNode(key), val)
	}

	add("name", strNode(el.Name))

	if len(el.Attributes) > 0 {
		attrs := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, a := range el.Attributes {
			key := a.Name
			if a.Implied {
				key = "!" + key
			}
			val := nullNode()
			if a.Value != nil {
				val = strNode(*a.Value)
			}
			attrs.Content = append(attrs.Content, strNode(key), val)
		}
		add("attributes", attrs)
	}

	if len(el.Classes) > 0 {
		classes := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, c := range el.Classes {
			classes.Content = append(classes.Content, strNode(c))
		}
		add("classes", classes)
	}

	if el.Value != nil {
		add("value", strNode(*el.Value))
	}
	if el.SelfClosing {
		add("selfClosing", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
	if el.Repeat != nil {
		add("repeat", &yaml.Node{
			Kind:  yaml.MappingNode,
			Tag:   "!!map",
			Style: yaml.FlowStyle,
			Content: []*yaml.Node{
				strNode("count"), intNode(el.Repeat.Count),
				strNode("index"), intNode(el.Repeat.Index),
			},
		})
	}

	if t.FirstChild(id) != abbr.None {
		children := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, c := range t.Children(id) {
			children.Content = append(children.Content, encodeNode(t, c))
		}
		add("children", children)
	}
	return m
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
}
