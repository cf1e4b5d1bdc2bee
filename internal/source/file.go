package source

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/abbrev/internal/errors"
	"github.com/vango-dev/abbrev/pkg/snippet"
	"github.com/vango-dev/abbrev/pkg/treeyaml"
)

// Parse decodes a snippets file. name labels errors; it is usually the
// source URI. Every template is parsed once up front, so a registry built
// from a file never fails to expand because of a malformed template.
// Errors carry the lines of data around the failure.
func Parse(name string, data []byte) (*snippet.Static, error) {
	reg, err := parse(name, data)
	if err != nil {
		return nil, err.WithSource(data)
	}
	return reg, nil
}

func parse(name string, data []byte) (*snippet.Static, *errors.AbbrevError) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("E142").
			WithLocationFromError(name, err).
			Wrap(err)
	}

	reg := snippet.NewStatic()
	if len(doc.Content) == 0 {
		return reg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, malformed(name, root, "expected a mapping with a snippets key")
	}

	var snippets *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "snippets" {
			snippets = root.Content[i+1]
		}
	}
	switch {
	case snippets == nil:
		return nil, malformed(name, root, "missing top-level snippets key").
			WithExample("snippets:\n  img: \"name: img\"")
	case snippets.Kind == yaml.ScalarNode && snippets.ShortTag() == "!!null":
		return reg, nil
	case snippets.Kind != yaml.MappingNode:
		return nil, malformed(name, snippets, "snippets must be a mapping of names to templates")
	}

	for i := 0; i+1 < len(snippets.Content); i += 2 {
		key, val := snippets.Content[i], snippets.Content[i+1]
		if strings.Trim(key.Value, snippet.AliasSeparator+" ") == "" {
			return nil, invalid(name, key, "snippet without a name")
		}
		body, err := templateText(val)
		if err != nil {
			return nil, invalid(name, val, fmt.Sprintf("snippet %q: %v", key.Value, err))
		}
		if _, err := treeyaml.Parse(body); err != nil {
			return nil, invalid(name, val, fmt.Sprintf("snippet %q does not parse", key.Value)).Wrap(err)
		}
		reg.Define(key.Value, body)
	}
	return reg, nil
}

// templateText returns the treeyaml text of a snippet value. Inline nodes
// are re-encoded.
func templateText(val *yaml.Node) (string, error) {
	switch val.Kind {
	case yaml.ScalarNode:
		if val.ShortTag() == "!!null" {
			return "", nil
		}
		return val.Value, nil
	case yaml.MappingNode, yaml.SequenceNode:
		out, err := yaml.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported template value")
	}
}

func malformed(name string, n *yaml.Node, detail string) *errors.AbbrevError {
	return errors.New("E142").
		WithDetail(detail).
		WithLocation(name, n.Line, n.Column)
}

func invalid(name string, n *yaml.Node, detail string) *errors.AbbrevError {
	return errors.New("E143").
		WithDetail(detail).
		WithLocation(name, n.Line, n.Column)
}
