package source

import (
	"context"
	"sort"

	"github.com/vango-dev/abbrev/pkg/snippet"
)

// Set is the snippet registry assembled from configured sources.
type Set struct {
	// User holds the snippets of all loaded sources, later sources
	// overriding earlier ones.
	User *snippet.Static

	// Builtins is the embedded set, or nil when disabled.
	Builtins *snippet.Static
}

// Names returns every resolvable name, sorted, with its origin.
func (s *Set) Names() []Entry {
	seen := make(map[string]bool)
	var out []Entry
	for _, name := range s.User.Names() {
		seen[name] = true
		out = append(out, Entry{Name: name, Origin: OriginUser, Kind: s.User.Resolve(name).Kind().String()})
	}
	if s.Builtins != nil {
		for _, name := range s.Builtins.Names() {
			if seen[name] {
				continue
			}
			out = append(out, Entry{Name: name, Origin: OriginBuiltin, Kind: s.Builtins.Resolve(name).Kind().String()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Origin tells where a snippet was defined.
type Origin string

const (
	OriginUser    Origin = "user"
	OriginBuiltin Origin = "builtin"
)

// Entry describes one resolvable snippet name.
type Entry struct {
	Name   string `json:"name"`
	Origin Origin `json:"origin"`
	Kind   string `json:"kind"`
}

// LoadRegistry loads every source in uris, in order, and layers the
// result over the built-ins when builtins is set.
func LoadRegistry(ctx context.Context, loader *Loader, uris []string, builtins bool) (*Set, error) {
	set := &Set{User: snippet.NewStatic()}
	for _, uri := range uris {
		data, err := loader.Load(ctx, uri)
		if err != nil {
			return nil, err
		}
		reg, err := Parse(uri, data)
		if err != nil {
			return nil, err
		}
		set.User.Merge(reg)
		loader.logger.Info("snippets loaded", "source", uri, "names", reg.Len())
	}
	if builtins {
		set.Builtins = Builtins()
	}
	return set, nil
}

// Registry returns s as a snippet.Registry chaining user snippets over
// built-ins.
func (s *Set) Registry() snippet.Registry {
	if s.Builtins == nil {
		return s.User
	}
	return snippet.Chain(s.User, s.Builtins)
}
