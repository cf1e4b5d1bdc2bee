package snippet

import (
	"sort"
	"strings"
)

// AliasSeparator separates alternative names in a registry key, as in
// "a|link".
const AliasSeparator = "|"

// Static is a map-backed Registry. It is safe for concurrent reads once
// populated.
type Static struct {
	entries map[string]*Snippet
}

// NewStatic returns an empty Static registry.
func NewStatic() *Static {
	return &Static{entries: make(map[string]*Snippet)}
}

// Set registers s under every name listed in key. Later registrations of
// the same name replace earlier ones.
func (r *Static) Set(key string, s *Snippet) *Snippet {
	for _, name := range strings.Split(key, AliasSeparator) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		r.entries[name] = s
	}
	return s
}

// Define registers a template snippet under key.
func (r *Static) Define(key, body string) *Snippet {
	return r.Set(key, Template(body))
}

// DefineFunc registers a handler snippet under key.
func (r *Static) DefineFunc(key string, h Handler) *Snippet {
	return r.Set(key, Func(h))
}

// Resolve implements Registry.
func (r *Static) Resolve(name string) *Snippet {
	if r == nil || name == "" {
		return nil
	}
	return r.entries[name]
}

// Names returns the registered names in sorted order.
func (r *Static) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered names.
func (r *Static) Len() int {
	return len(r.entries)
}

// Merge copies every entry of other into r, replacing existing names.
// Snippet identities are preserved.
func (r *Static) Merge(other *Static) {
	for name, s := range other.entries {
		r.entries[name] = s
	}
}

// Chain returns a Registry that asks regs in order and returns the first
// snippet found.
func Chain(regs ...Registry) Registry {
	return RegistryFunc(func(name string) *Snippet {
		for _, reg := range regs {
			if reg == nil {
				continue
			}
			if s := reg.Resolve(name); s != nil {
				return s
			}
		}
		return nil
	})
}
