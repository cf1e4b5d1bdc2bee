package resolve

import (
	"strings"

	"github.com/vango-dev/abbrev/pkg/abbr"
)

// merge carries the authored node src over to the expansion target dst.
//
// dst keeps its name. The self-closing flag is or-ed, a non-nil value and
// repeat descriptor of src replace those of dst, and classes are unioned
// with dst's first. Attributes keep dst's order with src-only attributes
// appended; for a shared name an explicit src value wins and the implied
// flag is cleared. A src attribute named without a value keeps dst's
// value, so `meta[charset]` over `meta[charset="UTF-8"]` stays UTF-8
// while `script[src]` over `script[!src]` becomes an empty src.
func merge(dst, src *abbr.Element) {
	if src.SelfClosing {
		dst.SelfClosing = true
	}
	if src.Value != nil {
		dst.Value = abbr.Str(*src.Value)
	}
	if src.Repeat != nil {
		r := *src.Repeat
		dst.Repeat = &r
	}
	dst.AddClass(src.Classes...)
	mergeAttributes(dst, src)
}

func mergeAttributes(dst, src *abbr.Element) {
	if len(src.Attributes) == 0 {
		return
	}

	merged := make([]abbr.Attribute, 0, len(dst.Attributes)+len(src.Attributes))
	index := make(map[string]int, cap(merged))
	for _, a := range dst.Attributes {
		index[a.Name] = len(merged)
		merged = append(merged, a)
	}

	for _, a := range src.Attributes {
		if a.Name == "class" {
			if a.Value != nil {
				dst.AddClass(strings.Fields(*a.Value)...)
			}
			continue
		}
		i, ok := index[a.Name]
		if !ok {
			index[a.Name] = len(merged)
			merged = append(merged, cloneAttribute(a))
			continue
		}
		if a.Value != nil {
			merged[i].Value = abbr.Str(*a.Value)
		}
		merged[i].Implied = false
	}

	dst.Attributes = merged
}

func cloneAttribute(a abbr.Attribute) abbr.Attribute {
	if a.Value != nil {
		a.Value = abbr.Str(*a.Value)
	}
	return a
}

// deepest follows the last child from id until it reaches a leaf.
func deepest(t *abbr.Tree, id abbr.NodeID) abbr.NodeID {
	for {
		last := t.LastChild(id)
		if last == abbr.None {
			return id
		}
		id = last
	}
}
