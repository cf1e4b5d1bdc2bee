package abbr

import (
	"strconv"
	"strings"
)

// String formats the whole tree in compact notation.
func (t *Tree) String() string {
	return t.Format(t.Root())
}

// Format returns id and its subtree in a compact, abbreviation-like
// notation meant for logs and tests:
//
//	name[attr attr="v" !implied].class{text}*count@index/>(child+child)
//
// A single child follows ">" directly; several children are grouped in
// parentheses and joined by "+". Formatting the root joins its children
// with "+".
func (t *Tree) Format(id NodeID) string {
	var b strings.Builder
	if id == t.Root() {
		t.formatChildren(&b, id, false)
		return b.String()
	}
	t.format(&b, id)
	return b.String()
}

func (t *Tree) format(b *strings.Builder, id NodeID) {
	el := t.Element(id)
	b.WriteString(el.Name)

	if len(el.Attributes) > 0 {
		b.WriteByte('[')
		for i, a := range el.Attributes {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(a.String())
		}
		b.WriteByte(']')
	}
	for _, c := range el.Classes {
		b.WriteByte('.')
		b.WriteString(c)
	}
	if el.Value != nil {
		b.WriteByte('{')
		b.WriteString(escapeText(*el.Value))
		b.WriteByte('}')
	}
	if el.Repeat != nil {
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(el.Repeat.Count))
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(el.Repeat.Index))
	}
	if el.SelfClosing {
		b.WriteByte('/')
	}

	if t.FirstChild(id) != None {
		b.WriteByte('>')
		t.formatChildren(b, id, true)
	}
}

func (t *Tree) formatChildren(b *strings.Builder, id NodeID, group bool) {
	children := t.Children(id)
	group = group && len(children) > 1
	if group {
		b.WriteByte('(')
	}
	for i, c := range children {
		if i > 0 {
			b.WriteByte('+')
		}
		t.format(b, c)
	}
	if group {
		b.WriteByte(')')
	}
}

var (
	quotedEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	textEscaper   = strings.NewReplacer(`\`, `\\`, `}`, `\}`)
)

func escapeQuoted(s string) string {
	return quotedEscaper.Replace(s)
}

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
