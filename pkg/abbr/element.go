package abbr

import "strings"

// Str returns a pointer to s. Handy for Element.Value and Attribute.Value.
func Str(s string) *string {
	return &s
}

// Attribute is a single named attribute of an element.
type Attribute struct {
	// Name is unique within an element.
	Name string

	// Value is the explicit value. Nil means the attribute was named
	// without a value and renders as empty.
	Value *string

	// Implied marks a template placeholder that is only rendered once an
	// authored abbreviation references the same name.
	Implied bool
}

// String returns the attribute in bracket notation: name, name="v" or !name.
func (a Attribute) String() string {
	var b strings.Builder
	if a.Implied {
		b.WriteByte('!')
	}
	b.WriteString(a.Name)
	if a.Value != nil {
		b.WriteString(`="`)
		b.WriteString(escapeQuoted(*a.Value))
		b.WriteByte('"')
	}
	return b.String()
}

// Repeat records the position of a node within a repeated group.
type Repeat struct {
	Count int
	Index int
}

// Element is the payload of a tree node.
type Element struct {
	// Name is the tag name and the registry lookup key.
	Name string

	// Attributes are ordered; names are unique. The class attribute is
	// kept in Classes instead.
	Attributes []Attribute

	// Classes is an ordered set of class names.
	Classes []string

	// Value is optional text content.
	Value *string

	SelfClosing bool

	// Repeat is copied through resolution, never computed.
	Repeat *Repeat
}

// Attr returns the attribute with the given name, or nil.
func (e *Element) Attr(name string) *Attribute {
	for i := range e.Attributes {
		if e.Attributes[i].Name == name {
			return &e.Attributes[i]
		}
	}
	return nil
}

// SetAttr replaces the attribute with the same name, or appends it.
// Setting "class" adds its words to Classes.
func (e *Element) SetAttr(a Attribute) {
	if a.Name == "class" {
		if a.Value != nil {
			e.AddClass(strings.Fields(*a.Value)...)
		}
		return
	}
	if existing := e.Attr(a.Name); existing != nil {
		*existing = a
		return
	}
	e.Attributes = append(e.Attributes, a)
}

// RemoveAttr removes the attribute with the given name and reports
// whether it was present.
func (e *Element) RemoveAttr(name string) bool {
	for i := range e.Attributes {
		if e.Attributes[i].Name == name {
			e.Attributes = append(e.Attributes[:i], e.Attributes[i+1:]...)
			return true
		}
	}
	return false
}

// HasClass reports whether name is in the class list.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends class names that are not already present.
func (e *Element) AddClass(names ...string) {
	for _, name := range names {
		if name == "" || e.HasClass(name) {
			continue
		}
		e.Classes = append(e.Classes, name)
	}
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	if e.Attributes != nil {
		out.Attributes = make([]Attribute, len(e.Attributes))
		for i, a := range e.Attributes {
			if a.Value != nil {
				a.Value = Str(*a.Value)
			}
			out.Attributes[i] = a
		}
	}
	if e.Classes != nil {
		out.Classes = append([]string(nil), e.Classes...)
	}
	if e.Value != nil {
		out.Value = Str(*e.Value)
	}
	if e.Repeat != nil {
		r := *e.Repeat
		out.Repeat = &r
	}
	return out
}

// IsVoid reports whether the element name is an HTML void element.
func (e *Element) IsVoid() bool {
	return voidElements[strings.ToLower(e.Name)]
}

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}
