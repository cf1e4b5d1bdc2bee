package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vango-dev/abbrev/pkg/abbr"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  abbr.Element
		src  abbr.Element
		want abbr.Element
	}{
		{
			name: "target name wins",
			dst:  abbr.Element{Name: "a"},
			src:  abbr.Element{Name: "link"},
			want: abbr.Element{Name: "a"},
		},
		{
			name: "self closing is or-ed",
			dst:  abbr.Element{Name: "img"},
			src:  abbr.Element{Name: "x", SelfClosing: true},
			want: abbr.Element{Name: "img", SelfClosing: true},
		},
		{
			name: "self closing kept from target",
			dst:  abbr.Element{Name: "img", SelfClosing: true},
			src:  abbr.Element{Name: "x"},
			want: abbr.Element{Name: "img", SelfClosing: true},
		},
		{
			name: "authored value overwrites",
			dst:  abbr.Element{Name: "title", Value: abbr.Str("Document")},
			src:  abbr.Element{Name: "t", Value: abbr.Str("Home")},
			want: abbr.Element{Name: "title", Value: abbr.Str("Home")},
		},
		{
			name: "nil value keeps template value",
			dst:  abbr.Element{Name: "title", Value: abbr.Str("Document")},
			src:  abbr.Element{Name: "t"},
			want: abbr.Element{Name: "title", Value: abbr.Str("Document")},
		},
		{
			name: "repeat replaced",
			dst:  abbr.Element{Name: "li", Repeat: &abbr.Repeat{Count: 5, Index: 0}},
			src:  abbr.Element{Name: "x", Repeat: &abbr.Repeat{Count: 2, Index: 1}},
			want: abbr.Element{Name: "li", Repeat: &abbr.Repeat{Count: 2, Index: 1}},
		},
		{
			name: "classes union keeps template order",
			dst:  abbr.Element{Name: "div", Classes: []string{"a", "b"}},
			src:  abbr.Element{Name: "x", Classes: []string{"c", "a", "d"}},
			want: abbr.Element{Name: "div", Classes: []string{"a", "b", "c", "d"}},
		},
		{
			name: "class attribute joins class list",
			dst:  abbr.Element{Name: "div", Classes: []string{"a"}},
			src: abbr.Element{Name: "x", Attributes: []abbr.Attribute{
				{Name: "class", Value: abbr.Str("b a")},
			}},
			want: abbr.Element{Name: "div", Classes: []string{"a", "b"}, Attributes: []abbr.Attribute{}},
		},
		{
			name: "attribute order is template then authored",
			dst: abbr.Element{Name: "a", Attributes: []abbr.Attribute{
				{Name: "href", Value: abbr.Str("#")},
				{Name: "title"},
			}},
			src: abbr.Element{Name: "x", Attributes: []abbr.Attribute{
				{Name: "target", Value: abbr.Str("_blank")},
				{Name: "title", Value: abbr.Str("Go")},
				{Name: "rel"},
			}},
			want: abbr.Element{Name: "a", Attributes: []abbr.Attribute{
				{Name: "href", Value: abbr.Str("#")},
				{Name: "title", Value: abbr.Str("Go")},
				{Name: "target", Value: abbr.Str("_blank")},
				{Name: "rel"},
			}},
		},
		{
			name: "nil authored value keeps template default",
			dst: abbr.Element{Name: "meta", Attributes: []abbr.Attribute{
				{Name: "charset", Value: abbr.Str("UTF-8")},
			}},
			src: abbr.Element{Name: "x", Attributes: []abbr.Attribute{
				{Name: "charset"},
			}},
			want: abbr.Element{Name: "meta", Attributes: []abbr.Attribute{
				{Name: "charset", Value: abbr.Str("UTF-8")},
			}},
		},
		{
			name: "referenced implied attribute is promoted",
			dst: abbr.Element{Name: "script", Attributes: []abbr.Attribute{
				{Name: "src", Implied: true},
				{Name: "defer", Implied: true},
			}},
			src: abbr.Element{Name: "x", Attributes: []abbr.Attribute{
				{Name: "src"},
			}},
			want: abbr.Element{Name: "script", Attributes: []abbr.Attribute{
				{Name: "src"},
				{Name: "defer", Implied: true},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := tt.dst.Clone()
			src := tt.src.Clone()
			merge(&dst, &src)
			assert.Equal(t, tt.want, dst)
		})
	}
}

func TestMergeDoesNotAlias(t *testing.T) {
	dst := abbr.Element{Name: "a"}
	src := abbr.Element{
		Name:       "x",
		Value:      abbr.Str("v"),
		Repeat:     &abbr.Repeat{Count: 2, Index: 1},
		Attributes: []abbr.Attribute{{Name: "href", Value: abbr.Str("/")}},
	}
	merge(&dst, &src)

	*src.Value = "changed"
	src.Repeat.Index = 0
	*src.Attributes[0].Value = "/changed"

	assert.Equal(t, "v", *dst.Value)
	assert.Equal(t, 1, dst.Repeat.Index)
	assert.Equal(t, "/", *dst.Attr("href").Value)
}

func TestDeepest(t *testing.T) {
	tests := []struct {
		name  string
		nodes []abbr.Node
		want  string
	}{
		{
			name:  "single node",
			nodes: []abbr.Node{n(e("a"))},
			want:  "a",
		},
		{
			name: "document",
			nodes: []abbr.Node{n(e("html"),
				n(e("head"), n(e("meta")), n(e("title"))),
				n(e("body")),
			)},
			want: "body",
		},
		{
			name:  "last top-level node",
			nodes: []abbr.Node{n(e("dt"), n(e("span"))), n(e("dd"), n(e("em")))},
			want:  "em",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := abbr.Build(tt.nodes...)
			assert.Equal(t, tt.want, tree.Element(deepest(tree, tree.Root())).Name)
		})
	}

	empty := abbr.New()
	assert.Equal(t, empty.Root(), deepest(empty, empty.Root()))
}
