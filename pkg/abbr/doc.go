// Package abbr provides the abbreviation tree that snippet resolution
// rewrites.
//
// A Tree is an arena of nodes addressed by stable NodeID handles. Every
// slot stores its Element payload together with parent, first-child,
// last-child and sibling handles, so splicing is a matter of rewriting
// handles. Removing a node from the tree is an explicit Detach; the slot
// stays in the arena and its handle stays valid.
//
// # Building Trees
//
// Trees are usually produced by a ParseFunc. For literals and tests, Build
// assembles a tree from nested Node values:
//
//	t := abbr.Build(
//	    abbr.Node{Element: abbr.Element{Name: "ul"}, Children: []abbr.Node{
//	        {Element: abbr.Element{Name: "li", Classes: []string{"item"}}},
//	    }},
//	)
//	fmt.Println(t) // ul>li.item
//
// # Walking
//
// Walk visits descendants in pre-order. The next sibling is captured
// before the callback runs, which lets a callback replace the node it was
// given without the walk revisiting the replacement.
package abbr
