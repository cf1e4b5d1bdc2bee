package abbr

// Node is a detached, nested description of an element and its
// descendants. It is the literal form used to build trees and to take
// snapshots of them.
type Node struct {
	Element
	Children []Node
}

// Build returns a tree whose root children are nodes, in order.
func Build(nodes ...Node) *Tree {
	t := New()
	for _, n := range nodes {
		t.AppendNode(t.Root(), n)
	}
	return t
}

// AppendNode appends a copy of n and its children under parent and
// returns the handle of the copy.
func (t *Tree) AppendNode(parent NodeID, n Node) NodeID {
	id := t.Append(parent, n.Element.Clone())
	for _, c := range n.Children {
		t.AppendNode(id, c)
	}
	return id
}

// Snapshot returns a deep copy of id and its subtree as a Node. For the
// root, the returned Node has an empty Element.
func (t *Tree) Snapshot(id NodeID) Node {
	n := Node{Element: t.Element(id).Clone()}
	for _, c := range t.Children(id) {
		n.Children = append(n.Children, t.Snapshot(c))
	}
	return n
}
