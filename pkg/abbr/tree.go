package abbr

import "fmt"

// NodeID is a stable handle to a node slot in a Tree.
type NodeID int32

// None is the absent handle.
const None NodeID = -1

// ParseFunc turns a template string into a detached tree whose root's
// children are the top-level nodes.
type ParseFunc func(template string) (*Tree, error)

type slot struct {
	Element

	parent NodeID
	first  NodeID
	last   NodeID
	prev   NodeID
	next   NodeID
}

// Tree is an arena of element nodes under a nameless root.
//
// A Tree is not safe for concurrent mutation.
type Tree struct {
	slots []*slot
}

// New returns a tree holding only its root.
func New() *Tree {
	t := &Tree{}
	t.alloc(Element{})
	return t
}

func (t *Tree) alloc(el Element) NodeID {
	id := NodeID(len(t.slots))
	t.slots = append(t.slots, &slot{
		Element: el,
		parent:  None,
		first:   None,
		last:    None,
		prev:    None,
		next:    None,
	})
	return id
}

func (t *Tree) slot(id NodeID) *slot {
	if !t.Valid(id) {
		panic(fmt.Sprintf("abbr: invalid node id %d", id))
	}
	return t.slots[id]
}

// Root returns the handle of the root container.
func (t *Tree) Root() NodeID {
	return 0
}

// Valid reports whether id addresses a slot of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.slots)
}

// Len returns the number of nodes reachable from the root, root excluded.
func (t *Tree) Len() int {
	n := 0
	_ = t.Walk(t.Root(), func(NodeID, int) error {
		n++
		return nil
	})
	return n
}

// Element returns the payload of id. The pointer stays valid for the life
// of the tree.
func (t *Tree) Element(id NodeID) *Element {
	return &t.slot(id).Element
}

// Parent returns the parent of id, or None.
func (t *Tree) Parent(id NodeID) NodeID { return t.slot(id).parent }

// FirstChild returns the first child of id, or None.
func (t *Tree) FirstChild(id NodeID) NodeID { return t.slot(id).first }

// LastChild returns the last child of id, or None.
func (t *Tree) LastChild(id NodeID) NodeID { return t.slot(id).last }

// NextSibling returns the next sibling of id, or None.
func (t *Tree) NextSibling(id NodeID) NodeID { return t.slot(id).next }

// PrevSibling returns the previous sibling of id, or None.
func (t *Tree) PrevSibling(id NodeID) NodeID { return t.slot(id).prev }

// Children returns the children of id in order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.slot(id).first; c != None; c = t.slots[c].next {
		out = append(out, c)
	}
	return out
}

// Attached reports whether id is the root or reachable from it.
func (t *Tree) Attached(id NodeID) bool {
	if !t.Valid(id) {
		return false
	}
	for id != None {
		if id == t.Root() {
			return true
		}
		id = t.slots[id].parent
	}
	return false
}

// contains reports whether ancestor is id or one of its ancestors.
func (t *Tree) contains(ancestor, id NodeID) bool {
	for id != None {
		if id == ancestor {
			return true
		}
		id = t.slots[id].parent
	}
	return false
}

// Append creates a node holding el as the last child of parent.
func (t *Tree) Append(parent NodeID, el Element) NodeID {
	t.slot(parent)
	id := t.alloc(el)
	t.AppendChild(parent, id)
	return id
}

// AppendChild moves child to the end of parent's children. A child that
// is attached elsewhere is detached first.
func (t *Tree) AppendChild(parent, child NodeID) {
	p := t.slot(parent)
	c := t.slot(child)
	if child == t.Root() || t.contains(child, parent) {
		panic("abbr: cannot insert a node into its own subtree")
	}
	t.Detach(child)

	c.parent = parent
	c.prev = p.last
	if p.last != None {
		t.slots[p.last].next = child
	} else {
		p.first = child
	}
	p.last = child
}

// InsertBefore moves child into ref's parent, immediately before ref.
func (t *Tree) InsertBefore(ref, child NodeID) {
	r := t.slot(ref)
	c := t.slot(child)
	if r.parent == None {
		panic("abbr: insert before a node without parent")
	}
	if child == ref {
		return
	}
	if child == t.Root() || t.contains(child, r.parent) {
		panic("abbr: cannot insert a node into its own subtree")
	}
	t.Detach(child)

	parent := t.slots[r.parent]
	c.parent = r.parent
	c.next = ref
	c.prev = r.prev
	if r.prev != None {
		t.slots[r.prev].next = child
	} else {
		parent.first = child
	}
	r.prev = child
}

// Detach unlinks id from its parent and siblings. The node keeps its own
// children. Detaching a detached node is a no-op.
func (t *Tree) Detach(id NodeID) {
	s := t.slot(id)
	if s.parent == None {
		return
	}
	parent := t.slots[s.parent]
	if s.prev != None {
		t.slots[s.prev].next = s.next
	} else {
		parent.first = s.next
	}
	if s.next != None {
		t.slots[s.next].prev = s.prev
	} else {
		parent.last = s.prev
	}
	s.parent, s.prev, s.next = None, None, None
}

// MoveChildren appends every child of from under to, keeping their order.
func (t *Tree) MoveChildren(from, to NodeID) {
	for c := t.FirstChild(from); c != None; c = t.FirstChild(from) {
		t.AppendChild(to, c)
	}
}

// Graft copies the top-level nodes of src, with their subtrees, into t
// immediately before ref, in order. It returns the mapping from src
// handles to the handles of the copies. src is not modified.
func (t *Tree) Graft(src *Tree, ref NodeID) map[NodeID]NodeID {
	remap := make(map[NodeID]NodeID)
	for _, top := range src.Children(src.Root()) {
		id := t.copyFrom(src, top, remap)
		t.InsertBefore(ref, id)
	}
	return remap
}

func (t *Tree) copyFrom(src *Tree, id NodeID, remap map[NodeID]NodeID) NodeID {
	dst := t.alloc(src.Element(id).Clone())
	remap[id] = dst
	for _, c := range src.Children(id) {
		t.AppendChild(dst, t.copyFrom(src, c, remap))
	}
	return dst
}

// Walk calls fn for every descendant of id in pre-order, with the depth
// relative to id (children of id are depth 0). A node that is still
// under the same parent once fn returns has its children walked and the
// walk continues at its current next sibling. A node that fn removed
// continues at the sibling that followed it before fn ran, so nodes
// inserted in its place are not revisited; if that sibling was removed
// as well, the walk of this level ends. A non-nil error stops the walk.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) error) error {
	return t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) error) error {
	for c := t.FirstChild(id); c != None; {
		next := t.slots[c].next
		if err := fn(c, depth); err != nil {
			return err
		}
		if t.slots[c].parent == id {
			if err := t.walk(c, depth+1, fn); err != nil {
				return err
			}
			next = t.slots[c].next
		} else if next != None && t.slots[next].parent != id {
			next = None
		}
		c = next
	}
	return nil
}
