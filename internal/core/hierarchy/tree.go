package hierarchy

// Tree is a built hierarchy with a derived parent index. The index maps a
// stable id to its parent's stable id and is rebuilt for every tree.
type Tree struct {
	Root    *Node
	parents map[string]string
	nodes   map[string]*Node
}

// NewTree indexes root. Ghost nodes (deleted ones grafted back for diff
// display) are indexed only when no live node shares their stable id.
func NewTree(root *Node) *Tree {
	t := &Tree{
		Root:    root,
		parents: make(map[string]string),
		nodes:   make(map[string]*Node),
	}
	if root == nil {
		return t
	}
	t.nodes[root.StableID] = root
	t.index(root)
	return t
}

func (t *Tree) index(parent *Node) {
	for _, child := range parent.Children {
		existing, seen := t.nodes[child.StableID]
		if !seen || (existing.Diff.IsGhost() && !child.Diff.IsGhost()) {
			t.nodes[child.StableID] = child
			t.parents[child.StableID] = parent.StableID
		}
		t.index(child)
	}
}

// ParentOf returns the stable id of the node's parent. The root has none.
func (t *Tree) ParentOf(stableID string) (string, bool) {
	parent, ok := t.parents[stableID]
	return parent, ok
}

// Find returns the node with the given stable id
func (t *Tree) Find(stableID string) (*Node, bool) {
	node, ok := t.nodes[stableID]
	return node, ok
}

// Contains reports whether a node with the stable id is in the tree
func (t *Tree) Contains(stableID string) bool {
	_, ok := t.nodes[stableID]
	return ok
}

// Count returns the number of nodes below the root
func (t *Tree) Count() int {
	if t == nil || t.Root == nil {
		return 0
	}
	count := -1
	t.Root.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Clone deep-copies the tree
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	return NewTree(t.Root.Clone())
}
