package properties

import (
	"github.com/penwyp/go-winscope/internal/core/model"
)

// Diff classifies current's leaves against previous, the same node's
// properties in the reference entry. Leaves with equal values are
// unchanged, leaves only in current are added, leaves only in previous are
// grafted back as deleted, and leaves with different values are modified
// and carry the old value. Groups are classified only when wholly added or
// deleted. Without a reference every node is unchanged.
func Diff(current, previous *Node, ref model.ReferenceState) *Node {
	if current == nil {
		return nil
	}
	out := current.Clone()
	if ref == model.NoReference || previous == nil {
		out.setDiff(model.DiffNone)
		return out
	}
	diffNode(out, previous)
	return out
}

func diffNode(cur, prev *Node) {
	if cur.IsLeaf() || prev.IsLeaf() {
		diffLeaf(cur, prev)
		return
	}

	cur.Diff = model.DiffNone
	for _, c := range cur.Children {
		if c.Terminal {
			continue
		}
		if p, ok := prev.Child(c.Key); ok {
			diffNode(c, p)
		} else {
			c.setDiff(model.DiffAdded)
		}
	}
	for _, p := range prev.Children {
		if p.Terminal {
			continue
		}
		if _, ok := cur.Child(p.Key); !ok {
			ghost := p.Clone()
			ghost.setDiff(model.DiffDeleted)
			cur.Children = append(cur.Children, ghost)
		}
	}
}

// diffLeaf handles a key that is a leaf on at least one side. A key that
// turned from group to leaf or back is modified.
func diffLeaf(cur, prev *Node) {
	if cur.IsLeaf() && prev.IsLeaf() && cur.Value.Equal(*prev.Value) {
		cur.setDiff(model.DiffNone)
		return
	}

	cur.setDiff(model.DiffModified)
	if prev.IsLeaf() {
		old := *prev.Value
		cur.OldValue = &old
		for _, c := range cur.Children {
			if c.Terminal {
				c.OldValue = &old
			}
		}
	}
}
