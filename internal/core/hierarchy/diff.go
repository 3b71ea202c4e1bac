package hierarchy

import (
	"sort"
	"strconv"
	"strings"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
)

// Fingerprint summarizes a node's own attributes, excluding children.
// Properties listed in volatileProperties are left out.
func Fingerprint(n *Node) string {
	chips := make([]string, len(n.Chips))
	for i, c := range n.Chips {
		chips[i] = c.Short
	}
	sort.Strings(chips)
	return util.Fingerprint(
		n.Name,
		n.Kind,
		strconv.FormatBool(n.IsVisible),
		strconv.FormatInt(n.DisplayID, 10),
		strings.Join(chips, ","),
		util.FingerprintValue(stableProperties(n.Properties)),
	)
}

// volatileProperties change on every entry without describing the node
var volatileProperties = map[string]bool{
	"vsyncId": true,
}

func stableProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if !volatileProperties[k] {
			out[k] = v
		}
	}
	return out
}

// Diff classifies every node of current against previous by stable id.
// Nodes only in previous are grafted back as deleted under their old
// parent, or under the root when that parent is gone too. A node whose
// parent changed is marked as moved and a deleted-move copy is grafted
// under its old parent. Without a previous tree every node is unchanged.
func Diff(current, previous *Tree) *Tree {
	if current == nil || current.Root == nil {
		return current
	}
	out := current.Clone()
	if previous == nil || previous.Root == nil {
		out.Root.Walk(func(n *Node, _ int) bool {
			n.Diff = model.DiffNone
			return true
		})
		return NewTree(out.Root)
	}

	type graft struct {
		parentID string
		node     *Node
	}
	var grafts []graft

	classify := func(n *Node, parentID string) {
		prev, ok := previous.Find(n.StableID)
		if !ok {
			n.Diff = model.DiffAdded
			return
		}
		if n != out.Root {
			if prevParent, _ := previous.ParentOf(n.StableID); prevParent != parentID {
				n.Diff = model.DiffAddedMove
				ghost := prev.shallowCopy()
				ghost.Diff = model.DiffDeletedMove
				grafts = append(grafts, graft{parentID: prevParent, node: ghost})
				return
			}
		}
		if Fingerprint(n) != Fingerprint(prev) {
			n.Diff = model.DiffModified
		} else {
			n.Diff = model.DiffNone
		}
	}

	classify(out.Root, "")
	var visit func(parent *Node)
	visit = func(parent *Node) {
		for _, child := range parent.Children {
			classify(child, parent.StableID)
			visit(child)
		}
	}
	visit(out.Root)

	// deleted nodes in pre-order, so a deleted parent's ghost exists
	// before its children look for it
	live := NewTree(out.Root)
	ghosts := make(map[string]*Node)
	previous.Root.Walk(func(n *Node, _ int) bool {
		if n == previous.Root || live.Contains(n.StableID) {
			return true
		}
		ghost := n.shallowCopy()
		ghost.Diff = model.DiffDeleted
		ghosts[n.StableID] = ghost
		parentID, _ := previous.ParentOf(n.StableID)
		grafts = append(grafts, graft{parentID: parentID, node: ghost})
		return true
	})

	for _, g := range grafts {
		parent, ok := live.Find(g.parentID)
		if !ok {
			parent, ok = ghosts[g.parentID]
		}
		if !ok {
			parent = out.Root
		}
		parent.Children = append(parent.Children, g.node)
	}

	return NewTree(out.Root)
}
