package hierarchy

import (
	"github.com/penwyp/go-winscope/internal/core/model"
)

// Node is one structural element of a payload. A node owns its children;
// parent lookups go through the owning Tree's index.
type Node struct {
	ID         string         `json:"id"`
	StableID   string         `json:"stableId"`
	Name       string         `json:"name"`
	ShortName  string         `json:"shortName,omitempty"`
	Kind       string         `json:"kind"`
	IsVisible  bool           `json:"isVisible"`
	Chips      []model.Chip   `json:"chips,omitempty"`
	DisplayID  int64          `json:"displayId"`
	Diff       model.DiffType `json:"diffType"`
	Properties map[string]any `json:"-"`
	Children   []*Node        `json:"children,omitempty"`
}

// DisplayName returns the short name when set
func (n *Node) DisplayName() string {
	if n.ShortName != "" {
		return n.ShortName
	}
	return n.Name
}

// HasChip reports whether the node carries a chip with the same short label
func (n *Node) HasChip(chip model.Chip) bool {
	for _, c := range n.Chips {
		if c.Short == chip.Short {
			return true
		}
	}
	return false
}

// AddChip attaches a chip once
func (n *Node) AddChip(chip model.Chip) {
	if !n.HasChip(chip) {
		n.Chips = append(n.Chips, chip)
	}
}

// shallowCopy copies the node's own attributes without children. Properties
// are shared since they are never mutated after build.
func (n *Node) shallowCopy() *Node {
	out := *n
	out.Children = nil
	if n.Chips != nil {
		out.Chips = append([]model.Chip(nil), n.Chips...)
	}
	return &out
}

// Clone deep-copies the node and its subtree
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := n.shallowCopy()
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}
