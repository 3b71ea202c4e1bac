package properties

import (
	"github.com/penwyp/go-winscope/internal/core/model"
)

// Node is one property or property group. A Terminal node carries the
// value of its parent leaf and has no key of its own.
type Node struct {
	Key      string         `json:"key,omitempty"`
	Terminal bool           `json:"terminal,omitempty"`
	Value    *Value         `json:"value,omitempty"`
	OldValue *Value         `json:"oldValue,omitempty"`
	Diff     model.DiffType `json:"diffType"`
	Children []*Node        `json:"children,omitempty"`
}

// DisplayText is the text shown for the node: the value for Terminal
// nodes, the key otherwise
func (n *Node) DisplayText() string {
	if n.Terminal {
		if n.Value == nil {
			return ""
		}
		return n.Value.String()
	}
	return n.Key
}

// IsLeaf reports whether the node holds a value rather than a group
func (n *Node) IsLeaf() bool {
	return !n.Terminal && n.Value != nil
}

// Child returns the non-Terminal child with the given key
func (n *Node) Child(key string) (*Node, bool) {
	for _, c := range n.Children {
		if !c.Terminal && c.Key == key {
			return c, true
		}
	}
	return nil, false
}

// NonTerminalChildren returns the children that are properties or groups
func (n *Node) NonTerminalChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.Terminal {
			out = append(out, c)
		}
	}
	return out
}

// Clone deep-copies the subtree
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return &out
}

func (n *Node) setDiff(diff model.DiffType) {
	n.Diff = diff
	for _, c := range n.Children {
		c.setDiff(diff)
	}
}
