package properties

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-winscope/internal/core/model"
)

// Build creates the properties tree for a node's property bag. Objects and
// lists become groups, list items are keyed by index, and every other
// value becomes a leaf holding one Terminal child.
func Build(name string, bag map[string]any) *Node {
	root := &Node{Key: name, Diff: model.DiffNone}
	if len(bag) == 0 {
		return root
	}
	value := objectValue(bag)
	for _, k := range value.Keys {
		root.Children = append(root.Children, buildNode(k, value.Fields[k]))
	}
	return root
}

func buildNode(key string, v Value) *Node {
	if !v.IsComposite() {
		value := v
		return &Node{
			Key:      key,
			Value:    &value,
			Diff:     model.DiffNone,
			Children: []*Node{{Terminal: true, Value: &value, Diff: model.DiffNone}},
		}
	}

	group := &Node{Key: key, Diff: model.DiffNone}
	if v.Kind == KindList {
		for i, item := range v.Items {
			group.Children = append(group.Children, buildNode(fmt.Sprintf("[%d]", i), item))
		}
		return group
	}
	for _, k := range v.Keys {
		group.Children = append(group.Children, buildNode(k, v.Fields[k]))
	}
	return group
}

// HideDefaults drops unchanged leaves whose value is the default for their
// key or kind, and groups left empty by that. The root is kept.
func HideDefaults(root *Node, table DefaultTable) *Node {
	if root == nil {
		return nil
	}
	out := &Node{Key: root.Key, Value: root.Value, OldValue: root.OldValue, Diff: root.Diff}
	for _, c := range root.Children {
		if kept := hideDefaults(c, table); kept != nil {
			out.Children = append(out.Children, kept)
		}
	}
	return out
}

func hideDefaults(n *Node, table DefaultTable) *Node {
	if n.Terminal {
		return n.Clone()
	}
	if n.IsLeaf() {
		if n.Diff == model.DiffNone && table.IsDefault(n.Key, *n.Value) {
			return nil
		}
		return n.Clone()
	}
	out := &Node{Key: n.Key, Diff: n.Diff}
	for _, c := range n.Children {
		if kept := hideDefaults(c, table); kept != nil {
			out.Children = append(out.Children, kept)
		}
	}
	if len(out.Children) == 0 {
		return nil
	}
	return out
}

// Filter keeps nodes whose display text contains query, ignoring case,
// and every ancestor of such a node. A kept leaf keeps its Terminal
// children. The root is always kept.
func Filter(root *Node, query string) *Node {
	if root == nil {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return root.Clone()
	}
	needle := strings.ToLower(query)

	out := &Node{Key: root.Key, Value: root.Value, OldValue: root.OldValue, Diff: root.Diff}
	for _, c := range root.Children {
		if kept := filterNode(c, needle); kept != nil {
			out.Children = append(out.Children, kept)
		}
	}
	return out
}

func filterNode(n *Node, needle string) *Node {
	matches := func(node *Node) bool {
		return strings.Contains(strings.ToLower(node.DisplayText()), needle)
	}

	if n.Terminal {
		if matches(n) {
			return n.Clone()
		}
		return nil
	}
	if n.IsLeaf() {
		if matches(n) {
			return n.Clone()
		}
		for _, c := range n.Children {
			if c.Terminal && matches(c) {
				return n.Clone()
			}
		}
		return nil
	}

	var children []*Node
	for _, c := range n.Children {
		if kept := filterNode(c, needle); kept != nil {
			children = append(children, kept)
		}
	}
	if len(children) == 0 {
		if matches(n) {
			return n.Clone()
		}
		return nil
	}
	out := &Node{Key: n.Key, Diff: n.Diff, Children: children}
	return out
}
