package hierarchy

import (
	"strings"
	"unicode/utf8"
)

// Flatten re-roots every descendant directly under the root, in pre-order.
// Node attributes and stable ids are preserved.
func Flatten(t *Tree) *Tree {
	if t == nil || t.Root == nil {
		return t
	}
	root := t.Root.shallowCopy()
	for _, child := range t.Root.Children {
		child.Walk(func(n *Node, _ int) bool {
			root.Children = append(root.Children, n.shallowCopy())
			return true
		})
	}
	return NewTree(root)
}

// FilterVisible drops invisible subtrees. An invisible node is kept as a
// pass-through ancestor when it has a visible descendant. The root is
// always kept.
func FilterVisible(t *Tree) *Tree {
	return filter(t, func(n *Node) bool { return n.IsVisible })
}

// FilterText keeps nodes whose name contains query, ignoring case, plus
// every ancestor of such a node. An empty query keeps everything.
func FilterText(t *Tree, query string) *Tree {
	query = strings.TrimSpace(query)
	if query == "" {
		return t.Clone()
	}
	needle := strings.ToLower(query)
	return filter(t, func(n *Node) bool {
		return strings.Contains(strings.ToLower(n.Name), needle)
	})
}

func filter(t *Tree, keep func(*Node) bool) *Tree {
	if t == nil || t.Root == nil {
		return t
	}
	root := t.Root.shallowCopy()
	for _, child := range t.Root.Children {
		if kept := filterNode(child, keep); kept != nil {
			root.Children = append(root.Children, kept)
		}
	}
	return NewTree(root)
}

func filterNode(n *Node, keep func(*Node) bool) *Node {
	var children []*Node
	for _, child := range n.Children {
		if kept := filterNode(child, keep); kept != nil {
			children = append(children, kept)
		}
	}
	if len(children) == 0 && !keep(n) {
		return nil
	}
	out := n.shallowCopy()
	out.Children = children
	return out
}

// maxNameLength is the length above which names get simplified
const maxNameLength = 32

// SimplifyNames sets every node's short name to a compact form of its
// name. Filtering and diffing keep using the full name.
func SimplifyNames(t *Tree) *Tree {
	if t == nil || t.Root == nil {
		return t
	}
	out := t.Clone()
	out.Root.Walk(func(n *Node, _ int) bool {
		n.ShortName = SimplifyName(n.Name)
		return true
	})
	return out
}

// SimplifyName abbreviates the package qualifiers of long names:
// "com.android.systemui.ImageWallpaper#12" becomes "c.a.s.ImageWallpaper#12".
// Short names are returned unchanged.
func SimplifyName(name string) string {
	if utf8.RuneCountInString(name) <= maxNameLength {
		return name
	}
	words := strings.Fields(name)
	for i, word := range words {
		parts := strings.Split(word, "/")
		for j, part := range parts {
			parts[j] = abbreviateQualified(part)
		}
		words[i] = strings.Join(parts, "/")
	}
	return strings.Join(words, " ")
}

func abbreviateQualified(s string) string {
	segments := strings.Split(s, ".")
	if len(segments) < 2 {
		return s
	}
	for i := 0; i < len(segments)-1; i++ {
		r, size := utf8.DecodeRuneInString(segments[i])
		if size > 0 {
			segments[i] = string(r)
		}
	}
	return strings.Join(segments, ".")
}
