package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-winscope/internal/core/hierarchy"
	"github.com/penwyp/go-winscope/internal/core/properties"
	"github.com/penwyp/go-winscope/internal/presentation/layout"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	indentMid  = "│   "
	indentLast = "    "
)

// TreeFormatter draws each presenter's hierarchy and selected properties as
// an indented tree
type TreeFormatter struct {
	sizer *layout.Sizer
}

func NewTreeFormatter(sizer *layout.Sizer) *TreeFormatter {
	return &TreeFormatter{sizer: sizer}
}

func (f *TreeFormatter) Format(w io.Writer, frame Frame) error {
	pal := newPalette(w)
	var b strings.Builder

	b.WriteString(pal.title.Render(f.sizer.Fit(frameTitle(frame))))
	b.WriteByte('\n')

	for _, view := range frame.Views {
		b.WriteByte('\n')
		b.WriteString(pal.title.Render(fmt.Sprintf("== %s ==", view.TraceType)))
		b.WriteByte('\n')
		f.writeView(&b, pal, view)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TreeFormatter) writeView(b *strings.Builder, pal palette, view viewer.UiData) {
	if !view.HasTree() {
		b.WriteString("(no entry)\n")
		return
	}

	pinned := make(map[string]bool, len(view.PinnedItems))
	for _, item := range view.PinnedItems {
		pinned[item.StableID] = true
	}
	highlighted := make(map[string]bool, len(view.HighlightedItems))
	for _, id := range view.HighlightedItems {
		highlighted[id] = true
	}

	root := view.Tree.Root
	b.WriteString(f.sizer.Fit(root.DisplayName()))
	b.WriteByte('\n')
	for i, child := range root.Children {
		f.writeNode(b, pal, child, "", i == len(root.Children)-1, pinned, highlighted)
	}

	if len(view.PinnedItems) > 0 {
		names := make([]string, len(view.PinnedItems))
		for i, item := range view.PinnedItems {
			names[i] = item.Name
		}
		b.WriteString(f.sizer.Fit("Pinned: " + strings.Join(names, ", ")))
		b.WriteByte('\n')
	}

	if view.SelectedTree != nil {
		b.WriteString("\nProperties\n")
		f.writeProperty(b, pal, view.SelectedTree)
	}
}

func (f *TreeFormatter) writeNode(b *strings.Builder, pal palette, n *hierarchy.Node, prefix string, last bool, pinned, highlighted map[string]bool) {
	branch, indent := branchMid, indentMid
	if last {
		branch, indent = branchLast, indentLast
	}

	b.WriteString(prefix)
	b.WriteString(branch)
	b.WriteString(pal.diff(n.Diff).Render(f.sizer.Fit(nodeLabel(n, pinned[n.StableID], highlighted[n.StableID]))))
	if len(n.Chips) > 0 {
		b.WriteString(" ")
		b.WriteString(pal.chip.Render(chipText(n)))
	}
	b.WriteByte('\n')

	for i, child := range n.Children {
		f.writeNode(b, pal, child, prefix+indent, i == len(n.Children)-1, pinned, highlighted)
	}
}

func (f *TreeFormatter) writeProperty(b *strings.Builder, pal palette, root *properties.Node) {
	b.WriteString(f.sizer.Fit(root.Key))
	b.WriteByte('\n')
	f.writePropertyChildren(b, pal, root.NonTerminalChildren(), "")
}

func (f *TreeFormatter) writePropertyChildren(b *strings.Builder, pal palette, children []*properties.Node, prefix string) {
	for i, child := range children {
		branch, indent := branchMid, indentMid
		if i == len(children)-1 {
			branch, indent = branchLast, indentLast
		}
		b.WriteString(prefix)
		b.WriteString(branch)
		b.WriteString(pal.diff(child.Diff).Render(f.sizer.Fit(propertyLabel(child))))
		b.WriteByte('\n')
		if !child.IsLeaf() {
			f.writePropertyChildren(b, pal, child.NonTerminalChildren(), prefix+indent)
		}
	}
}

func nodeLabel(n *hierarchy.Node, pinned, highlighted bool) string {
	var prefix string
	if highlighted {
		prefix += "> "
	}
	if pinned {
		prefix += "* "
	}
	return prefix + n.DisplayName() + diffSuffix(n.Diff)
}

func chipText(n *hierarchy.Node) string {
	shorts := make([]string, len(n.Chips))
	for i, chip := range n.Chips {
		shorts[i] = chip.Short
	}
	return "[" + strings.Join(shorts, " ") + "]"
}

func propertyLabel(n *properties.Node) string {
	if !n.IsLeaf() {
		return n.Key + diffSuffix(n.Diff)
	}
	label := n.Key + ": " + n.Value.String()
	if n.OldValue != nil {
		label += " (was " + n.OldValue.String() + ")"
	}
	return label + diffSuffix(n.Diff)
}
