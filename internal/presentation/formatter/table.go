package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-winscope/internal/core/hierarchy"
	"github.com/penwyp/go-winscope/internal/presentation/layout"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
)

// TableFormatter lists every node of each presenter's tree as a table row,
// indenting names by depth
type TableFormatter struct {
	sizer   *layout.Sizer
	headers []string
}

func NewTableFormatter(sizer *layout.Sizer) *TableFormatter {
	return &TableFormatter{
		sizer:   sizer,
		headers: []string{"Node", "Kind", "Visible", "Chips", "Diff"},
	}
}

func (f *TableFormatter) Format(w io.Writer, frame Frame) error {
	var b strings.Builder
	b.WriteString(f.sizer.Fit(frameTitle(frame)))
	b.WriteByte('\n')

	for _, view := range frame.Views {
		b.WriteByte('\n')
		b.WriteString(view.TraceType.String())
		b.WriteByte('\n')
		if !view.HasTree() {
			b.WriteString("(no entry)\n")
			continue
		}

		rows := f.rows(view)
		widths := f.calculateColumnWidths(rows)
		f.writeBorder(&b, widths, "top")
		f.writeRow(&b, f.headers, widths)
		f.writeBorder(&b, widths, "middle")
		for _, row := range rows {
			f.writeRow(&b, row, widths)
		}
		f.writeBorder(&b, widths, "bottom")
		fmt.Fprintf(&b, "%d nodes\n", view.Tree.Count())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) rows(view viewer.UiData) [][]string {
	var rows [][]string
	for _, child := range view.Tree.Root.Children {
		child.Walk(func(n *hierarchy.Node, depth int) bool {
			visible := ""
			if n.IsVisible {
				visible = "yes"
			}
			chips := ""
			if len(n.Chips) > 0 {
				chips = chipText(n)
			}
			diff := ""
			if n.Diff != "" {
				diff = string(n.Diff)
			}
			rows = append(rows, []string{
				strings.Repeat("  ", depth) + n.DisplayName(),
				n.Kind,
				visible,
				chips,
				diff,
			})
			return true
		})
	}
	return rows
}

// calculateColumnWidths sizes each column to its widest cell. The name
// column shrinks when the table would overflow the terminal.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = f.sizer.DisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := f.sizer.DisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 1
	for _, w := range widths {
		total += w + 3
	}
	if over := total - f.sizer.Width; over > 0 && widths[0]-over >= len(f.headers[0]) {
		widths[0] -= over
	}
	return widths
}

func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteByte('\n')
}

func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		if f.sizer.DisplayWidth(value) > widths[i] {
			value = truncateTo(value, widths[i])
		}
		b.WriteString(" ")
		b.WriteString(f.sizer.PadString(value, widths[i], true))
		b.WriteString(" │")
	}
	b.WriteByte('\n')
}

func truncateTo(value string, width int) string {
	return layout.Sizer{Width: width}.Fit(value)
}
