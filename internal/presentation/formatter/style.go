package formatter

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/go-winscope/internal/core/model"
)

// palette colors diff classes. The renderer is bound to the output writer so
// that plain files and pipes receive uncolored text.
type palette struct {
	added    lipgloss.Style
	deleted  lipgloss.Style
	moved    lipgloss.Style
	modified lipgloss.Style
	chip     lipgloss.Style
	title    lipgloss.Style
	plain    lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		added:    r.NewStyle().Foreground(lipgloss.Color("#4caf50")),
		deleted:  r.NewStyle().Foreground(lipgloss.Color("#e53935")),
		moved:    r.NewStyle().Foreground(lipgloss.Color("#8e24aa")),
		modified: r.NewStyle().Foreground(lipgloss.Color("#1e88e5")),
		chip:     r.NewStyle().Foreground(lipgloss.Color("#fb8c00")),
		title:    r.NewStyle().Foreground(lipgloss.Color("#00acc1")),
		plain:    r.NewStyle(),
	}
}

func (p palette) diff(d model.DiffType) lipgloss.Style {
	switch d {
	case model.DiffAdded:
		return p.added
	case model.DiffDeleted:
		return p.deleted
	case model.DiffAddedMove, model.DiffDeletedMove:
		return p.moved
	case model.DiffModified:
		return p.modified
	default:
		return p.plain
	}
}

func diffSuffix(d model.DiffType) string {
	if d == "" || d == model.DiffNone {
		return ""
	}
	return " (" + string(d) + ")"
}
