package layout

import (
	"os"
	"strings"

	"github.com/penwyp/go-winscope/internal/util"
	"golang.org/x/term"
)

const (
	// DefaultWidth is used when the output is not a terminal
	DefaultWidth = 100
	minWidth     = 40
	maxWidth     = 200
)

// Sizer measures and pads text by terminal display width
type Sizer struct {
	Width int
}

// NewSizer returns a sizer for a fixed width. Widths below the minimum are
// raised to it.
func NewSizer(width int) *Sizer {
	if width < minWidth {
		width = minWidth
	}
	return &Sizer{Width: width}
}

// NewTerminalSizer sizes to the terminal attached to stdout
func NewTerminalSizer() *Sizer {
	return NewSizer(TerminalWidth(os.Stdout))
}

// TerminalWidth returns the column count of f, or DefaultWidth when f is not
// a terminal
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	if width > maxWidth {
		width = maxWidth
	}
	util.LogDebugf("terminal width %d", width)
	return width
}

// DisplayWidth calculates the display width of a string containing wide
// unicode characters
func (s Sizer) DisplayWidth(text string) int {
	return util.GetDisplayWidth(text)
}

// PadString pads text to width display columns
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	if leftAlign {
		return util.PadRight(text, width)
	}
	actual := s.DisplayWidth(text)
	if actual >= width {
		return text
	}
	return strings.Repeat(" ", width-actual) + text
}

// Fit truncates text so that it fits the sizer's width
func (s Sizer) Fit(text string) string {
	if s.DisplayWidth(text) <= s.Width {
		return text
	}
	return util.Truncate(text, s.Width)
}
