package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/presentation/layout"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
)

// Output names accepted by NewFormatter
const (
	OutputTree  = "tree"
	OutputTable = "table"
	OutputJSON  = "json"
)

// Frame is everything rendered for one timeline position
type Frame struct {
	Timestamp model.Timestamp
	Index     int
	Total     int
	Views     []viewer.UiData
}

// Formatter renders a frame
type Formatter interface {
	Format(w io.Writer, frame Frame) error
}

// NewFormatter returns the formatter registered under output
func NewFormatter(output string, sizer *layout.Sizer) (Formatter, error) {
	if sizer == nil {
		sizer = layout.NewSizer(layout.DefaultWidth)
	}
	switch output {
	case OutputTree, "":
		return NewTreeFormatter(sizer), nil
	case OutputTable:
		return NewTableFormatter(sizer), nil
	case OutputJSON:
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", output)
	}
}

func frameTitle(frame Frame) string {
	title := FormatTimestamp(frame.Timestamp)
	if frame.Total > 0 {
		title = fmt.Sprintf("[%d/%d] %s", frame.Index+1, frame.Total, title)
	}
	return title
}
