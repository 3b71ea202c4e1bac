package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-winscope/internal/core/hierarchy"
	"github.com/penwyp/go-winscope/internal/core/properties"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonFrame struct {
	Timestamp     string     `json:"timestamp"`
	TimestampType string     `json:"timestampType"`
	ValueNs       int64      `json:"valueNs"`
	Views         []jsonView `json:"views"`
}

type jsonView struct {
	TraceType        string           `json:"traceType"`
	Tree             *hierarchy.Node  `json:"tree"`
	NodeCount        int              `json:"nodeCount"`
	SelectedTree     *properties.Node `json:"selectedTree,omitempty"`
	DisplayIDs       []int64          `json:"displayIds"`
	PinnedItems      []viewer.Item    `json:"pinnedItems"`
	HighlightedItems []string         `json:"highlightedItems"`
	Rects            []viewer.Rect    `json:"rects"`
}

func (f *JSONFormatter) Format(w io.Writer, frame Frame) error {
	out := jsonFrame{
		Timestamp:     FormatTimestamp(frame.Timestamp),
		TimestampType: frame.Timestamp.Type.String(),
		ValueNs:       frame.Timestamp.ValueNs,
		Views:         make([]jsonView, 0, len(frame.Views)),
	}
	for _, view := range frame.Views {
		jv := jsonView{
			TraceType:        view.TraceType.String(),
			SelectedTree:     view.SelectedTree,
			DisplayIDs:       view.DisplayIDs,
			PinnedItems:      view.PinnedItems,
			HighlightedItems: view.HighlightedItems,
			Rects:            view.Rects,
		}
		if view.HasTree() {
			jv.Tree = view.Tree.Root
			jv.NodeCount = view.Tree.Count()
		}
		out.Views = append(out.Views, jv)
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
