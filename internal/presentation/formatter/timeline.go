package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-winscope/internal/core/model"
)

// SourceSummary describes one loaded trace in the timeline listing
type SourceSummary struct {
	TraceType model.TraceType
	Entries   int
}

type jsonTimeline struct {
	TimestampType string          `json:"timestampType"`
	Sources       []jsonSource    `json:"sources"`
	Timestamps    []jsonTimestamp `json:"timestamps"`
}

type jsonSource struct {
	TraceType string `json:"traceType"`
	Entries   int    `json:"entries"`
}

type jsonTimestamp struct {
	Index   int    `json:"index"`
	ValueNs int64  `json:"valueNs"`
	Display string `json:"display"`
}

// FormatTimeline lists the merged timeline. output is one of the Output
// constants; tree and table share the plain listing.
func FormatTimeline(w io.Writer, output string, tsType model.TimestampType, sources []SourceSummary, timestamps []model.Timestamp) error {
	if output == OutputJSON {
		out := jsonTimeline{
			TimestampType: tsType.String(),
			Sources:       make([]jsonSource, len(sources)),
			Timestamps:    make([]jsonTimestamp, len(timestamps)),
		}
		for i, s := range sources {
			out.Sources[i] = jsonSource{TraceType: s.TraceType.String(), Entries: s.Entries}
		}
		for i, ts := range timestamps {
			out.Timestamps[i] = jsonTimestamp{Index: i, ValueNs: ts.ValueNs, Display: FormatTimestamp(ts)}
		}
		data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Timestamp type: %s\n", tsType)
	for _, s := range sources {
		fmt.Fprintf(&b, "  %-16s %d entries\n", s.TraceType, s.Entries)
	}
	fmt.Fprintf(&b, "%d timestamps\n", len(timestamps))
	for i, ts := range timestamps {
		fmt.Fprintf(&b, "%5d  %-32s %d\n", i, FormatTimestamp(ts), ts.ValueNs)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
