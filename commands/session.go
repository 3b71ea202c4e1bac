package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/penwyp/go-winscope/internal/application/core"
	"github.com/penwyp/go-winscope/internal/config"
	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/core/timeline"
	"github.com/penwyp/go-winscope/internal/data/parser"
	"github.com/penwyp/go-winscope/internal/data/scanner"
	"github.com/penwyp/go-winscope/internal/presentation/formatter"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
	"github.com/penwyp/go-winscope/internal/util"
)

var errNoTraces = errors.New("no trace files found")

// session is one loaded set of traces plus a cursor over their timeline
type session struct {
	cfg    *config.Config
	core   *core.Core
	cursor *timeline.Cursor
}

func newSession(cfg *config.Config) (*session, error) {
	order, err := cfg.TimestampTypes()
	if err != nil {
		return nil, err
	}
	factory := viewer.NewFactory(nil).WithOptions(
		cfg.HierarchyOptions(viewer.DefaultHierarchyOptions()),
		cfg.PropertiesOptions(viewer.DefaultPropertiesOptions()),
	)
	notify := func(data viewer.UiData) {
		util.LogDebug("Presenter updated",
			util.F("traceType", data.TraceType.String()),
			util.F("nodes", data.Tree.Count()))
	}
	c := core.NewCore(parser.NewParser(cfg.Concurrency), factory, timeline.NewMerger(order), notify)
	return &session{cfg: cfg, core: c}, nil
}

// load reads every trace file under the configured directory and
// bootstraps the core with them
func (s *session) load(ctx context.Context) error {
	paths, err := scanner.NewFileScanner(s.cfg.TraceDir).Scan()
	if err != nil {
		return fmt.Errorf("scanning %s: %w", s.cfg.TraceDir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w in %s", errNoTraces, s.cfg.TraceDir)
	}

	blobs := make([]parser.Blob, 0, len(paths))
	for _, path := range paths {
		blob, err := parser.ReadBlob(path)
		if err != nil {
			return err
		}
		blobs = append(blobs, blob)
	}

	if err := s.core.Bootstrap(ctx, blobs); err != nil {
		return err
	}
	s.cursor = timeline.NewCursor(s.core.Timestamps())
	return nil
}

// moveTo dispatches ts when it is a timeline position
func (s *session) moveTo(ts model.Timestamp, ok bool) bool {
	if !ok {
		return false
	}
	s.core.NotifyCurrentTimestamp(ts)
	return true
}

// seekIndex moves to a position. Negative indexes count from the end.
func (s *session) seekIndex(index int) error {
	n := s.cursor.Len()
	if n == 0 {
		return errors.New("timeline is empty")
	}
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return fmt.Errorf("index %d out of range [0, %d)", index, n)
	}
	s.cursor.First()
	for i := 0; i < index; i++ {
		s.cursor.Next()
	}
	s.moveTo(s.cursor.Current())
	return nil
}

// seekValue moves to the greatest timestamp not after valueNs
func (s *session) seekValue(valueNs int64) error {
	ts := model.NewTimestamp(s.core.TimestampType(), valueNs)
	if !s.moveTo(s.cursor.Seek(ts)) {
		return fmt.Errorf("no timeline position at or before %s", ts)
	}
	return nil
}

func (s *session) presenters(filter []model.TraceType) []*viewer.Presenter {
	all := s.core.Presenters()
	if len(filter) == 0 {
		return all
	}
	wanted := make(map[model.TraceType]bool, len(filter))
	for _, t := range filter {
		wanted[t] = true
	}
	var out []*viewer.Presenter
	for _, p := range all {
		if wanted[p.TraceType()] {
			out = append(out, p)
		}
	}
	return out
}

func (s *session) frame(filter []model.TraceType) formatter.Frame {
	ts, _ := s.cursor.Current()
	frame := formatter.Frame{Timestamp: ts, Index: s.cursor.Index(), Total: s.cursor.Len()}
	for _, p := range s.presenters(filter) {
		frame.Views = append(frame.Views, p.UiData())
	}
	return frame
}

func (s *session) render(w io.Writer, f formatter.Formatter, filter []model.TraceType) error {
	return f.Format(w, s.frame(filter))
}

func (s *session) sourceSummaries() []formatter.SourceSummary {
	sources := s.core.Sources()
	out := make([]formatter.SourceSummary, 0, len(sources))
	for _, src := range sources {
		summary := formatter.SourceSummary{TraceType: src.TraceType()}
		if counted, ok := src.(interface{ Len() int }); ok {
			summary.Entries = counted.Len()
		}
		out = append(out, summary)
	}
	return out
}

func parseTraceTypes(names []string) ([]model.TraceType, error) {
	out := make([]model.TraceType, 0, len(names))
	for _, name := range names {
		t, err := model.ParseTraceType(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
