package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/core/timeline"
	"github.com/penwyp/go-winscope/internal/data/parser"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
	"github.com/penwyp/go-winscope/internal/util"
)

// ErrFatalBootstrap wraps every error that prevents a timeline from being
// built: a trace that fails to index or clocks that do not line up
var ErrFatalBootstrap = errors.New("fatal bootstrap error")

// Core loads traces, keeps the global timeline and fans the entries at the
// current timestamp out to the presenters
type Core struct {
	mu sync.RWMutex

	parser  BlobParser
	factory ViewerFactory
	merger  *timeline.Merger
	notify  viewer.Notifier

	state *SessionState
}

// NewCore creates a Core. notify receives every presenter's UiData.
func NewCore(p BlobParser, factory ViewerFactory, merger *timeline.Merger, notify viewer.Notifier) *Core {
	if merger == nil {
		merger = timeline.NewMerger(nil)
	}
	return &Core{
		parser:  p,
		factory: factory,
		merger:  merger,
		notify:  notify,
		state:   &SessionState{snapshot: model.Snapshot{}},
	}
}

// Bootstrap discards the current session and loads blobs. Any failure
// leaves the Core empty and is reported wrapped in ErrFatalBootstrap.
func (c *Core) Bootstrap(ctx context.Context, blobs []parser.Blob) error {
	start := time.Now()
	c.Reset()

	util.LogInfof("Bootstrapping %d traces", len(blobs))

	files, err := c.parser.ParseBlobs(ctx, blobs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFatalBootstrap, err)
	}

	sources := make([]EntrySource, 0, len(files))
	timestampSources := make([]timeline.TimestampSource, 0, len(files))
	traceTypes := make([]model.TraceType, 0, len(files))
	owners := make(map[model.TraceType]string, len(files))
	for _, f := range files {
		if owner, dup := owners[f.TraceType()]; dup {
			return fmt.Errorf("%w: %s and %s are both %s traces", ErrFatalBootstrap, owner, f.Name(), f.TraceType())
		}
		owners[f.TraceType()] = f.Name()
		sources = append(sources, f)
		timestampSources = append(timestampSources, f)
		traceTypes = append(traceTypes, f.TraceType())
	}

	tl, err := c.merger.Merge(timestampSources)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFatalBootstrap, err)
	}

	presenters := c.factory.CreateViewers(traceTypes, c.notify)
	state := newSessionState(sources, presenters, tl)

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	util.LogInfo("Bootstrap completed",
		util.F("session", state.ID),
		util.F("sources", len(sources)),
		util.F("presenters", len(presenters)),
		util.F("timestamps", tl.Len()),
		util.F("timestampType", tl.Type.String()),
		util.F("duration", time.Since(start).String()))
	return nil
}

// Reset discards the session: sources, presenters, timeline and snapshot
func (c *Core) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsLoaded() {
		util.LogDebugf("Discarding session %s", c.state.ID)
	}
	c.state.Reset()
}

// SessionID returns the id of the loaded session, empty when none is loaded
func (c *Core) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.ID
}

// Timestamps returns the global timeline
func (c *Core) Timestamps() []model.Timestamp {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Timestamp(nil), c.state.Timeline.Timestamps...)
}

// TimestampType returns the clock the global timeline uses
func (c *Core) TimestampType() model.TimestampType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Timeline.Type
}

// Sources returns the loaded entry sources
func (c *Core) Sources() []EntrySource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]EntrySource(nil), c.state.Sources...)
}

// Presenters returns the presenters of the loaded session
func (c *Core) Presenters() []*viewer.Presenter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*viewer.Presenter(nil), c.state.Presenters...)
}

// Presenter returns the presenter of one trace type
func (c *Core) Presenter(traceType model.TraceType) (*viewer.Presenter, bool) {
	for _, p := range c.Presenters() {
		if p.TraceType() == traceType {
			return p, true
		}
	}
	return nil, false
}

// CurrentTimestamp returns the last dispatched timestamp
func (c *Core) CurrentTimestamp() (model.Timestamp, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.current == nil {
		return model.Timestamp{}, false
	}
	return *c.state.current, true
}

// Snapshot returns a copy of the last dispatched snapshot
func (c *Core) Snapshot() model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copySnapshot(c.state.snapshot)
}

// NotifyCurrentTimestamp collects every source's entry at ts and hands the
// snapshot to every presenter. Sources without an entry at ts are left out
// of the snapshot.
func (c *Core) NotifyCurrentTimestamp(ts model.Timestamp) {
	c.mu.Lock()
	snapshot := make(model.Snapshot, len(c.state.Sources))
	for _, source := range c.state.Sources {
		entry, ok := source.EntryAt(ts)
		if !ok {
			continue
		}
		snapshot[source.TraceType()] = entry
	}
	c.state.current = &ts
	c.state.snapshot = snapshot
	presenters := append([]*viewer.Presenter(nil), c.state.Presenters...)
	c.mu.Unlock()

	util.LogDebugf("Dispatching %s: %d of %d sources have an entry", ts, len(snapshot), len(c.Sources()))

	// presenters may call back into the Core from their notifier
	for _, p := range presenters {
		p.NotifyCurrentTraceEntries(copySnapshot(snapshot))
	}
}

func copySnapshot(s model.Snapshot) model.Snapshot {
	out := make(model.Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
