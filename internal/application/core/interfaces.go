package core

import (
	"context"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/data/parser"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
)

// EntrySource yields the timestamped payloads of one trace
type EntrySource interface {
	// TraceType returns the subsystem the trace was recorded from
	TraceType() model.TraceType
	// SupportedTimestampTypes lists the clocks the trace can be indexed by
	SupportedTimestampTypes() []model.TimestampType
	// Timestamps returns the ordered timestamps on one clock, or false
	Timestamps(t model.TimestampType) ([]model.Timestamp, bool)
	// EntryAt returns the entry active at ts, or false when there is none
	EntryAt(ts model.Timestamp) (model.TraceEntry, bool)
}

// BlobParser indexes raw trace blobs
type BlobParser interface {
	// ParseBlobs parses every blob, failing as a whole if any blob fails
	ParseBlobs(ctx context.Context, blobs []parser.Blob) ([]*parser.TraceFile, error)
}

// ViewerFactory creates the presenters for a set of trace types
type ViewerFactory interface {
	// CreateViewers returns one presenter per trace type that has a hierarchy
	CreateViewers(traceTypes []model.TraceType, notify viewer.Notifier) []*viewer.Presenter
}
