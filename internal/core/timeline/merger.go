package timeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
)

// ErrNoCommonTimestampType is returned when no timestamp type is supported
// by every source
var ErrNoCommonTimestampType = errors.New("no common timestamp type across sources")

// Merger builds one global timeline from several sources
type Merger struct {
	order []model.TimestampType
}

// NewMerger creates a merger that tries timestamp types in the given order.
// An empty order falls back to model.AllTimestampTypes.
func NewMerger(order []model.TimestampType) *Merger {
	if len(order) == 0 {
		order = model.AllTimestampTypes
	}
	cp := make([]model.TimestampType, len(order))
	copy(cp, order)
	return &Merger{order: cp}
}

// Order returns the preference order in use
func (m *Merger) Order() []model.TimestampType {
	cp := make([]model.TimestampType, len(m.order))
	copy(cp, m.order)
	return cp
}

// Merge returns the sorted, de-duplicated union of every source's
// timestamps for the first type all sources support. Zero sources yield
// an empty timeline.
func (m *Merger) Merge(sources []TimestampSource) (Result, error) {
	if len(sources) == 0 {
		return Result{Type: m.order[0], Timestamps: []model.Timestamp{}}, nil
	}

	for _, candidate := range m.order {
		timelines, ok := m.collect(candidate, sources)
		if !ok {
			continue
		}

		merged := MergeTimelines(timelines...)
		util.LogDebugf("Merged %d sources on %s clock: %d timestamps", len(sources), candidate, len(merged))
		return Result{Type: candidate, Timestamps: merged}, nil
	}

	return Result{}, fmt.Errorf("%w (tried %v)", ErrNoCommonTimestampType, m.order)
}

// collect gathers every source's timestamps for one type, giving up as soon
// as one source lacks it
func (m *Merger) collect(candidate model.TimestampType, sources []TimestampSource) ([][]model.Timestamp, bool) {
	timelines := make([][]model.Timestamp, 0, len(sources))
	for _, source := range sources {
		ts, ok := source.Timestamps(candidate)
		if !ok {
			util.LogDebugf("Source %s has no %s timestamps, trying next type", source.TraceType(), candidate)
			return nil, false
		}
		timelines = append(timelines, ts)
	}
	return timelines, true
}

// MergeTimelines concatenates timelines, sorts ascending and removes duplicates
func MergeTimelines(timelines ...[]model.Timestamp) []model.Timestamp {
	var totalSize int
	for _, tl := range timelines {
		totalSize += len(tl)
	}

	merged := make([]model.Timestamp, 0, totalSize)
	for _, tl := range timelines {
		merged = append(merged, tl...)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Compare(merged[j]) < 0
	})

	return DeduplicateSorted(merged)
}

// DeduplicateSorted removes adjacent equal timestamps in place
func DeduplicateSorted(sorted []model.Timestamp) []model.Timestamp {
	if len(sorted) == 0 {
		return sorted
	}

	result := sorted[:1]
	for _, ts := range sorted[1:] {
		if !ts.Equal(result[len(result)-1]) {
			result = append(result, ts)
		}
	}
	return result
}
