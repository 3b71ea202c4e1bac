package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
)

// LookupPolicy decides which entry is active at a timestamp
type LookupPolicy int

const (
	// LookupFloor selects the latest entry at or before the timestamp
	LookupFloor LookupPolicy = iota
	// LookupExact selects an entry only on an exact timestamp match
	LookupExact
)

// ParseLookupPolicy parses "floor" (the default for "") or "exact"
func ParseLookupPolicy(s string) (LookupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "floor":
		return LookupFloor, nil
	case "exact":
		return LookupExact, nil
	default:
		return 0, fmt.Errorf("unknown lookup policy %q", s)
	}
}

type entryRecord struct {
	elapsedNs int64
	realNs    *int64
	payload   model.Payload
}

// TraceFile is a parsed, indexed trace of one type
type TraceFile struct {
	name      string
	traceType model.TraceType
	lookup    LookupPolicy
	entries   []entryRecord
	index     map[model.TimestampType][]int64
}

// Name returns the blob name the trace was parsed from
func (f *TraceFile) Name() string { return f.name }

// TraceType returns the subsystem the trace was recorded from
func (f *TraceFile) TraceType() model.TraceType { return f.traceType }

// Len returns the number of entries
func (f *TraceFile) Len() int { return len(f.entries) }

// buildIndex sorts entries by elapsed time and records, per timestamp
// type, the value of every entry. Real time is indexed only when every
// entry carries it and it does not run backwards.
func (f *TraceFile) buildIndex() {
	sort.SliceStable(f.entries, func(i, j int) bool {
		return f.entries[i].elapsedNs < f.entries[j].elapsedNs
	})

	f.index = make(map[model.TimestampType][]int64, 2)

	elapsed := make([]int64, len(f.entries))
	for i, e := range f.entries {
		elapsed[i] = e.elapsedNs
	}
	f.index[model.TimestampElapsed] = elapsed

	real := make([]int64, 0, len(f.entries))
	for i, e := range f.entries {
		if e.realNs == nil {
			util.LogDebugf("Trace %s: entry %d has no real timestamp, real clock unsupported", f.name, i)
			return
		}
		if i > 0 && *e.realNs < real[i-1] {
			util.LogWarnf("Trace %s: real clock runs backwards at entry %d, real clock unsupported", f.name, i)
			return
		}
		real = append(real, *e.realNs)
	}
	f.index[model.TimestampReal] = real
}

// SupportedTimestampTypes lists the clocks the trace can be indexed by
func (f *TraceFile) SupportedTimestampTypes() []model.TimestampType {
	var out []model.TimestampType
	for _, t := range model.AllTimestampTypes {
		if _, ok := f.index[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Timestamps returns the entry timestamps on one clock, or false if the
// trace cannot be indexed by it
func (f *TraceFile) Timestamps(t model.TimestampType) ([]model.Timestamp, bool) {
	values, ok := f.index[t]
	if !ok {
		return nil, false
	}
	out := make([]model.Timestamp, len(values))
	for i, v := range values {
		out[i] = model.NewTimestamp(t, v)
	}
	return out, true
}

// EntryAt returns the entry active at ts together with the entry before
// it. It reports false when ts is before the first entry, on an exact-match
// miss, or when ts uses a clock the trace does not support.
func (f *TraceFile) EntryAt(ts model.Timestamp) (model.TraceEntry, bool) {
	values, ok := f.index[ts.Type]
	if !ok || len(values) == 0 {
		return model.TraceEntry{}, false
	}

	i := sort.Search(len(values), func(i int) bool { return values[i] > ts.ValueNs }) - 1
	if i < 0 {
		return model.TraceEntry{}, false
	}
	if f.lookup == LookupExact && values[i] != ts.ValueNs {
		return model.TraceEntry{}, false
	}

	entry := model.TraceEntry{Current: f.entries[i].payload}
	if i > 0 {
		entry.Previous = f.entries[i-1].payload
	}
	return entry, true
}
