package model

import (
	"errors"
	"fmt"
	"strings"
)

// TraceType names the subsystem a trace was recorded from
type TraceType int

const (
	TraceSurfaceFlinger TraceType = iota
	TraceWindowManager
	TraceTransactions
	TraceScreenRecording
)

var ErrUnknownTraceType = errors.New("unknown trace type")

var traceTypeNames = map[TraceType]string{
	TraceSurfaceFlinger:  "SurfaceFlinger",
	TraceWindowManager:   "WindowManager",
	TraceTransactions:    "Transactions",
	TraceScreenRecording: "ScreenRecording",
}

func (t TraceType) String() string {
	if name, ok := traceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TraceType(%d)", int(t))
}

// ParseTraceType accepts the canonical name in any letter case, plus the
// short aliases used on the command line (sf, wm, tx, video).
func ParseTraceType(s string) (TraceType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "sf", "layers":
		return TraceSurfaceFlinger, nil
	case "wm", "windows":
		return TraceWindowManager, nil
	case "tx":
		return TraceTransactions, nil
	case "video", "screenrecording":
		return TraceScreenRecording, nil
	}
	for t, name := range traceTypeNames {
		if strings.ToLower(name) == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTraceType, s)
}

// HasHierarchy reports whether the trace type's payload can be shown as a tree
func (t TraceType) HasHierarchy() bool {
	return t != TraceScreenRecording
}
