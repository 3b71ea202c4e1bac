package model

import (
	"errors"
	"fmt"
	"strings"
)

// TimestampType identifies the clock a timestamp was taken from
type TimestampType int

const (
	TimestampReal    TimestampType = iota // wall clock, nanoseconds since epoch
	TimestampElapsed                      // monotonic, nanoseconds since boot
)

// AllTimestampTypes is the closed set of timestamp types in their default preference order
var AllTimestampTypes = []TimestampType{TimestampReal, TimestampElapsed}

var ErrUnknownTimestampType = errors.New("unknown timestamp type")

func (t TimestampType) String() string {
	switch t {
	case TimestampReal:
		return "real"
	case TimestampElapsed:
		return "elapsed"
	default:
		return fmt.Sprintf("TimestampType(%d)", int(t))
	}
}

// ParseTimestampType parses "real" or "elapsed" (case-insensitive)
func ParseTimestampType(s string) (TimestampType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "real":
		return TimestampReal, nil
	case "elapsed":
		return TimestampElapsed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTimestampType, s)
	}
}

// ParseTimestampOrder parses a preference list such as ["real", "elapsed"].
// Every entry must be a known type and may appear only once.
func ParseTimestampOrder(names []string) ([]TimestampType, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("timestamp order must name at least one type")
	}

	order := make([]TimestampType, 0, len(names))
	seen := make(map[TimestampType]bool, len(names))
	for _, name := range names {
		t, err := ParseTimestampType(name)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			return nil, fmt.Errorf("timestamp type %q listed twice", name)
		}
		seen[t] = true
		order = append(order, t)
	}
	return order, nil
}

// Timestamp is a point on one clock. Two timestamps are equal only if
// both type and value match.
type Timestamp struct {
	Type    TimestampType `json:"type"`
	ValueNs int64         `json:"valueNs"`
}

// NewTimestamp creates a timestamp of the given type
func NewTimestamp(t TimestampType, valueNs int64) Timestamp {
	return Timestamp{Type: t, ValueNs: valueNs}
}

func NewRealTimestamp(valueNs int64) Timestamp {
	return Timestamp{Type: TimestampReal, ValueNs: valueNs}
}

func NewElapsedTimestamp(valueNs int64) Timestamp {
	return Timestamp{Type: TimestampElapsed, ValueNs: valueNs}
}

// Equal reports whether both timestamps have the same type and value
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.Type == other.Type && ts.ValueNs == other.ValueNs
}

// Compare orders timestamps by value. Timestamps of different types are
// ordered by type first so that sorting a mixed slice stays deterministic.
func (ts Timestamp) Compare(other Timestamp) int {
	if ts.Type != other.Type {
		if ts.Type < other.Type {
			return -1
		}
		return 1
	}
	switch {
	case ts.ValueNs < other.ValueNs:
		return -1
	case ts.ValueNs > other.ValueNs:
		return 1
	default:
		return 0
	}
}

func (ts Timestamp) String() string {
	return fmt.Sprintf("%s:%d", ts.Type, ts.ValueNs)
}
