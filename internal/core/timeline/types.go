package timeline

import (
	"github.com/penwyp/go-winscope/internal/core/model"
)

// TimestampSource is the part of an entry source the merger needs
type TimestampSource interface {
	// TraceType identifies the source in logs
	TraceType() model.TraceType
	// Timestamps returns the ordered timestamps of the given type, or false
	// if the source cannot represent its entries on that clock
	Timestamps(t model.TimestampType) ([]model.Timestamp, bool)
}

// Result is a merged global timeline
type Result struct {
	Type       model.TimestampType
	Timestamps []model.Timestamp
}

// Len returns the number of timeline positions
func (r Result) Len() int {
	return len(r.Timestamps)
}
