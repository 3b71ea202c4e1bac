package formatter

import (
	"fmt"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
)

// FormatTimestamp renders ts for humans: wall-clock time in the configured
// timezone for REAL, a duration since boot for ELAPSED
func FormatTimestamp(ts model.Timestamp) string {
	switch ts.Type {
	case model.TimestampReal:
		return util.GetTimeProvider().FormatRealNanos(ts.ValueNs)
	case model.TimestampElapsed:
		return util.FormatElapsedNanos(ts.ValueNs)
	default:
		return fmt.Sprintf("%d", ts.ValueNs)
	}
}
