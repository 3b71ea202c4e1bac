package util

import (
	"fmt"
	"sync"
	"time"
)

// TimeProvider renders wall-clock timestamps in one configured timezone
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	timeMu             sync.Mutex
)

// InitializeTimeProvider sets the global provider's timezone
func InitializeTimeProvider(timezone string) error {
	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	timeMu.Lock()
	globalTimeProvider = provider
	timeMu.Unlock()
	return nil
}

// GetTimeProvider returns the global provider, defaulting to Local
func GetTimeProvider() *TimeProvider {
	timeMu.Lock()
	defer timeMu.Unlock()
	if globalTimeProvider == nil {
		globalTimeProvider = &TimeProvider{location: time.Local}
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone. "" and "Local" select the host zone.
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Europe/London", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// Location returns the configured timezone
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// FormatRealNanos formats nanoseconds since the epoch as a date and time
// with nanosecond precision
func (tp *TimeProvider) FormatRealNanos(ns int64) string {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.Unix(0, ns).In(tp.location).Format("2006-01-02T15:04:05.000000000")
}

// FormatElapsedNanos formats nanoseconds since boot as "1h2m3s4ms5ns"
// style text, dropping leading zero units
func FormatElapsedNanos(ns int64) string {
	if ns == 0 {
		return "0ns"
	}

	sign := ""
	if ns < 0 {
		sign = "-"
		ns = -ns
	}

	units := []struct {
		suffix string
		size   int64
	}{
		{"d", int64(24 * time.Hour)},
		{"h", int64(time.Hour)},
		{"m", int64(time.Minute)},
		{"s", int64(time.Second)},
		{"ms", int64(time.Millisecond)},
		{"ns", 1},
	}

	out := sign
	started := false
	for _, u := range units {
		n := ns / u.size
		ns %= u.size
		if n == 0 && !started {
			continue
		}
		started = true
		out += fmt.Sprintf("%d%s", n, u.suffix)
	}
	return out
}
