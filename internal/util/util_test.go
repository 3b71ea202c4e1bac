package util

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatElapsedNanos(t *testing.T) {
	tests := []struct {
		name string
		ns   int64
		want string
	}{
		{name: "zero", ns: 0, want: "0ns"},
		{name: "nanoseconds only", ns: 42, want: "42ns"},
		{name: "seconds and millis", ns: int64(2*time.Second + 5*time.Millisecond + 7), want: "2s5ms7ns"},
		{name: "hours keep inner zero units", ns: int64(time.Hour + 3*time.Second), want: "1h0m3s0ms0ns"},
		{name: "negative", ns: -int64(time.Millisecond), want: "-1ms0ns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatElapsedNanos(tt.ns))
		})
	}
}

func TestTimeProviderFormatsInConfiguredZone(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))

	got := tp.FormatRealNanos(int64(1_700_000_000_123_456_789))
	assert.Equal(t, "2023-11-14T22:13:20.123456789", got)
}

func TestTimeProviderRejectsInvalidZone(t *testing.T) {
	tp := &TimeProvider{}
	assert.Error(t, tp.SetTimezone("Invalid/Timezone"))
}

func TestFingerprintSeparatesParts(t *testing.T) {
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
	assert.Equal(t, Fingerprint("x", "y"), Fingerprint("x", "y"))
	assert.Len(t, Fingerprint("x"), 8)
}

func TestFingerprintValueIgnoresMapOrder(t *testing.T) {
	a := map[string]interface{}{"id": 1.0, "name": "x", "nested": map[string]interface{}{"b": true, "a": nil}}
	b := map[string]interface{}{"nested": map[string]interface{}{"a": nil, "b": true}, "name": "x", "id": 1.0}

	assert.Equal(t, FingerprintValue(a), FingerprintValue(b))
	assert.NotEqual(t, FingerprintValue(a), FingerprintValue(map[string]interface{}{"id": 2.0}))
}

func TestDisplayHelpers(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abcdef", PadRight("abcdef", 3))
	assert.Equal(t, 4, GetDisplayWidth("界界"))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestLoggerWritesStructuredText(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelInfo, fields: map[string]interface{}{}}
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))

	logger.Debug("hidden")
	logger.With(F("session", "s1")).Info("bootstrap done", F("sources", 2))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] bootstrap done")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "session=s1 sources=2"))
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelDebug, fields: map[string]interface{}{}}
	logger.AddOutput(NewConsoleOutput(&buf, FormatJSON))

	logger.Warn("no entry", F("trace", "SurfaceFlinger"))

	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"trace":"SurfaceFlinger"`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLogLevel("nonsense"))
}

func TestGlobalHelpersWithoutLoggerAreNoops(t *testing.T) {
	SetLogger(nil)
	assert.NotPanics(t, func() {
		LogInfo("nothing")
		LogDebugf("nothing %d", 1)
	})
}
