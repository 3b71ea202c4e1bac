package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, cfgFile string) (*Config, error) {
	t.Helper()
	v := viper.New()
	require.NoError(t, Setup(v, cfgFile))
	return Load(v)
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadFrom(t, "")
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"TraceDir", cfg.TraceDir, "."},
		{"TimestampOrder", cfg.TimestampOrder, []string{"real", "elapsed"}},
		{"Timezone", cfg.Timezone, "Local"},
		{"Output", cfg.Output, "tree"},
		{"Concurrency", cfg.Concurrency, 4},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "text"},
		{"SimplifyNames", cfg.Hierarchy.SimplifyNames, true},
		{"Flat", cfg.Hierarchy.Flat, false},
		{"ShowDefaults", cfg.Properties.ShowDefaults, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	order, err := cfg.TimestampTypes()
	require.NoError(t, err)
	assert.Equal(t, model.AllTimestampTypes, order)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "winscope.yaml")
	content := `trace_dir: /traces
timestamp_order: [ELAPSED, real]
timezone: UTC
output: json
hierarchy:
  flat: true
  only_visible: true
properties:
  show_defaults: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := loadFrom(t, path)
	require.NoError(t, err)

	assert.Equal(t, "/traces", cfg.TraceDir)
	assert.Equal(t, []string{"elapsed", "real"}, cfg.TimestampOrder)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "json", cfg.Output)

	hierarchy := cfg.HierarchyOptions(model.UserOptions{
		model.OptionFlat: {Name: "Flat", Tooltip: "kept"},
	})
	assert.True(t, hierarchy.IsEnabled(model.OptionFlat))
	assert.True(t, hierarchy.IsEnabled(model.OptionOnlyVisible))
	assert.True(t, hierarchy.IsEnabled(model.OptionSimplifyNames), "unset keys keep their default")
	assert.Equal(t, "kept", hierarchy[model.OptionFlat].Tooltip)
	assert.True(t, cfg.PropertiesOptions(nil).IsEnabled(model.OptionShowDefaults))

	order, err := cfg.TimestampTypes()
	require.NoError(t, err)
	assert.Equal(t, []model.TimestampType{model.TimestampElapsed, model.TimestampReal}, order)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(*Config) any
		want   any
	}{
		{"trace_dir", "WINSCOPE_TRACE_DIR", "/env/traces", func(c *Config) any { return c.TraceDir }, "/env/traces"},
		{"output", "WINSCOPE_OUTPUT", "table", func(c *Config) any { return c.Output }, "table"},
		{"nested", "WINSCOPE_HIERARCHY_FLAT", "true", func(c *Config) any { return c.Hierarchy.Flat }, true},
		{"list", "WINSCOPE_TIMESTAMP_ORDER", "elapsed", func(c *Config) any { return c.TimestampOrder }, []string{"elapsed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := loadFrom(t, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.field(cfg))
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"unknown output", "output", "xml"},
		{"unknown timestamp type", "timestamp_order", []string{"boot"}},
		{"duplicate timestamp type", "timestamp_order", []string{"real", "real"}},
		{"empty timestamp order", "timestamp_order", []string{}},
		{"bad timezone", "timezone", "Mars/Olympus"},
		{"zero concurrency", "concurrency", 0},
		{"bad log level", "log_level", "loud"},
		{"empty trace dir", "trace_dir", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.val)

			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestSetupMissingExplicitFile(t *testing.T) {
	err := Setup(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTimezoneTagAcceptsLocal(t *testing.T) {
	tests := []struct {
		zone    string
		wantErr bool
	}{
		{"Local", false},
		{"UTC", false},
		{"Europe/London", false},
		{"Mars/Olympus", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			err := validate.Var(tt.zone, "tz")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
