package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. WINSCOPE_TRACE_DIR
const EnvPrefix = "WINSCOPE"

// ConfigName is the config file looked up in the working and home directory
const ConfigName = ".winscope"

// OptionsConfig holds the initial state of the tree toggles
type OptionsConfig struct {
	ShowDiff      bool `mapstructure:"show_diff"`
	SimplifyNames bool `mapstructure:"simplify_names"`
	OnlyVisible   bool `mapstructure:"only_visible"`
	Flat          bool `mapstructure:"flat"`
	ShowDefaults  bool `mapstructure:"show_defaults"`
}

// Config holds all runtime configuration. Values are populated from
// .winscope.yaml, WINSCOPE_* env vars, and CLI flags.
type Config struct {
	TraceDir       string        `mapstructure:"trace_dir" validate:"required"`
	TimestampOrder []string      `mapstructure:"timestamp_order" validate:"required,min=1,max=2,unique,dive,oneof=real elapsed"`
	Timezone       string        `mapstructure:"timezone" validate:"required,tz"`
	Output         string        `mapstructure:"output" validate:"oneof=tree table json"`
	Concurrency    int           `mapstructure:"concurrency" validate:"gte=1,lte=64"`
	LogLevel       string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFile        string        `mapstructure:"log_file"`
	LogFormat      string        `mapstructure:"log_format" validate:"oneof=text json"`
	Hierarchy      OptionsConfig `mapstructure:"hierarchy"`
	Properties     OptionsConfig `mapstructure:"properties"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// like the built-in timezone tag, but also accepting "Local"
	if err := validate.RegisterValidation("tz", validateTimezone); err != nil {
		panic(err)
	}
}

func validateTimezone(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

// SetDefaults registers the built-in defaults on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("trace_dir", ".")
	v.SetDefault("timestamp_order", []string{"real", "elapsed"})
	v.SetDefault("timezone", "Local")
	v.SetDefault("output", "tree")
	v.SetDefault("concurrency", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", defaultLogFile())
	v.SetDefault("log_format", "text")
	v.SetDefault("hierarchy.show_diff", false)
	v.SetDefault("hierarchy.simplify_names", true)
	v.SetDefault("hierarchy.only_visible", false)
	v.SetDefault("hierarchy.flat", false)
	v.SetDefault("properties.show_diff", false)
	v.SetDefault("properties.show_defaults", false)
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".winscope", "winscope.log")
}

// Setup points v at the config file (or the default search path) and the
// WINSCOPE_* environment. A missing default config file is not an error.
func Setup(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	for i, name := range cfg.TimestampOrder {
		cfg.TimestampOrder[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TimestampTypes returns the timestamp preference order
func (c *Config) TimestampTypes() ([]model.TimestampType, error) {
	return model.ParseTimestampOrder(c.TimestampOrder)
}

// HierarchyOptions applies the hierarchy toggles on top of base
func (c *Config) HierarchyOptions(base model.UserOptions) model.UserOptions {
	return base.
		With(model.OptionShowDiff, c.Hierarchy.ShowDiff).
		With(model.OptionSimplifyNames, c.Hierarchy.SimplifyNames).
		With(model.OptionOnlyVisible, c.Hierarchy.OnlyVisible).
		With(model.OptionFlat, c.Hierarchy.Flat)
}

// PropertiesOptions applies the properties toggles on top of base
func (c *Config) PropertiesOptions(base model.UserOptions) model.UserOptions {
	return base.
		With(model.OptionShowDiff, c.Properties.ShowDiff).
		With(model.OptionShowDefaults, c.Properties.ShowDefaults)
}
