package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/penwyp/go-winscope/internal/config"
	"github.com/penwyp/go-winscope/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags onto configuration keys. A flag only
// overrides the config file and environment when it is set explicitly.
var flagKeys = map[string]string{
	"dir":             "trace_dir",
	"output":          "output",
	"timezone":        "timezone",
	"timestamp-order": "timestamp_order",
	"concurrency":     "concurrency",
	"flat":            "hierarchy.flat",
	"only-visible":    "hierarchy.only_visible",
	"show-diff":       "hierarchy.show_diff",
	"simplify-names":  "hierarchy.simplify_names",
	"properties-diff": "properties.show_diff",
	"show-defaults":   "properties.show_defaults",
}

// app carries the state shared by one command tree
type app struct {
	v       *viper.Viper
	cfgFile string
	debug   bool
	cfg     *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "go-winscope [command]",
		Short: "Synchronized inspection of window and surface traces",
		Long: `go-winscope loads SurfaceFlinger, WindowManager, Transactions and screen recording
traces, aligns them on one timeline and renders the hierarchy of every trace at a
chosen timestamp.

Examples:
  go-winscope timeline --dir ./traces               # List the merged timeline
  go-winscope show --index 3 --show-diff            # Hierarchies at the 4th timestamp, diffed
  go-winscope show --only-visible --filter Wallpaper
  go-winscope show --select "42 StatusBar#42"       # Include the properties of one node
  go-winscope step                                  # Step through the timeline interactively
  go-winscope watch                                 # Re-render when trace files change`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initRuntime,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"Config file (default ./.winscope.yaml or ~/.winscope.yaml)")
	rootCmd.PersistentFlags().String("dir", ".",
		"Directory holding the trace files")
	rootCmd.PersistentFlags().String("timezone", "Local",
		"Timezone for real timestamps (e.g., UTC, Europe/London)")
	rootCmd.PersistentFlags().StringSlice("timestamp-order", []string{"real", "elapsed"},
		"Timestamp type preference order")
	rootCmd.PersistentFlags().Int("concurrency", 4,
		"Number of traces parsed in parallel")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false,
		"Enable debug mode")

	rootCmd.AddCommand(
		newTimelineCmd(a),
		newShowCmd(a),
		newStepCmd(a),
		newWatchCmd(a),
	)
	return rootCmd
}

// initRuntime resolves the configuration and sets up logging and the
// timezone before any subcommand runs
func (a *app) initRuntime(cmd *cobra.Command, args []string) error {
	if err := config.Setup(a.v, a.cfgFile); err != nil {
		return err
	}
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}

	logFile := ""
	if cfg.LogFile != "" {
		logFile = expandPath(cfg.LogFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := util.InitLogger(cfg.LogLevel, logFile, util.LogFormat(cfg.LogFormat), a.debug); err != nil {
		return err
	}
	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}

	cfg.TraceDir = expandPath(cfg.TraceDir)
	a.cfg = cfg
	util.LogDebug("Configuration loaded",
		util.F("traceDir", cfg.TraceDir),
		util.F("timestampOrder", strings.Join(cfg.TimestampOrder, ",")),
		util.F("output", cfg.Output))
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

// Execute runs the command tree until it finishes or the process is
// interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
