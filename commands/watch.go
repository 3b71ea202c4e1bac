package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-winscope/internal/data/watcher"
	"github.com/penwyp/go-winscope/internal/presentation/formatter"
	"github.com/penwyp/go-winscope/internal/presentation/layout"
	"github.com/penwyp/go-winscope/internal/util"
	"github.com/spf13/cobra"
)

const watchQuietPeriod = 300 * time.Millisecond

// reload bootstraps s again and returns to the position it was at, or to
// the last position when that timestamp no longer exists
func reload(ctx context.Context, s *session, flags *viewFlags) error {
	previous, hadPosition := s.cursor.Current()
	if err := s.load(ctx); err != nil {
		return err
	}
	if hadPosition && previous.Type == s.core.TimestampType() {
		if err := s.seekValue(previous.ValueNs); err == nil {
			flags.apply(s.presenters(nil))
			return nil
		}
	}
	if err := s.seekIndex(-1); err != nil {
		return err
	}
	flags.apply(s.presenters(nil))
	return nil
}

func newWatchCmd(a *app) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the latest timestamp whenever trace files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			f, err := formatter.NewFormatter(a.cfg.Output, layout.NewTerminalSizer())
			if err != nil {
				return err
			}

			s, err := newSession(a.cfg)
			if err != nil {
				return err
			}
			if err := s.load(ctx); err != nil {
				return err
			}
			if err := s.seekIndex(-1); err != nil {
				return err
			}
			flags.apply(s.presenters(nil))

			fw, err := watcher.NewFileWatcher([]string{a.cfg.TraceDir})
			if err != nil {
				return fmt.Errorf("watching %s: %w", a.cfg.TraceDir, err)
			}
			defer fw.Close()

			draw := func(w io.Writer) error {
				fmt.Fprint(w, util.ClearScreen+util.MoveCursorHome)
				return s.render(w, f, nil)
			}
			if err := draw(out); err != nil {
				return err
			}

			for batch := range fw.Changes(ctx, watchQuietPeriod) {
				util.LogInfof("Reloading after %d trace file changes", len(batch))
				if err := reload(ctx, s, &flags); err != nil {
					util.LogError("Reload failed", util.F("error", err.Error()))
					fmt.Fprintf(cmd.ErrOrStderr(), "reload failed: %v\n", err)
					continue
				}
				if err := draw(out); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringP("output", "o", formatter.OutputTree, "Output format (tree, table, json)")
	return cmd
}
