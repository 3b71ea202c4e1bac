package commands

import (
	"github.com/penwyp/go-winscope/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

func newTimelineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "List the merged timeline of all traces",
		Long: `List every timestamp of the merged timeline. The timestamp type is the first
type of the preference order that every trace supports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(a.cfg)
			if err != nil {
				return err
			}
			if err := s.load(cmd.Context()); err != nil {
				return err
			}
			return formatter.FormatTimeline(cmd.OutOrStdout(), a.cfg.Output,
				s.core.TimestampType(), s.sourceSummaries(), s.core.Timestamps())
		},
	}
	cmd.Flags().StringP("output", "o", formatter.OutputTree, "Output format (tree, table, json)")
	return cmd
}
