package commands

import (
	"fmt"

	"github.com/penwyp/go-winscope/internal/presentation/formatter"
	"github.com/penwyp/go-winscope/internal/presentation/layout"
	"github.com/penwyp/go-winscope/internal/presentation/viewer"
	"github.com/penwyp/go-winscope/internal/util"
	"github.com/spf13/cobra"
)

// viewFlags are the presenter interactions available on the command line
type viewFlags struct {
	traces           []string
	filter           string
	selectID         string
	propertiesFilter string
	pins             []string
	highlight        string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.traces, "trace", nil, "Only render these trace types (sf, wm, tx)")
	cmd.Flags().StringVar(&f.filter, "filter", "", "Keep nodes whose name contains this text, plus their ancestors")
	cmd.Flags().StringVar(&f.selectID, "select", "", "Stable id of the node whose properties are shown")
	cmd.Flags().StringVar(&f.propertiesFilter, "properties-filter", "", "Keep properties whose key or value contains this text")
	cmd.Flags().StringSliceVar(&f.pins, "pin", nil, "Stable ids of nodes to pin")
	cmd.Flags().StringVar(&f.highlight, "highlight", "", "Stable id of the node to highlight")

	cmd.Flags().Bool("flat", false, "Flatten the hierarchy")
	cmd.Flags().Bool("only-visible", false, "Hide invisible nodes")
	cmd.Flags().Bool("show-diff", false, "Diff each hierarchy against the previous entry")
	cmd.Flags().Bool("simplify-names", true, "Shorten long names")
	cmd.Flags().Bool("properties-diff", false, "Diff the selected properties against the previous entry")
	cmd.Flags().Bool("show-defaults", false, "Show properties holding default values")
}

// apply replays the interactions on every presenter
func (f *viewFlags) apply(presenters []*viewer.Presenter) {
	for _, p := range presenters {
		if f.filter != "" {
			p.FilterHierarchyTree(f.filter)
		}
		data := p.UiData()
		if !data.HasTree() {
			continue
		}
		for _, id := range f.pins {
			if node, ok := data.Tree.Find(id); ok {
				p.UpdatePinnedItems(viewer.ItemOf(node))
			}
		}
		if f.highlight != "" && data.Tree.Contains(f.highlight) {
			p.UpdateHighlightedItems(f.highlight)
		}
		if f.selectID != "" {
			if node, ok := data.Tree.Find(f.selectID); ok {
				p.NewPropertiesTree(node)
				if f.propertiesFilter != "" {
					p.FilterPropertiesTree(f.propertiesFilter)
				}
			}
		}
	}
}

func newShowCmd(a *app) *cobra.Command {
	var (
		flags viewFlags
		index int
		at    int64
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render every trace's hierarchy at one timestamp",
		Long: `Dispatch one timeline position to every trace and render the resulting
hierarchy trees. The position is chosen with --index (negative counts from the
end) or --at (greatest timestamp not after the given nanoseconds).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			traceTypes, err := parseTraceTypes(flags.traces)
			if err != nil {
				return err
			}
			f, err := formatter.NewFormatter(a.cfg.Output, layout.NewTerminalSizer())
			if err != nil {
				return err
			}

			s, err := newSession(a.cfg)
			if err != nil {
				return err
			}
			if err := s.load(cmd.Context()); err != nil {
				return err
			}

			if cmd.Flags().Changed("at") {
				err = s.seekValue(at)
			} else {
				err = s.seekIndex(index)
			}
			if err != nil {
				return err
			}

			flags.apply(s.presenters(traceTypes))
			if flags.selectID != "" && !anySelected(s.presenters(traceTypes)) {
				util.LogWarnf("No node with stable id %q at this timestamp", flags.selectID)
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: no node with stable id %q\n", flags.selectID)
			}
			return s.render(cmd.OutOrStdout(), f, traceTypes)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&index, "index", "i", 0, "Timeline position")
	cmd.Flags().Int64Var(&at, "at", 0, "Timestamp value in nanoseconds")
	cmd.Flags().StringP("output", "o", formatter.OutputTree, "Output format (tree, table, json)")
	return cmd
}

func anySelected(presenters []*viewer.Presenter) bool {
	for _, p := range presenters {
		if p.UiData().SelectedTree != nil {
			return true
		}
	}
	return false
}
