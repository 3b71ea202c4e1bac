package commands

import (
	"fmt"
	"io"

	"github.com/penwyp/go-winscope/internal/presentation/formatter"
	"github.com/penwyp/go-winscope/internal/presentation/interaction"
	"github.com/penwyp/go-winscope/internal/presentation/layout"
	"github.com/penwyp/go-winscope/internal/util"
	"github.com/spf13/cobra"
)

// stepper applies keyboard commands to a session. Presenter state such as
// pins, filters and the selection carries over between steps.
type stepper struct {
	s        *session
	f        formatter.Formatter
	showHelp bool
	status   string
}

// handle executes one command and reports whether the stepper should quit
func (st *stepper) handle(c interaction.Command) bool {
	st.status = ""
	switch c.Action {
	case interaction.ActionQuit:
		return true
	case interaction.ActionNext:
		if !st.s.moveTo(st.s.cursor.Next()) {
			st.status = "at the last timestamp"
		}
	case interaction.ActionPrev:
		if !st.s.moveTo(st.s.cursor.Prev()) {
			st.status = "at the first timestamp"
		}
	case interaction.ActionFirst:
		st.s.moveTo(st.s.cursor.First())
	case interaction.ActionLast:
		st.s.moveTo(st.s.cursor.Last())
	case interaction.ActionToggleOption:
		for _, p := range st.s.presenters(nil) {
			opts := p.UiData().HierarchyUserOptions
			p.UpdateHierarchyTree(opts.With(c.Option, !opts.IsEnabled(c.Option)))
		}
		st.status = "toggled " + c.Option
	case interaction.ActionHelp:
		st.showHelp = !st.showHelp
	}
	return false
}

func (st *stepper) draw(w io.Writer) error {
	fmt.Fprint(w, util.ClearScreen+util.MoveCursorHome)
	if err := st.s.render(w, st.f, nil); err != nil {
		return err
	}
	if st.showHelp {
		fmt.Fprintln(w)
		fmt.Fprintln(w, interaction.HelpText)
	}
	if st.status != "" {
		fmt.Fprintln(w, st.status)
	}
	return nil
}

func newStepCmd(a *app) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Step through the timeline with the keyboard",
		Long: `Render the hierarchies at the first timestamp and move through the timeline
with the keyboard. Press ? for the key bindings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(a.cfg)
			if err != nil {
				return err
			}
			if err := s.load(cmd.Context()); err != nil {
				return err
			}
			if err := s.seekIndex(0); err != nil {
				return err
			}
			flags.apply(s.presenters(nil))

			st := &stepper{
				s: s,
				f: formatter.NewTreeFormatter(layout.NewTerminalSizer()),
			}

			kr, err := interaction.NewKeyboardReader()
			if err != nil {
				return fmt.Errorf("keyboard input unavailable: %w", err)
			}
			defer kr.Close()

			out := cmd.OutOrStdout()
			fmt.Fprint(out, util.HideCursor)
			defer fmt.Fprint(out, util.ShowCursor)

			if err := st.draw(out); err != nil {
				return err
			}
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case ev := <-kr.Events():
					if st.handle(interaction.CommandFor(ev)) {
						return nil
					}
					if err := st.draw(out); err != nil {
						return err
					}
				}
			}
		},
	}

	flags.register(cmd)
	return cmd
}
