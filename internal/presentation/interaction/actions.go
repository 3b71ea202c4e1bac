package interaction

import "github.com/penwyp/go-winscope/internal/core/model"

// Action is what the stepper does in response to a key
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionNext
	ActionPrev
	ActionFirst
	ActionLast
	ActionToggleOption
	ActionHelp
)

// Command is a decoded key press. Option is set for ActionToggleOption.
type Command struct {
	Action Action
	Option string
}

var optionKeys = map[rune]string{
	'd': model.OptionShowDiff,
	'f': model.OptionFlat,
	'v': model.OptionOnlyVisible,
	's': model.OptionSimplifyNames,
}

// CommandFor maps a key event to a stepper command
func CommandFor(ev KeyEvent) Command {
	switch ev.Type {
	case KeyRight, KeyDown:
		return Command{Action: ActionNext}
	case KeyLeft, KeyUp:
		return Command{Action: ActionPrev}
	case KeyHome:
		return Command{Action: ActionFirst}
	case KeyEnd:
		return Command{Action: ActionLast}
	case KeyEscape:
		return Command{Action: ActionQuit}
	}

	switch ev.Key {
	case keyCtrlC, 'q', 'Q':
		return Command{Action: ActionQuit}
	case 'n', 'l', ' ':
		return Command{Action: ActionNext}
	case 'p', 'h':
		return Command{Action: ActionPrev}
	case 'g':
		return Command{Action: ActionFirst}
	case 'G':
		return Command{Action: ActionLast}
	case '?':
		return Command{Action: ActionHelp}
	}
	if opt, ok := optionKeys[ev.Key]; ok {
		return Command{Action: ActionToggleOption, Option: opt}
	}
	return Command{Action: ActionNone}
}

// HelpText lists the stepper key bindings
const HelpText = "n/→ next  p/← prev  g first  G last  d diff  f flat  v visible  s simplify  q quit"
