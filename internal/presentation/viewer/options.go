package viewer

import (
	"github.com/penwyp/go-winscope/internal/core/model"
)

// DefaultHierarchyOptions are the hierarchy toggles a presenter starts with
func DefaultHierarchyOptions() model.UserOptions {
	return model.UserOptions{
		model.OptionShowDiff:      {Name: "Show diff", Enabled: false},
		model.OptionSimplifyNames: {Name: "Simplify names", Enabled: true},
		model.OptionOnlyVisible:   {Name: "Only visible", Enabled: false},
		model.OptionFlat:          {Name: "Flat", Enabled: false},
	}
}

// DefaultPropertiesOptions are the properties toggles a presenter starts with
func DefaultPropertiesOptions() model.UserOptions {
	return model.UserOptions{
		model.OptionShowDiff: {Name: "Show diff", Enabled: false},
		model.OptionShowDefaults: {
			Name:    "Show defaults",
			Enabled: false,
			Tooltip: "If checked, shows the value of all properties. Otherwise, hides all properties whose value is the default for its data type.",
		},
	}
}
