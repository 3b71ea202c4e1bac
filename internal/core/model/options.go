package model

// Option names understood by the tree transforms
const (
	OptionShowDiff      = "showDiff"
	OptionSimplifyNames = "simplifyNames"
	OptionOnlyVisible   = "onlyVisible"
	OptionFlat          = "flat"
	OptionShowDefaults  = "showDefaults"
)

// UserOption is one toggle shown to the operator
type UserOption struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Tooltip string `json:"tooltip,omitempty"`
}

// UserOptions maps option keys to their state
type UserOptions map[string]UserOption

// IsEnabled returns false for options that are absent
func (o UserOptions) IsEnabled(key string) bool {
	opt, ok := o[key]
	return ok && opt.Enabled
}

// Clone returns an independent copy
func (o UserOptions) Clone() UserOptions {
	if o == nil {
		return nil
	}
	out := make(UserOptions, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// With returns a copy with one option's enabled flag replaced, creating
// the option if needed
func (o UserOptions) With(key string, enabled bool) UserOptions {
	out := o.Clone()
	if out == nil {
		out = make(UserOptions)
	}
	opt := out[key]
	if opt.Name == "" {
		opt.Name = key
	}
	opt.Enabled = enabled
	out[key] = opt
	return out
}
