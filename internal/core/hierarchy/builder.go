package hierarchy

import (
	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
)

// Builder derives presentable trees from trace entries
type Builder struct {
	registry *Registry
}

// NewBuilder creates a builder over registry, or the default registry when nil
func NewBuilder(registry *Registry) *Builder {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Builder{registry: registry}
}

// Build converts one payload into a tree without any transform
func (b *Builder) Build(payload model.Payload) (*Tree, error) {
	return b.registry.Build(payload)
}

// Apply builds the current entry's tree and applies, in order: diff
// against the previous entry (showDiff), flatten (flat), visibility
// filter (onlyVisible), text filter, and name simplification
// (simplifyNames). Options that are absent count as disabled.
func (b *Builder) Apply(entry model.TraceEntry, opts model.UserOptions, query string) (*Tree, error) {
	tree, err := b.Build(entry.Current)
	if err != nil {
		return nil, err
	}

	if opts.IsEnabled(model.OptionShowDiff) {
		var previous *Tree
		if entry.Previous != nil {
			previous, err = b.Build(entry.Previous)
			if err != nil {
				util.LogWarnf("Hierarchy: previous entry unusable as diff reference: %v", err)
				previous = nil
			}
		}
		tree = Diff(tree, previous)
	}
	if opts.IsEnabled(model.OptionFlat) {
		tree = Flatten(tree)
	}
	if opts.IsEnabled(model.OptionOnlyVisible) {
		tree = FilterVisible(tree)
	}
	if query != "" {
		tree = FilterText(tree, query)
	}
	if opts.IsEnabled(model.OptionSimplifyNames) {
		tree = SimplifyNames(tree)
	}
	return tree, nil
}
