package viewer

import (
	"github.com/penwyp/go-winscope/internal/core/hierarchy"
	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
)

// Factory creates one presenter per trace type that has a hierarchy
type Factory struct {
	registry       *hierarchy.Registry
	hierarchyOpts  model.UserOptions
	propertiesOpts model.UserOptions
}

// NewFactory creates a factory over registry, or the default registry when nil
func NewFactory(registry *hierarchy.Registry) *Factory {
	if registry == nil {
		registry = hierarchy.DefaultRegistry()
	}
	return &Factory{registry: registry}
}

// WithOptions overrides the initial options of every created presenter.
// Nil maps keep the defaults.
func (f *Factory) WithOptions(hierarchyOpts, propertiesOpts model.UserOptions) *Factory {
	f.hierarchyOpts = hierarchyOpts.Clone()
	f.propertiesOpts = propertiesOpts.Clone()
	return f
}

// CreateViewers returns presenters in the order of traceTypes. Trace types
// without a hierarchy adapter get none.
func (f *Factory) CreateViewers(traceTypes []model.TraceType, notify Notifier) []*Presenter {
	builder := hierarchy.NewBuilder(f.registry)
	seen := make(map[model.TraceType]bool, len(traceTypes))
	var presenters []*Presenter

	for _, t := range traceTypes {
		if seen[t] {
			continue
		}
		seen[t] = true
		if _, ok := f.registry.Lookup(t); !ok || !t.HasHierarchy() {
			util.LogDebugf("ViewerFactory: no viewer for %s", t)
			continue
		}
		p := NewPresenter(t, builder, notify)
		if f.hierarchyOpts != nil {
			p.hierarchyOpts = f.hierarchyOpts.Clone()
		}
		if f.propertiesOpts != nil {
			p.propertiesOpts = f.propertiesOpts.Clone()
		}
		presenters = append(presenters, p)
	}
	return presenters
}
