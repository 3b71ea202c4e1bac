package hierarchy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
)

// Adapter maps one payload variant to a node hierarchy
type Adapter interface {
	TraceType() model.TraceType
	Build(payload model.Payload) (*Node, error)
}

// Registry holds one adapter per trace type
type Registry struct {
	mu       sync.RWMutex
	adapters map[model.TraceType]Adapter
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[model.TraceType]Adapter)}
}

// DefaultRegistry returns a registry with every built-in adapter
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewSurfaceFlingerAdapter())
	r.Register(NewWindowManagerAdapter())
	r.Register(NewTransactionsAdapter())
	return r
}

// Register adds an adapter, replacing any existing one for its trace type
func (r *Registry) Register(adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[adapter.TraceType()]; exists {
		util.LogDebugf("Registry: Replaced adapter for %s", adapter.TraceType())
	}
	r.adapters[adapter.TraceType()] = adapter
}

// Lookup returns the adapter for a trace type
func (r *Registry) Lookup(traceType model.TraceType) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[traceType]
	return adapter, ok
}

// TraceTypes lists the registered trace types in order
func (r *Registry) TraceTypes() []model.TraceType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]model.TraceType, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Build converts a payload through the adapter registered for its type
func (r *Registry) Build(payload model.Payload) (*Tree, error) {
	if payload == nil {
		return nil, fmt.Errorf("nil payload")
	}
	adapter, ok := r.Lookup(payload.TraceType())
	if !ok {
		return nil, fmt.Errorf("no hierarchy adapter for %s: %w", payload.TraceType(), model.ErrUnknownTraceType)
	}
	root, err := adapter.Build(payload)
	if err != nil {
		return nil, fmt.Errorf("building %s hierarchy: %w", payload.TraceType(), err)
	}
	return NewTree(root), nil
}

func wrongPayload(want model.TraceType, got model.Payload) error {
	return fmt.Errorf("%s adapter cannot build %T", want, got)
}
