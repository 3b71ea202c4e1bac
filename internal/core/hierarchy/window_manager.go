package hierarchy

import (
	"github.com/penwyp/go-winscope/internal/core/model"
)

const windowManagerStateName = "WindowManagerState"

// WindowManagerAdapter mirrors the window container nesting
type WindowManagerAdapter struct{}

func NewWindowManagerAdapter() *WindowManagerAdapter {
	return &WindowManagerAdapter{}
}

func (a *WindowManagerAdapter) TraceType() model.TraceType { return model.TraceWindowManager }

// WindowStableID is the stable id of a window container node
func WindowStableID(kind, hashCode, name string) string {
	return kind + " " + hashCode + " " + name
}

func (a *WindowManagerAdapter) Build(payload model.Payload) (*Node, error) {
	state, ok := payload.(model.WindowManagerState)
	if !ok {
		return nil, wrongPayload(a.TraceType(), payload)
	}

	root := &Node{
		ID:         "root",
		StableID:   windowManagerStateName + " root",
		Name:       windowManagerStateName,
		Kind:       windowManagerStateName,
		IsVisible:  true,
		Diff:       model.DiffNone,
		Properties: map[string]any{"focusedApp": state.FocusedApp},
	}
	if state.Root.HashCode != "" || state.Root.Name != "" {
		root.Children = []*Node{newWindowNode(state.Root)}
	}
	return root, nil
}

func newWindowNode(w model.WindowContainer) *Node {
	node := &Node{
		ID:         w.HashCode,
		StableID:   WindowStableID(w.Kind, w.HashCode, w.Name),
		Name:       w.Name,
		Kind:       w.Kind,
		IsVisible:  w.IsVisible,
		DisplayID:  w.DisplayID,
		Diff:       model.DiffNone,
		Properties: w.Properties,
	}
	if w.IsVisible {
		node.AddChip(model.VisibleChip)
	}
	for _, child := range w.Children {
		node.Children = append(node.Children, newWindowNode(child))
	}
	return node
}
