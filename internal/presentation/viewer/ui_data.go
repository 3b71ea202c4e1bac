package viewer

import (
	"github.com/penwyp/go-winscope/internal/core/hierarchy"
	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/core/properties"
)

// Item is a reference to a hierarchy node kept across steps
type Item struct {
	StableID string `json:"stableId"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
}

// ItemOf references node
func ItemOf(node *hierarchy.Node) Item {
	return Item{StableID: node.StableID, Name: node.Name, Kind: node.Kind}
}

// Rect is the screen area of one node
type Rect struct {
	Label     string  `json:"label"`
	StableID  string  `json:"stableId"`
	DisplayID int64   `json:"displayId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	IsVisible bool    `json:"isVisible"`
}

// UiData is the complete view state of one presenter. It is replaced, never
// patched: every mutation produces a new value.
type UiData struct {
	TraceType             model.TraceType   `json:"traceType"`
	Tree                  *hierarchy.Tree   `json:"-"`
	SelectedTree          *properties.Node  `json:"selectedTree,omitempty"`
	DisplayIDs            []int64           `json:"displayIds"`
	PinnedItems           []Item            `json:"pinnedItems"`
	HighlightedItems      []string          `json:"highlightedItems"`
	HierarchyUserOptions  model.UserOptions `json:"hierarchyUserOptions"`
	PropertiesUserOptions model.UserOptions `json:"propertiesUserOptions"`
	Rects                 []Rect            `json:"rects"`
}

// HasTree distinguishes "no entry at this timestamp" from an empty tree
func (d UiData) HasTree() bool {
	return d.Tree != nil
}

// Notifier receives every new UiData
type Notifier func(UiData)
