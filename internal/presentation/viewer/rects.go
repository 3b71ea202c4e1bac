package viewer

import (
	"sort"

	"github.com/penwyp/go-winscope/internal/core/hierarchy"
	"github.com/penwyp/go-winscope/internal/core/model"
)

// rectsOf extracts the screen areas of a payload. Only SurfaceFlinger
// layers carry bounds.
func rectsOf(payload model.Payload, displayByStack map[int64]int64) []Rect {
	entry, ok := payload.(model.LayerTraceEntry)
	if !ok {
		return nil
	}
	var rects []Rect
	for _, layer := range entry.Layers {
		if layer.Bounds == nil {
			continue
		}
		displayID := layer.LayerStack
		if id, ok := displayByStack[layer.LayerStack]; ok {
			displayID = id
		}
		b := layer.Bounds
		rects = append(rects, Rect{
			Label:     layer.Name,
			StableID:  hierarchy.LayerStableID(layer.ID, layer.Name),
			DisplayID: displayID,
			X:         b.Left,
			Y:         b.Top,
			W:         b.Right - b.Left,
			H:         b.Bottom - b.Top,
			IsVisible: layer.IsVisible,
		})
	}
	return rects
}

func displayStacks(payload model.Payload) map[int64]int64 {
	entry, ok := payload.(model.LayerTraceEntry)
	if !ok {
		return nil
	}
	out := make(map[int64]int64, len(entry.Displays))
	for _, d := range entry.Displays {
		out[d.LayerStack] = d.ID
	}
	return out
}

// displayIDsOf collects the sorted display ids of every node below the root
func displayIDsOf(tree *hierarchy.Tree) []int64 {
	if tree == nil || tree.Root == nil {
		return nil
	}
	seen := make(map[int64]bool)
	for _, child := range tree.Root.Children {
		child.Walk(func(n *hierarchy.Node, _ int) bool {
			seen[n.DisplayID] = true
			return true
		})
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
