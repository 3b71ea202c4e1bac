package hierarchy

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/util"
)

const (
	layerTraceEntryName = "LayerTraceEntry"

	compositionClient = "CLIENT"
	compositionDevice = "DEVICE"
)

// SurfaceFlingerAdapter builds the layer hierarchy from parent ids
type SurfaceFlingerAdapter struct{}

func NewSurfaceFlingerAdapter() *SurfaceFlingerAdapter {
	return &SurfaceFlingerAdapter{}
}

func (a *SurfaceFlingerAdapter) TraceType() model.TraceType { return model.TraceSurfaceFlinger }

// LayerStableID is the stable id of a layer node
func LayerStableID(id int64, name string) string {
	return fmt.Sprintf("%d %s", id, name)
}

func (a *SurfaceFlingerAdapter) Build(payload model.Payload) (*Node, error) {
	entry, ok := payload.(model.LayerTraceEntry)
	if !ok {
		return nil, wrongPayload(a.TraceType(), payload)
	}

	root := &Node{
		ID:        "root",
		StableID:  layerTraceEntryName + " root",
		Name:      layerTraceEntryName,
		Kind:      layerTraceEntryName,
		IsVisible: true,
		Diff:      model.DiffNone,
		Properties: map[string]any{
			"where":    entry.Where,
			"displays": int64(len(entry.Displays)),
		},
	}

	displayByStack := make(map[int64]int64, len(entry.Displays))
	for _, d := range entry.Displays {
		displayByStack[d.LayerStack] = d.ID
	}

	nodes := make(map[int64]*Node, len(entry.Layers))
	layers := make(map[int64]model.Layer, len(entry.Layers))
	order := make([]int64, 0, len(entry.Layers))
	for _, layer := range entry.Layers {
		if _, dup := nodes[layer.ID]; dup {
			util.LogWarnf("SurfaceFlinger: duplicate layer id %d (%s) ignored", layer.ID, layer.Name)
			continue
		}
		nodes[layer.ID] = newLayerNode(layer, displayByStack)
		layers[layer.ID] = layer
		order = append(order, layer.ID)
	}

	children := make(map[int64][]int64, len(order))
	var roots []int64
	for _, id := range order {
		parent := layers[id].Parent
		if _, ok := nodes[parent]; ok && parent != id {
			children[parent] = append(children[parent], id)
		} else {
			if parent != -1 {
				util.LogDebugf("SurfaceFlinger: layer %d has missing parent %d, attached to root", id, parent)
			}
			roots = append(roots, id)
		}
	}

	byZ := func(ids []int64) {
		sort.SliceStable(ids, func(i, j int) bool {
			li, lj := layers[ids[i]], layers[ids[j]]
			if li.Z != lj.Z {
				return li.Z > lj.Z
			}
			return li.ID < lj.ID
		})
	}

	attached := make(map[int64]bool, len(order))
	var attach func(parent *Node, id int64)
	attach = func(parent *Node, id int64) {
		if attached[id] {
			return
		}
		attached[id] = true
		node := nodes[id]
		parent.Children = append(parent.Children, node)
		kids := children[id]
		byZ(kids)
		for _, kid := range kids {
			attach(node, kid)
		}
	}

	byZ(roots)
	for _, id := range roots {
		attach(root, id)
	}
	// layers on a parent cycle are unreachable from any root
	for _, id := range order {
		if !attached[id] {
			util.LogWarnf("SurfaceFlinger: layer %d is on a parent cycle, attached to root", id)
			attach(root, id)
		}
	}

	for _, id := range order {
		rel := layers[id].ZOrderRelativeOf
		if rel == -1 {
			continue
		}
		if target, ok := nodes[rel]; ok {
			nodes[id].AddChip(model.RelativeZChip)
			target.AddChip(model.RelativeZParentChip)
		} else {
			nodes[id].AddChip(model.MissingZParentChip)
		}
	}

	return root, nil
}

func newLayerNode(layer model.Layer, displayByStack map[int64]int64) *Node {
	node := &Node{
		ID:         strconv.FormatInt(layer.ID, 10),
		StableID:   LayerStableID(layer.ID, layer.Name),
		Name:       layer.Name,
		Kind:       layer.Type,
		IsVisible:  layer.IsVisible,
		DisplayID:  layer.LayerStack,
		Diff:       model.DiffNone,
		Properties: layer.Properties,
	}
	if displayID, ok := displayByStack[layer.LayerStack]; ok {
		node.DisplayID = displayID
	}
	if layer.IsVisible {
		node.AddChip(model.VisibleChip)
	}
	switch layer.CompositionType {
	case compositionClient:
		node.AddChip(model.GPUChip)
	case compositionDevice:
		node.AddChip(model.HWCChip)
	}
	return node
}
