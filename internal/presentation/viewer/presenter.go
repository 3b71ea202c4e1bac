package viewer

import (
	"github.com/penwyp/go-winscope/internal/core/hierarchy"
	"github.com/penwyp/go-winscope/internal/core/model"
	"github.com/penwyp/go-winscope/internal/core/properties"
	"github.com/penwyp/go-winscope/internal/util"
)

// selection is the node whose properties are shown
type selection struct {
	stableID   string
	name       string
	properties map[string]any
}

// Presenter owns the view state of one trace type. Every mutation pushes a
// fresh UiData to the notifier.
type Presenter struct {
	traceType model.TraceType
	builder   *hierarchy.Builder
	defaults  properties.DefaultTable
	notify    Notifier

	entry    *model.TraceEntry
	rawTree  *hierarchy.Tree
	prevTree *hierarchy.Tree
	tree     *hierarchy.Tree

	hierarchyOpts   model.UserOptions
	hierarchyFilter string

	selected         *selection
	selectedTree     *properties.Node
	propertiesOpts   model.UserOptions
	propertiesFilter string

	pinned      []Item
	highlighted string

	rects      []Rect
	displayIDs []int64
}

// NewPresenter creates a presenter with the default options
func NewPresenter(traceType model.TraceType, builder *hierarchy.Builder, notify Notifier) *Presenter {
	if builder == nil {
		builder = hierarchy.NewBuilder(nil)
	}
	return &Presenter{
		traceType:      traceType,
		builder:        builder,
		defaults:       properties.DefaultsFor(traceType),
		notify:         notify,
		hierarchyOpts:  DefaultHierarchyOptions(),
		propertiesOpts: DefaultPropertiesOptions(),
	}
}

// TraceType returns the trace type the presenter subscribes to
func (p *Presenter) TraceType() model.TraceType { return p.traceType }

// UiData returns the current view state
func (p *Presenter) UiData() UiData {
	highlighted := []string{}
	if p.highlighted != "" {
		highlighted = []string{p.highlighted}
	}
	return UiData{
		TraceType:             p.traceType,
		Tree:                  p.tree,
		SelectedTree:          p.selectedTree,
		DisplayIDs:            append([]int64{}, p.displayIDs...),
		PinnedItems:           append([]Item{}, p.pinned...),
		HighlightedItems:      highlighted,
		HierarchyUserOptions:  p.hierarchyOpts.Clone(),
		PropertiesUserOptions: p.propertiesOpts.Clone(),
		Rects:                 append([]Rect{}, p.rects...),
	}
}

func (p *Presenter) publish() {
	if p.notify != nil {
		p.notify(p.UiData())
	}
}

// NotifyCurrentTraceEntries replaces the presenter's entry with the
// snapshot's. Without an entry for this trace type the tree becomes absent.
func (p *Presenter) NotifyCurrentTraceEntries(snapshot model.Snapshot) {
	entry, ok := snapshot[p.traceType]
	if !ok || entry.Current == nil {
		p.entry = nil
		p.rawTree, p.prevTree, p.tree = nil, nil, nil
		p.selectedTree = nil
		p.rects, p.displayIDs = nil, nil
		p.publish()
		return
	}

	p.entry = &entry
	p.rawTree = p.buildOrNil(entry.Current)
	p.prevTree = nil
	if entry.Previous != nil {
		p.prevTree = p.buildOrNil(entry.Previous)
	}
	p.rects = rectsOf(entry.Current, displayStacks(entry.Current))
	p.displayIDs = displayIDsOf(p.rawTree)

	if p.selected != nil {
		if node, found := p.findLive(p.selected.stableID); found {
			p.selected.name = node.Name
			p.selected.properties = node.Properties
		} else {
			p.selected = nil
		}
	}

	p.rebuildHierarchy()
	p.rebuildProperties()
	p.publish()
}

// UpdateHierarchyTree stores the hierarchy options verbatim and rebuilds
func (p *Presenter) UpdateHierarchyTree(opts model.UserOptions) {
	p.hierarchyOpts = opts.Clone()
	p.rebuildHierarchy()
	p.publish()
}

// FilterHierarchyTree keeps only nodes matching query and their ancestors
func (p *Presenter) FilterHierarchyTree(query string) {
	p.hierarchyFilter = query
	p.rebuildHierarchy()
	p.publish()
}

// UpdatePinnedItems pins item once; pinning it again changes nothing
func (p *Presenter) UpdatePinnedItems(item Item) {
	for _, pinned := range p.pinned {
		if pinned.StableID == item.StableID {
			p.publish()
			return
		}
	}
	p.pinned = append(p.pinned, item)
	p.publish()
}

// UnpinItem removes a pinned item
func (p *Presenter) UnpinItem(stableID string) {
	for i, pinned := range p.pinned {
		if pinned.StableID == stableID {
			p.pinned = append(p.pinned[:i:i], p.pinned[i+1:]...)
			break
		}
	}
	p.publish()
}

// UpdateHighlightedItems highlights id, or clears the highlight when id is
// already highlighted
func (p *Presenter) UpdateHighlightedItems(id string) {
	if p.highlighted == id {
		p.highlighted = ""
	} else {
		p.highlighted = id
	}
	p.publish()
}

// NewPropertiesTree selects node and builds its properties tree
func (p *Presenter) NewPropertiesTree(node *hierarchy.Node) {
	if node == nil {
		p.selected = nil
	} else {
		p.selected = &selection{stableID: node.StableID, name: node.Name, properties: node.Properties}
	}
	p.rebuildProperties()
	p.publish()
}

// UpdatePropertiesTree stores the properties options verbatim and rebuilds
func (p *Presenter) UpdatePropertiesTree(opts model.UserOptions) {
	p.propertiesOpts = opts.Clone()
	p.rebuildProperties()
	p.publish()
}

// FilterPropertiesTree keeps only properties matching query and their
// ancestors
func (p *Presenter) FilterPropertiesTree(query string) {
	p.propertiesFilter = query
	p.rebuildProperties()
	p.publish()
}

func (p *Presenter) buildOrNil(payload model.Payload) *hierarchy.Tree {
	tree, err := p.builder.Build(payload)
	if err != nil {
		util.LogWarnf("Presenter %s: %v", p.traceType, err)
		return nil
	}
	return tree
}

func (p *Presenter) findLive(stableID string) (*hierarchy.Node, bool) {
	if p.rawTree == nil {
		return nil, false
	}
	return p.rawTree.Find(stableID)
}

func (p *Presenter) rebuildHierarchy() {
	if p.entry == nil {
		p.tree = nil
		return
	}
	tree, err := p.builder.Apply(*p.entry, p.hierarchyOpts, p.hierarchyFilter)
	if err != nil {
		util.LogWarnf("Presenter %s: %v", p.traceType, err)
		p.tree = nil
		return
	}
	p.tree = tree
}

func (p *Presenter) rebuildProperties() {
	if p.selected == nil {
		p.selectedTree = nil
		return
	}

	current := properties.Build(p.selected.name, p.selected.properties)

	if p.propertiesOpts.IsEnabled(model.OptionShowDiff) {
		var previous *properties.Node
		ref := model.NoReference
		if p.prevTree != nil {
			if prev, ok := p.prevTree.Find(p.selected.stableID); ok {
				previous = properties.Build(prev.Name, prev.Properties)
				ref = model.HasReference
			}
		}
		current = properties.Diff(current, previous, ref)
	}
	if !p.propertiesOpts.IsEnabled(model.OptionShowDefaults) {
		current = properties.HideDefaults(current, p.defaults)
	}
	if p.propertiesFilter != "" {
		current = properties.Filter(current, p.propertiesFilter)
	}
	p.selectedTree = current
}
