package fixtures

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-winscope/internal/core/model"
)

// Clock is the timestamp pair written on an entry line
type Clock struct {
	ElapsedNs int64
	RealNs    int64
	HasReal   bool
}

// At returns a clock carrying only elapsed time
func At(elapsedNs int64) Clock {
	return Clock{ElapsedNs: elapsedNs}
}

// AtReal returns a clock carrying both elapsed and real time
func AtReal(elapsedNs, realNs int64) Clock {
	return Clock{ElapsedNs: elapsedNs, RealNs: realNs, HasReal: true}
}

func (c Clock) apply(record map[string]any) map[string]any {
	record["elapsedNanos"] = c.ElapsedNs
	if c.HasReal {
		record["realNanos"] = c.RealNs
	}
	return record
}

// LayerSpec describes one SurfaceFlinger layer. Parent 0 means no parent.
type LayerSpec struct {
	ID          int64
	Parent      int64
	Name        string
	Visible     bool
	Z           int32
	RelativeOf  int64
	Composition string
	LayerStack  int64
	Bounds      *model.Bounds
	Extra       map[string]any
}

func (l LayerSpec) record() map[string]any {
	parent := l.Parent
	if parent == 0 {
		parent = -1
	}
	relative := l.RelativeOf
	if relative == 0 {
		relative = -1
	}
	record := map[string]any{
		"id":               l.ID,
		"name":             l.Name,
		"parent":           parent,
		"type":             "BufferStateLayer",
		"z":                l.Z,
		"zOrderRelativeOf": relative,
		"isVisible":        l.Visible,
		"layerStack":       l.LayerStack,
	}
	if l.Composition != "" {
		record["compositionType"] = l.Composition
	}
	if l.Bounds != nil {
		record["bounds"] = map[string]any{
			"left":   l.Bounds.Left,
			"top":    l.Bounds.Top,
			"right":  l.Bounds.Right,
			"bottom": l.Bounds.Bottom,
		}
	}
	for k, v := range l.Extra {
		record[k] = v
	}
	return record
}

// WindowSpec describes one WindowManager container and its children
type WindowSpec struct {
	HashCode  string
	Name      string
	Kind      string
	Visible   bool
	DisplayID int64
	Extra     map[string]any
	Children  []WindowSpec
}

func (w WindowSpec) record() map[string]any {
	record := map[string]any{
		"hashCode":  w.HashCode,
		"name":      w.Name,
		"kind":      w.Kind,
		"isVisible": w.Visible,
		"displayId": w.DisplayID,
	}
	for k, v := range w.Extra {
		record[k] = v
	}
	if len(w.Children) > 0 {
		children := make([]map[string]any, len(w.Children))
		for i, child := range w.Children {
			children[i] = child.record()
		}
		record["children"] = children
	}
	return record
}

// LayerChangeSpec describes one layer change inside a transaction
type LayerChangeSpec struct {
	LayerID int64
	What    string
	Extra   map[string]any
}

// TransactionSpec describes one transaction
type TransactionSpec struct {
	ID      int64
	PID     int32
	UID     int32
	Changes []LayerChangeSpec
}

func (t TransactionSpec) record() map[string]any {
	changes := make([]map[string]any, len(t.Changes))
	for i, c := range t.Changes {
		change := map[string]any{"layerId": c.LayerID, "what": c.What}
		for k, v := range c.Extra {
			change[k] = v
		}
		changes[i] = change
	}
	return map[string]any{
		"id":           t.ID,
		"pid":          t.PID,
		"uid":          t.UID,
		"layerChanges": changes,
	}
}

// TraceBuilder assembles a trace file line by line
type TraceBuilder struct {
	traceType string
	lookup    string
	lines     []map[string]any
}

// NewTraceBuilder starts a trace of the given type
func NewTraceBuilder(traceType model.TraceType) *TraceBuilder {
	return &TraceBuilder{traceType: traceType.String()}
}

// Lookup sets the lookup policy written in the header
func (b *TraceBuilder) Lookup(policy string) *TraceBuilder {
	b.lookup = policy
	return b
}

// AddLayers appends a SurfaceFlinger entry
func (b *TraceBuilder) AddLayers(clock Clock, layers ...LayerSpec) *TraceBuilder {
	records := make([]map[string]any, len(layers))
	for i, l := range layers {
		records[i] = l.record()
	}
	b.lines = append(b.lines, clock.apply(map[string]any{
		"displays": []map[string]any{
			{"id": 0, "name": "Built-in Screen", "layerStack": 0, "width": 1080, "height": 2400},
		},
		"layers": records,
	}))
	return b
}

// AddWindows appends a WindowManager entry
func (b *TraceBuilder) AddWindows(clock Clock, focused string, root WindowSpec) *TraceBuilder {
	b.lines = append(b.lines, clock.apply(map[string]any{
		"focusedApp": focused,
		"root":       root.record(),
	}))
	return b
}

// AddTransactions appends a Transactions entry
func (b *TraceBuilder) AddTransactions(clock Clock, vsyncID int64, txs ...TransactionSpec) *TraceBuilder {
	records := make([]map[string]any, len(txs))
	for i, tx := range txs {
		records[i] = tx.record()
	}
	b.lines = append(b.lines, clock.apply(map[string]any{
		"vsyncId":      vsyncID,
		"transactions": records,
	}))
	return b
}

// AddFrame appends a screen recording frame
func (b *TraceBuilder) AddFrame(clock Clock, index int) *TraceBuilder {
	b.lines = append(b.lines, clock.apply(map[string]any{
		"frameIndex": index,
		"videoPath":  "screen.mp4",
	}))
	return b
}

// Bytes renders the trace as JSON lines
func (b *TraceBuilder) Bytes() []byte {
	var buf bytes.Buffer
	header := map[string]any{"traceType": b.traceType}
	if b.lookup != "" {
		header["lookup"] = b.lookup
	}
	writeLine(&buf, header)
	for _, line := range b.lines {
		writeLine(&buf, line)
	}
	return buf.Bytes()
}

// WriteFile writes the trace to path, creating parent directories
func (b *TraceBuilder) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, b.Bytes(), 0644)
}

func writeLine(buf *bytes.Buffer, record map[string]any) {
	data, err := sonic.Marshal(record)
	if err != nil {
		panic(fmt.Sprintf("fixture record is not serializable: %v", err))
	}
	buf.Write(data)
	buf.WriteByte('\n')
}

// VisibilityLayers returns eight layers of which seven are visible. The
// invisible one is a leaf.
func VisibilityLayers() []LayerSpec {
	return []LayerSpec{
		{ID: 1, Name: "Display 0#1", Visible: true},
		{ID: 2, Parent: 1, Name: "TaskBar#2", Visible: true, Z: 2},
		{ID: 3, Parent: 1, Name: "StatusBar#3", Visible: true, Z: 3},
		{ID: 4, Parent: 1, Name: "App#4", Visible: true, Z: 1},
		{ID: 5, Parent: 4, Name: "ActivityRecord#5", Visible: true},
		{ID: 6, Parent: 5, Name: "Surface#6", Visible: true, Composition: "DEVICE"},
		{ID: 7, Parent: 4, Name: "Popup#7", Visible: true, Z: 1},
		{ID: 8, Parent: 1, Name: "Hidden#8", Visible: false},
	}
}

// WallpaperLayerCount is the number of layers in WallpaperLayers
const WallpaperLayerCount = 94

// WallpaperRootCount is the number of WallpaperLayers without a parent
const WallpaperRootCount = 3

// WallpaperMatches is the number of WallpaperLayers named after a wallpaper
const WallpaperMatches = 4

// WallpaperLayers returns a nested hierarchy of 94 layers where four,
// spread across different depths, are wallpaper layers
func WallpaperLayers() []LayerSpec {
	wallpapers := map[int]bool{7: true, 23: true, 51: true, 90: true}
	layers := make([]LayerSpec, 0, WallpaperLayerCount)
	for i := 0; i < WallpaperLayerCount; i++ {
		spec := LayerSpec{
			ID:      int64(i + 1),
			Name:    fmt.Sprintf("Layer#%d", i+1),
			Visible: i%5 != 0,
			Z:       int32(i % 7),
		}
		if i >= WallpaperRootCount {
			spec.Parent = int64((i-WallpaperRootCount)/3 + 1)
		}
		if wallpapers[i] {
			spec.Name = fmt.Sprintf("com.android.systemui.ImageWallpaper#%d", i+1)
		}
		layers = append(layers, spec)
	}
	return layers
}

// LayerEntry returns a decoded SurfaceFlinger entry, as the parser would
// produce it from the same layers
func LayerEntry(elapsedNs int64, layers ...LayerSpec) model.LayerTraceEntry {
	entry := model.LayerTraceEntry{
		ElapsedNs: elapsedNs,
		Displays:  []model.Display{{ID: 0, Name: "Built-in Screen", Width: 1080, Height: 2400}},
	}
	for _, l := range layers {
		var layer model.Layer
		decode(l.record(), &layer)
		entry.Layers = append(entry.Layers, layer)
	}
	return entry
}

// WindowState returns a decoded WindowManager entry
func WindowState(elapsedNs int64, focused string, root WindowSpec) model.WindowManagerState {
	var container model.WindowContainer
	decode(root.record(), &container)
	return model.WindowManagerState{ElapsedNs: elapsedNs, FocusedApp: focused, Root: container}
}

func decode(record map[string]any, out any) {
	data, err := sonic.Marshal(record)
	if err != nil {
		panic(fmt.Sprintf("fixture record is not serializable: %v", err))
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("fixture record does not decode: %v", err))
	}
}
