package model

import (
	"github.com/bytedance/sonic"
)

// Payload is the decoded content of one trace entry. The set of
// implementations is closed: one variant per trace type.
type Payload interface {
	TraceType() TraceType
}

// TraceEntry is what a source reports for a timestamp: the active payload
// and the payload that preceded it in the same source, if any.
type TraceEntry struct {
	Current  Payload
	Previous Payload
}

// propertyAPI decodes property bags. Integers stay int64 so that 64-bit ids
// and nanosecond values survive exactly.
var propertyAPI = sonic.Config{UseInt64: true}.Froze()

// Snapshot maps each trace type to its entry at one global timestamp.
// Trace types without an entry at that timestamp are absent.
type Snapshot map[TraceType]TraceEntry

// ============================================================
// SurfaceFlinger
// ============================================================

// LayerTraceEntry is one SurfaceFlinger dump: a flat list of layers whose
// hierarchy is given by parent ids
type LayerTraceEntry struct {
	ElapsedNs int64     `json:"elapsedNanos"`
	Where     string    `json:"where,omitempty"`
	Displays  []Display `json:"displays"`
	Layers    []Layer   `json:"layers"`
}

func (LayerTraceEntry) TraceType() TraceType { return TraceSurfaceFlinger }

// Display is a physical or virtual display known to SurfaceFlinger
type Display struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	LayerStack int64  `json:"layerStack"`
	Width      int32  `json:"width"`
	Height     int32  `json:"height"`
}

// Bounds is an axis-aligned screen rectangle
type Bounds struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Layer is one SurfaceFlinger layer. Parent and ZOrderRelativeOf are -1
// when unset.
type Layer struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Parent           int64          `json:"parent"`
	Type             string         `json:"type"`
	Z                int32          `json:"z"`
	ZOrderRelativeOf int64          `json:"zOrderRelativeOf"`
	IsVisible        bool           `json:"isVisible"`
	LayerStack       int64          `json:"layerStack"`
	CompositionType  string         `json:"compositionType,omitempty"`
	Bounds           *Bounds        `json:"bounds,omitempty"`
	Properties       map[string]any `json:"-"`
}

func (l *Layer) UnmarshalJSON(data []byte) error {
	type layerAlias Layer
	decoded := layerAlias{Parent: -1, ZOrderRelativeOf: -1}
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var props map[string]any
	if err := propertyAPI.Unmarshal(data, &props); err != nil {
		return err
	}
	*l = Layer(decoded)
	l.Properties = props
	return nil
}

// ============================================================
// WindowManager
// ============================================================

// WindowManagerState is one WindowManager dump rooted at the window
// container hierarchy
type WindowManagerState struct {
	ElapsedNs  int64           `json:"elapsedNanos"`
	FocusedApp string          `json:"focusedApp,omitempty"`
	Root       WindowContainer `json:"root"`
}

func (WindowManagerState) TraceType() TraceType { return TraceWindowManager }

// WindowContainer is a display, task, activity or window
type WindowContainer struct {
	HashCode   string            `json:"hashCode"`
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	IsVisible  bool              `json:"isVisible"`
	DisplayID  int64             `json:"displayId"`
	Children   []WindowContainer `json:"children,omitempty"`
	Properties map[string]any    `json:"-"`
}

func (w *WindowContainer) UnmarshalJSON(data []byte) error {
	type containerAlias WindowContainer
	var decoded containerAlias
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var props map[string]any
	if err := propertyAPI.Unmarshal(data, &props); err != nil {
		return err
	}
	delete(props, "children")
	*w = WindowContainer(decoded)
	w.Properties = props
	return nil
}

// ============================================================
// Transactions
// ============================================================

// TransactionsEntry holds the transactions applied in one vsync
type TransactionsEntry struct {
	ElapsedNs    int64         `json:"elapsedNanos"`
	VsyncID      int64         `json:"vsyncId"`
	Transactions []Transaction `json:"transactions"`
}

func (TransactionsEntry) TraceType() TraceType { return TraceTransactions }

// Transaction is a batch of layer changes sent by one process
type Transaction struct {
	ID           int64         `json:"id"`
	PID          int32         `json:"pid"`
	UID          int32         `json:"uid"`
	LayerChanges []LayerChange `json:"layerChanges"`
}

// LayerChange is the set of properties one transaction changed on a layer
type LayerChange struct {
	LayerID    int64          `json:"layerId"`
	What       string         `json:"what"`
	Properties map[string]any `json:"-"`
}

func (c *LayerChange) UnmarshalJSON(data []byte) error {
	type changeAlias LayerChange
	var decoded changeAlias
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var props map[string]any
	if err := propertyAPI.Unmarshal(data, &props); err != nil {
		return err
	}
	*c = LayerChange(decoded)
	c.Properties = props
	return nil
}

// ============================================================
// Screen recording
// ============================================================

// ScreenRecordingFrame references one frame of a screen recording
type ScreenRecordingFrame struct {
	ElapsedNs  int64  `json:"elapsedNanos"`
	FrameIndex int    `json:"frameIndex"`
	VideoPath  string `json:"videoPath,omitempty"`
}

func (ScreenRecordingFrame) TraceType() TraceType { return TraceScreenRecording }
