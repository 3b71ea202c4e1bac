package properties

import (
	"github.com/penwyp/go-winscope/internal/core/model"
)

// DefaultTable lists the values treated as defaults. A key override
// replaces the kind default for that key; keys in Shown are never defaults.
type DefaultTable struct {
	Kinds map[Kind]Value
	Keys  map[string]Value
	Shown map[string]bool
}

// IsDefault reports whether v is the default for key
func (t DefaultTable) IsDefault(key string, v Value) bool {
	if t.Shown[key] {
		return false
	}
	if override, ok := t.Keys[key]; ok {
		return v.Equal(override)
	}
	def, ok := t.Kinds[v.Kind]
	return ok && v.Equal(def)
}

func kindDefaults() map[Kind]Value {
	return map[Kind]Value{
		KindNull:   {Kind: KindNull},
		KindBool:   {Kind: KindBool},
		KindNumber: {Kind: KindNumber},
		KindString: {Kind: KindString},
		KindList:   {Kind: KindList},
		KindObject: {Kind: KindObject},
	}
}

func number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// DefaultsFor returns the default table for a trace type's properties
func DefaultsFor(traceType model.TraceType) DefaultTable {
	table := DefaultTable{
		Kinds: kindDefaults(),
		Keys:  map[string]Value{},
		Shown: map[string]bool{},
	}
	switch traceType {
	case model.TraceSurfaceFlinger:
		table.Keys["parent"] = number(-1)
		table.Keys["zOrderRelativeOf"] = number(-1)
		table.Keys["alpha"] = number(1)
		table.Shown["id"] = true
	case model.TraceWindowManager:
		table.Keys["alpha"] = number(1)
		table.Shown["displayId"] = true
	case model.TraceTransactions:
		table.Shown["layerId"] = true
	}
	return table
}
