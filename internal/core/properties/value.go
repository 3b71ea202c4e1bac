package properties

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the type of a property value
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a decoded property value. Object keys are kept sorted. Integral
// numbers are held exactly in Int.
type Value struct {
	Kind     Kind             `json:"kind"`
	Bool     bool             `json:"bool,omitempty"`
	Number   float64          `json:"number,omitempty"`
	Int      int64            `json:"int,omitempty"`
	Integral bool             `json:"integral,omitempty"`
	Str      string           `json:"string,omitempty"`
	Items    []Value          `json:"items,omitempty"`
	Keys     []string         `json:"keys,omitempty"`
	Fields   map[string]Value `json:"fields,omitempty"`
}

// FromAny converts a decoded JSON value
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Value{Kind: KindNull}
	case bool:
		return Value{Kind: KindBool, Bool: val}
	case float64:
		return Value{Kind: KindNumber, Number: val}
	case float32:
		return Value{Kind: KindNumber, Number: float64(val)}
	case int:
		return intValue(int64(val))
	case int32:
		return intValue(int64(val))
	case int64:
		return intValue(val)
	case uint64:
		if val > math.MaxInt64 {
			return Value{Kind: KindNumber, Number: float64(val)}
		}
		return intValue(int64(val))
	case string:
		return Value{Kind: KindString, Str: val}
	case []any:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FromAny(item)
		}
		return Value{Kind: KindList, Items: items}
	case map[string]any:
		return objectValue(val)
	default:
		return Value{Kind: KindString, Str: fmt.Sprint(val)}
	}
}

func intValue(n int64) Value {
	return Value{Kind: KindNumber, Number: float64(n), Int: n, Integral: true}
}

func objectValue(m map[string]any) Value {
	keys := make([]string, 0, len(m))
	fields := make(map[string]Value, len(m))
	for k, item := range m {
		keys = append(keys, k)
		fields[k] = FromAny(item)
	}
	sort.Strings(keys)
	return Value{Kind: KindObject, Keys: keys, Fields: fields}
}

// IsComposite reports whether the value is a non-empty list or object
func (v Value) IsComposite() bool {
	return (v.Kind == KindList && len(v.Items) > 0) || (v.Kind == KindObject && len(v.Keys) > 0)
}

// Equal compares values structurally
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindNumber:
		if v.Integral && other.Integral {
			return v.Int == other.Int
		}
		return v.Number == other.Number
	case KindString:
		return v.Str == other.Str
	case KindList:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.Keys) != len(other.Keys) {
			return false
		}
		for _, k := range v.Keys {
			o, ok := other.Fields[k]
			if !ok || !v.Fields[k].Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		if v.Integral {
			return strconv.FormatInt(v.Int, 10)
		}
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindList:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		parts := make([]string, len(v.Keys))
		for i, k := range v.Keys {
			parts[i] = k + ": " + v.Fields[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}
