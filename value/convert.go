package value

import (
	"math/big"

	"github.com/mcncl/jsontrait/jsontype"
)

// From converts any jsontype value into an owned canonical Value.
//
// The conversion recurses through arrays and objects, so its depth is that
// of the input. Converting a Value returns an equal Value.
func From[T jsontype.Value[T]](src T) Value {
	switch jsontype.Classify(src) {
	case jsontype.Array:
		elems, _ := src.AsArray()
		list := make([]Value, 0, elems.Len())
		for elem := range elems.Values() {
			list = append(list, From(elem))
		}
		return Value{kind: jsontype.Array, list: list}
	case jsontype.Boolean:
		b, _ := src.AsBoolean()
		return Bool(b)
	case jsontype.Integer:
		i, _ := src.AsInteger()
		if i == nil {
			i = new(big.Int)
		}
		return Value{kind: jsontype.Integer, i: i}
	case jsontype.Null:
		return Null()
	case jsontype.Number:
		f, _ := src.AsNumber()
		return Float(f)
	case jsontype.Object:
		entries, _ := src.AsObject()
		obj := make(map[string]Value, entries.Len())
		for k, child := range entries.Entries() {
			obj[k] = From(child)
		}
		return Value{kind: jsontype.Object, obj: obj}
	default:
		s, _ := src.AsString()
		return String(s)
	}
}

// Interface returns v as a plain Go tree: nil, bool, string, float64,
// int64 (or *big.Int when out of range), []any and map[string]any.
func (v Value) Interface() any {
	switch v.Kind() {
	case jsontype.Array:
		out := make([]any, len(v.list))
		for i, elem := range v.list {
			out[i] = elem.Interface()
		}
		return out
	case jsontype.Boolean:
		return v.b
	case jsontype.Integer:
		if v.i.IsInt64() {
			return v.i.Int64()
		}
		return new(big.Int).Set(v.i)
	case jsontype.Number:
		return v.f
	case jsontype.Object:
		out := make(map[string]any, len(v.obj))
		for k, child := range v.obj {
			out[k] = child.Interface()
		}
		return out
	case jsontype.String:
		return v.s
	}
	return nil
}

// Equal reports whether v and other are the same tree. Integers compare by
// value, numbers with ==, so NaN is never equal to itself.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case jsontype.Array:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case jsontype.Boolean:
		return v.b == other.b
	case jsontype.Integer:
		return v.i.Cmp(other.i) == 0
	case jsontype.Number:
		return v.f == other.f
	case jsontype.Object:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, child := range v.obj {
			o, ok := other.obj[k]
			if !ok || !child.Equal(o) {
				return false
			}
		}
		return true
	case jsontype.String:
		return v.s == other.s
	}
	return true
}
