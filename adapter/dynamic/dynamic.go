// Package dynamic adapts untyped Go trees, as produced by decoding into an
// `any` with encoding/json, yaml.v3 or goccy/go-yaml, to jsontype.Value.
//
// Numbers: json.Number is an integer when it parses as a base-10 integer and
// a number otherwise. float32 and float64 are always numbers, even when
// integral, because the decoder has already discarded the distinction;
// decode with json.Decoder.UseNumber to keep it.
//
// Map keys of other types are rendered with fmt.Sprint. When two keys render
// alike the object keeps one of them: a string key first, otherwise the key
// whose type name sorts first.
package dynamic

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/mcncl/jsontrait/jsontype"
)

var stringType = reflect.TypeFor[string]()

// Value wraps a dynamic Go value.
type Value struct {
	v any
}

// Of wraps v. Non-nil pointers are followed, except *big.Int.
func Of(v any) Value {
	if _, ok := v.(*big.Int); ok {
		return Value{v: v}
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
		v = rv.Interface()
	}
	return Value{v: v}
}

// Unwrap returns the wrapped Go value.
func (d Value) Unwrap() any {
	return d.v
}

func (d Value) AsArray() (jsontype.ArrayView[Value], bool) {
	switch v := d.v.(type) {
	case []any:
		if v != nil {
			return jsontype.SliceView(v, Of), true
		}
		return jsontype.ArrayView[Value]{}, false
	case []byte:
		return jsontype.ArrayView[Value]{}, false
	}
	rv := reflect.ValueOf(d.v)
	switch {
	case rv.Kind() == reflect.Array:
	case rv.Kind() == reflect.Slice && !rv.IsNil():
	default:
		return jsontype.ArrayView[Value]{}, false
	}
	return jsontype.NewArrayView(rv.Len(), func(i int) Value {
		return Of(rv.Index(i).Interface())
	}), true
}

func (d Value) AsBoolean() (bool, bool) {
	if b, ok := d.v.(bool); ok {
		return b, true
	}
	rv := reflect.ValueOf(d.v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

func (d Value) AsInteger() (*big.Int, bool) {
	switch v := d.v.(type) {
	case json.Number:
		i, ok := new(big.Int).SetString(string(v), 10)
		return i, ok
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return new(big.Int).Set(v), true
	}
	rv := reflect.ValueOf(d.v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	}
	return nil, false
}

// AsNull holds for nil, nil pointers, maps and slices, and for values no
// JSON kind describes (structs, channels, functions, complex numbers).
func (d Value) AsNull() bool {
	if d.v == nil {
		return true
	}
	if _, ok := d.v.(*big.Int); ok {
		return false
	}
	rv := reflect.ValueOf(d.v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	case reflect.Struct, reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return true
	}
	return false
}

func (d Value) AsNumber() (float64, bool) {
	if n, ok := d.v.(json.Number); ok {
		if _, isInt := new(big.Int).SetString(string(n), 10); isInt {
			return 0, false
		}
		return parseFloat(string(n))
	}
	rv := reflect.ValueOf(d.v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func (d Value) AsObject() (jsontype.ObjectView[Value], bool) {
	switch v := d.v.(type) {
	case map[string]any:
		if v == nil {
			return jsontype.ObjectView[Value]{}, false
		}
		return jsontype.MapView(v, Of), true
	}
	rv := reflect.ValueOf(d.v)
	if rv.Kind() != reflect.Map || rv.IsNil() {
		return jsontype.ObjectView[Value]{}, false
	}
	entries := mapEntries(rv)
	return jsontype.NewObjectView(len(entries), func(yield func(string, Value) bool) {
		for _, e := range entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}), true
}

type entry struct {
	key   string
	rank  string
	value Value
}

// mapEntries renders the keys of a map as text. Keys that render alike
// collapse to one entry: a string key wins, then the key whose type name
// sorts first.
func mapEntries(rv reflect.Value) []entry {
	res := make([]entry, 0, rv.Len())
	index := make(map[string]int, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		e := entry{key: fmt.Sprint(k.Interface()), rank: keyRank(k), value: Of(iter.Value().Interface())}
		if i, ok := index[e.key]; ok {
			if e.rank < res[i].rank {
				res[i] = e
			}
			continue
		}
		index[e.key] = len(res)
		res = append(res, e)
	}
	return res
}

func keyRank(k reflect.Value) string {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "nil"
		}
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		if k.Type() == stringType {
			return ""
		}
		return "\x00" + k.Type().String()
	}
	return k.Type().String()
}

func (d Value) AsString() (string, bool) {
	switch v := d.v.(type) {
	case string:
		return v, true
	case json.Number:
		// a malformed json.Number is only text
		if _, ok := parseFloat(string(v)); ok {
			return "", false
		}
		return string(v), true
	case []byte:
		return string(v), true
	}
	rv := reflect.ValueOf(d.v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func (d Value) Attribute(name string) (Value, bool) {
	switch v := d.v.(type) {
	case map[string]any:
		elem, ok := v[name]
		return Of(elem), ok
	case map[any]any:
		if elem, ok := v[name]; ok {
			return Of(elem), true
		}
	}
	obj, ok := d.AsObject()
	if !ok {
		return Value{}, false
	}
	for k, elem := range obj.Entries() {
		if k == name {
			return elem, true
		}
	}
	return Value{}, false
}

func (d Value) Index(i int) (Value, bool) {
	arr, ok := d.AsArray()
	if !ok {
		return Value{}, false
	}
	return arr.At(i)
}

// parseFloat accepts out of range literals as infinities.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
