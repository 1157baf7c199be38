// Package value provides Value, an owned canonical JSON tree that any
// jsontype.Value can be converted into.
//
// A Value shares no memory with the representation it was built from, so it
// can be stored, compared with Equal or handed across representations.
// Value itself implements jsontype.Value[Value].
package value

import (
	"maps"
	"math/big"

	"github.com/mcncl/jsontrait/jsontype"
)

// Value is an immutable canonical JSON value. The zero Value is null.
type Value struct {
	kind jsontype.Kind
	b    bool
	s    string
	i    *big.Int
	f    float64
	list []Value
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: jsontype.Null}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: jsontype.Boolean, b: b}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: jsontype.String, s: s}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: jsontype.Integer, i: big.NewInt(i)}
}

// BigInt returns an integer value holding a copy of i. A nil i is zero.
// Integers of any width are accepted, including ones beyond 128 bits.
func BigInt(i *big.Int) Value {
	c := new(big.Int)
	if i != nil {
		c.Set(i)
	}
	return Value{kind: jsontype.Integer, i: c}
}

// Float returns a number value.
func Float(f float64) Value {
	return Value{kind: jsontype.Number, f: f}
}

// List returns an array value holding copies of elems.
func List(elems ...Value) Value {
	list := make([]Value, len(elems))
	copy(list, elems)
	return Value{kind: jsontype.Array, list: list}
}

// Object returns an object value holding a copy of m.
func Object(m map[string]Value) Value {
	obj := make(map[string]Value, len(m))
	maps.Copy(obj, m)
	return Value{kind: jsontype.Object, obj: obj}
}

// Kind returns the classification of v.
func (v Value) Kind() jsontype.Kind {
	if v.kind == 0 {
		return jsontype.Null
	}
	return v.kind
}

// Len returns the number of elements of an array, entries of an object,
// bytes of a string and zero otherwise.
func (v Value) Len() int {
	switch v.Kind() {
	case jsontype.Array:
		return len(v.list)
	case jsontype.Object:
		return len(v.obj)
	case jsontype.String:
		return len(v.s)
	}
	return 0
}

// AsArray views the elements of an array.
func (v Value) AsArray() (jsontype.ArrayView[Value], bool) {
	if v.Kind() != jsontype.Array {
		return jsontype.ArrayView[Value]{}, false
	}
	return jsontype.SliceView(v.list, identity), true
}

// AsBoolean returns the value of a boolean.
func (v Value) AsBoolean() (bool, bool) {
	return v.b, v.Kind() == jsontype.Boolean
}

// AsInteger returns a copy of an integer.
func (v Value) AsInteger() (*big.Int, bool) {
	if v.Kind() != jsontype.Integer {
		return nil, false
	}
	return new(big.Int).Set(v.i), true
}

// AsNull reports whether v is null; the zero Value is.
func (v Value) AsNull() bool {
	return v.Kind() == jsontype.Null
}

// AsNumber returns the value of a number. Integers are not numbers.
func (v Value) AsNumber() (float64, bool) {
	return v.f, v.Kind() == jsontype.Number
}

// AsObject views the entries of an object.
func (v Value) AsObject() (jsontype.ObjectView[Value], bool) {
	if v.Kind() != jsontype.Object {
		return jsontype.ObjectView[Value]{}, false
	}
	return jsontype.MapView(v.obj, identity), true
}

// AsString returns the text of a string.
func (v Value) AsString() (string, bool) {
	return v.s, v.Kind() == jsontype.String
}

// Attribute returns the entry name of an object.
func (v Value) Attribute(name string) (Value, bool) {
	if v.Kind() != jsontype.Object {
		return Value{}, false
	}
	child, ok := v.obj[name]
	return child, ok
}

// Index returns element i of an array.
func (v Value) Index(i int) (Value, bool) {
	if v.Kind() != jsontype.Array || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}

func identity(v Value) Value {
	return v
}
