// Package reflected adapts arbitrary Go values to jsontype.Value using
// reflection, reading them the way encoding/json would encode them.
//
// Pointers and interfaces are followed and read as null when nil. Types
// implementing encoding.TextMarshaler are strings, []byte is a base64
// string, *big.Int is an integer and json.Number is an integer or a number
// depending on its text (an empty json.Number is 0). Structs are objects of their exported fields,
// honouring json tags ("-", renames, omitempty) and promoting the fields
// of embedded structs. Maps with string, integer or TextMarshaler keys are
// objects. Channels, functions and complex numbers have no JSON form: they
// are dropped from structs and maps and read as null anywhere else.
package reflected

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsontrait/jsontype"
)

var (
	bigIntType        = reflect.TypeFor[big.Int]()
	jsonNumberType    = reflect.TypeFor[json.Number]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Option configures how struct fields are named.
type Option func(*options)

type options struct {
	tagKey string
	naming func(string) string
	fields sync.Map // reflect.Type -> []field
}

// WithTagKey reads field names from the given struct tag instead of "json".
func WithTagKey(key string) Option {
	return func(o *options) {
		o.tagKey = key
	}
}

// WithNaming renames fields that carry no name in their tag.
func WithNaming(naming func(string) string) Option {
	return func(o *options) {
		o.naming = naming
	}
}

// SnakeCase is a naming function: UserID becomes user_id.
func SnakeCase(name string) string {
	return strcase.ToSnake(name)
}

// LowerCamelCase is a naming function: UserID becomes userID.
func LowerCamelCase(name string) string {
	return strcase.ToLowerCamel(name)
}

// Value wraps a reflect.Value. The zero Value reads as null.
type Value struct {
	rv   reflect.Value
	opts *options
}

// Of wraps x.
func Of(x any, opts ...Option) Value {
	o := &options{tagKey: "json"}
	for _, opt := range opts {
		opt(o)
	}
	return o.wrap(reflect.ValueOf(x))
}

// Interface returns the wrapped Go value, or nil when it is not accessible.
func (r Value) Interface() any {
	if !r.rv.IsValid() || !r.rv.CanInterface() {
		return nil
	}
	return r.rv.Interface()
}

func (o *options) wrap(rv reflect.Value) Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return Value{opts: o}
		}
		if rv.Kind() == reflect.Pointer && rv.Type().Implements(textMarshalerType) && rv.Type().Elem() != bigIntType {
			break
		}
		rv = rv.Elem()
	}
	return Value{rv: rv, opts: o}
}

func (r Value) options() *options {
	if r.opts == nil {
		return &options{tagKey: "json"}
	}
	return r.opts
}

func unsupported(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return true
	}
	return false
}

// textMarshaler returns rv as a TextMarshaler, using its address when only
// the pointer type implements the interface.
func textMarshaler(rv reflect.Value) (encoding.TextMarshaler, bool) {
	if !rv.CanInterface() {
		return nil, false
	}
	if rv.Type().Implements(textMarshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil, false
		}
		tm, ok := rv.Interface().(encoding.TextMarshaler)
		return tm, ok
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(textMarshalerType) {
		tm, ok := rv.Addr().Interface().(encoding.TextMarshaler)
		return tm, ok
	}
	return nil, false
}

func (r Value) kind() jsontype.Kind {
	rv := r.rv
	if !rv.IsValid() {
		return jsontype.Null
	}
	switch rv.Type() {
	case bigIntType:
		if !rv.CanInterface() {
			return jsontype.Null
		}
		return jsontype.Integer
	case jsonNumberType:
		n := rv.String()
		if n == "" {
			return jsontype.Integer
		}
		if _, ok := new(big.Int).SetString(n, 10); ok {
			return jsontype.Integer
		}
		if _, err := strconv.ParseFloat(n, 64); err == nil {
			return jsontype.Number
		}
		return jsontype.String
	}
	if _, ok := textMarshaler(rv); ok {
		return jsontype.String
	}
	switch rv.Kind() {
	case reflect.Bool:
		return jsontype.Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return jsontype.Integer
	case reflect.Float32, reflect.Float64:
		return jsontype.Number
	case reflect.String:
		return jsontype.String
	case reflect.Slice:
		if rv.IsNil() {
			return jsontype.Null
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return jsontype.String
		}
		return jsontype.Array
	case reflect.Array:
		return jsontype.Array
	case reflect.Map:
		if rv.IsNil() {
			return jsontype.Null
		}
		return jsontype.Object
	case reflect.Struct:
		return jsontype.Object
	}
	return jsontype.Null
}

func (r Value) AsArray() (jsontype.ArrayView[Value], bool) {
	if r.kind() != jsontype.Array {
		return jsontype.ArrayView[Value]{}, false
	}
	o := r.options()
	rv := r.rv
	return jsontype.NewArrayView(rv.Len(), func(i int) Value {
		return o.wrap(rv.Index(i))
	}), true
}

func (r Value) AsBoolean() (bool, bool) {
	if r.kind() != jsontype.Boolean {
		return false, false
	}
	return r.rv.Bool(), true
}

func (r Value) AsInteger() (*big.Int, bool) {
	if r.kind() != jsontype.Integer {
		return nil, false
	}
	rv := r.rv
	switch rv.Type() {
	case bigIntType:
		tmp := reflect.New(bigIntType)
		tmp.Elem().Set(rv)
		b := tmp.Interface().(*big.Int)
		return new(big.Int).Set(b), true
	case jsonNumberType:
		if rv.String() == "" {
			return new(big.Int), true
		}
		return new(big.Int).SetString(rv.String(), 10)
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	}
	return new(big.Int).SetUint64(rv.Uint()), true
}

func (r Value) AsNull() bool {
	return r.kind() == jsontype.Null
}

func (r Value) AsNumber() (float64, bool) {
	if r.kind() != jsontype.Number {
		return 0, false
	}
	if r.rv.Type() == jsonNumberType {
		f, err := strconv.ParseFloat(r.rv.String(), 64)
		return f, err == nil
	}
	return r.rv.Float(), true
}

func (r Value) AsString() (string, bool) {
	if r.kind() != jsontype.String {
		return "", false
	}
	rv := r.rv
	if rv.Type() == jsonNumberType {
		return rv.String(), true
	}
	if tm, ok := textMarshaler(rv); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return "", false
		}
		return string(text), true
	}
	if rv.Kind() == reflect.Slice {
		return base64.StdEncoding.EncodeToString(rv.Bytes()), true
	}
	return rv.String(), true
}

func (r Value) AsObject() (jsontype.ObjectView[Value], bool) {
	if r.kind() != jsontype.Object {
		return jsontype.ObjectView[Value]{}, false
	}
	entries := r.entries()
	return jsontype.NewObjectView(len(entries), func(yield func(string, Value) bool) {
		for _, e := range entries {
			if !yield(e.name, e.value) {
				return
			}
		}
	}), true
}

func (r Value) Attribute(name string) (Value, bool) {
	if r.kind() != jsontype.Object {
		return Value{}, false
	}
	if r.rv.Kind() == reflect.Map && r.rv.Type().Key().Kind() == reflect.String &&
		!r.rv.Type().Key().Implements(textMarshalerType) {
		elem := r.rv.MapIndex(reflect.ValueOf(name).Convert(r.rv.Type().Key()))
		if !elem.IsValid() {
			return Value{}, false
		}
		v := r.options().wrap(elem)
		if v.rv.IsValid() && unsupported(v.rv.Kind()) {
			return Value{}, false
		}
		return v, true
	}
	for _, e := range r.entries() {
		if e.name == name {
			return e.value, true
		}
	}
	return Value{}, false
}

func (r Value) Index(i int) (Value, bool) {
	arr, ok := r.AsArray()
	if !ok {
		return Value{}, false
	}
	return arr.At(i)
}

type member struct {
	name  string
	value Value
}

func (r Value) entries() []member {
	if r.rv.Kind() == reflect.Map {
		return r.mapEntries()
	}
	return r.structEntries()
}

func (r Value) mapEntries() []member {
	o := r.options()
	res := make([]member, 0, r.rv.Len())
	iter := r.rv.MapRange()
	for iter.Next() {
		v := o.wrap(iter.Value())
		if v.rv.IsValid() && unsupported(v.rv.Kind()) {
			continue
		}
		res = append(res, member{name: mapKey(iter.Key()), value: v})
	}
	return res
}

func mapKey(k reflect.Value) string {
	if tm, ok := textMarshaler(k); ok {
		if text, err := tm.MarshalText(); err == nil {
			return string(text)
		}
	}
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10)
	}
	if k.CanInterface() {
		return fmt.Sprint(k.Interface())
	}
	return k.String()
}

func (r Value) structEntries() []member {
	o := r.options()
	fields := o.typeFields(r.rv.Type())
	res := make([]member, 0, len(fields))
	for _, f := range fields {
		fv, ok := fieldByIndex(r.rv, f.index)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		v := o.wrap(fv)
		if v.rv.IsValid() && unsupported(v.rv.Kind()) {
			continue
		}
		res = append(res, member{name: f.name, value: v})
	}
	return res
}

// fieldByIndex walks an embedding path, reporting false when it passes
// through a nil embedded pointer.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

type field struct {
	name      string
	index     []int
	tagged    bool
	omitEmpty bool
}

func (o *options) typeFields(t reflect.Type) []field {
	if cached, ok := o.fields.Load(t); ok {
		return cached.([]field)
	}
	fields := o.collectFields(t)
	o.fields.Store(t, fields)
	return fields
}

// collectFields lists the fields of t in declaration order, breadth first
// through embedded structs. A shallower field hides deeper ones of the same
// name; at equal depth a tagged field wins, and an unresolved tie drops the
// name entirely.
func (o *options) collectFields(t reflect.Type) []field {
	type level struct {
		t     reflect.Type
		index []int
	}
	var (
		res     []field
		current []level
		next    = []level{{t: t}}
		visited = map[reflect.Type]bool{}
		hidden  = map[string]bool{}
	)
	for len(next) > 0 {
		current, next = next, nil
		var depth []field
		for _, lv := range current {
			if visited[lv.t] {
				continue
			}
			visited[lv.t] = true
			for i := range lv.t.NumField() {
				sf := lv.t.Field(i)
				index := append(append([]int(nil), lv.index...), i)
				tag := sf.Tag.Get(o.tagKey)
				if tag == "-" {
					continue
				}
				name, opts, _ := strings.Cut(tag, ",")
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if sf.Anonymous && name == "" && ft.Kind() == reflect.Struct {
					next = append(next, level{t: ft, index: index})
					continue
				}
				if !sf.IsExported() || unsupported(sf.Type.Kind()) {
					continue
				}
				f := field{
					name:      name,
					index:     index,
					tagged:    name != "",
					omitEmpty: hasOption(opts, "omitempty"),
				}
				if !f.tagged {
					f.name = sf.Name
					if o.naming != nil {
						f.name = o.naming(sf.Name)
					}
				}
				depth = append(depth, f)
			}
		}
		res = append(res, dominantFields(depth, hidden)...)
	}
	return res
}

func dominantFields(depth []field, hidden map[string]bool) []field {
	byName := make(map[string][]field, len(depth))
	for _, f := range depth {
		byName[f.name] = append(byName[f.name], f)
	}
	res := make([]field, 0, len(depth))
	for _, f := range depth {
		if hidden[f.name] {
			continue
		}
		candidates := byName[f.name]
		if len(candidates) > 1 {
			var tagged []field
			for _, c := range candidates {
				if c.tagged {
					tagged = append(tagged, c)
				}
			}
			if len(tagged) != 1 {
				hidden[f.name] = true
				continue
			}
			f = tagged[0]
		}
		hidden[f.name] = true
		res = append(res, f)
	}
	return res
}

func hasOption(opts, name string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == name {
			return true
		}
	}
	return false
}
