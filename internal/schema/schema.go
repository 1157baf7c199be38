// Package schema infers JSON Schema documents from values
package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/mcncl/jsontrait/internal/analyzer"
	"github.com/mcncl/jsontrait/jsontype"
	"github.com/mcncl/jsontrait/value"
)

// Draft is the JSON Schema dialect of inferred documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	// Try string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	// Try array of strings
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// MarshalJSON writes a single type as a string and several as an array.
func (st SchemaType) MarshalJSON() ([]byte, error) {
	if len(st.Types) == 1 {
		return json.Marshal(st.Types[0])
	}
	return json.Marshal(st.Types)
}

// IsZero reports whether no type is set.
func (st SchemaType) IsZero() bool {
	return len(st.Types) == 0
}

// Primary returns the primary (first) type, or empty string if none
func (st SchemaType) Primary() string {
	if len(st.Types) > 0 {
		return st.Types[0]
	}
	return ""
}

// IsNullable returns true if "null" is one of the allowed types
func (st SchemaType) IsNullable() bool {
	return st.Has(jsontype.Null.String())
}

// Has reports whether name is one of the allowed types.
func (st SchemaType) Has(name string) bool {
	return slices.Contains(st.Types, name)
}

// Schema is the subset of a JSON Schema document that inference produces.
type Schema struct {
	Schema     string             `json:"$schema,omitempty"`
	Title      string             `json:"title,omitempty"`
	Type       SchemaType         `json:"type,omitzero"`
	Format     string             `json:"format,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}

	return &schema, nil
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

// Inferrer builds schemas describing the shape of example values
type Inferrer struct {
	// formats enables the format keyword on strings
	formats bool
	title   string
}

// NewInferrer creates an Inferrer with format detection enabled.
func NewInferrer() *Inferrer {
	return &Inferrer{formats: true}
}

// WithFormats turns string format detection on or off.
func (in *Inferrer) WithFormats(on bool) *Inferrer {
	in.formats = on
	return in
}

// WithTitle sets the title of the root schema.
func (in *Inferrer) WithTitle(title string) *Inferrer {
	in.title = title
	return in
}

// Infer returns a root schema, with $schema set, that v validates against.
func (in *Inferrer) Infer(v value.Value) *Schema {
	s := in.infer(v)
	s.Schema = Draft
	s.Title = in.title
	return s
}

// Infer describes any jsontype value with the default Inferrer.
func Infer[T jsontype.Value[T]](v T) *Schema {
	return NewInferrer().Infer(value.From(v))
}

func (in *Inferrer) infer(v value.Value) *Schema {
	kind := v.Kind()
	s := &Schema{Type: SchemaType{Types: []string{kind.String()}}}
	switch kind {
	case jsontype.String:
		if str, ok := v.AsString(); ok && in.formats {
			s.Format = stringFormat(str)
		}
	case jsontype.Array:
		arr, _ := v.AsArray()
		for elem := range arr.Values() {
			s.Items = Merge(s.Items, in.infer(elem))
		}
	case jsontype.Object:
		obj, _ := v.AsObject()
		s.Properties = make(map[string]*Schema, obj.Len())
		for k, elem := range obj.Entries() {
			s.Properties[k] = in.infer(elem)
		}
		s.Required = obj.SortedKeys()
	}
	return s
}

func stringFormat(s string) string {
	switch analyzer.StringHint(s) {
	case analyzer.HintUUID:
		return "uuid"
	case analyzer.HintDate:
		return "date"
	case analyzer.HintTime:
		if _, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return "date-time"
		}
	}
	return ""
}

// Merge returns a schema accepting every value either a or b accepts, as
// far as inference can tell: types are united, object properties merged
// with only the keys required by both staying required, and array items
// merged. An integer type is absorbed by number, and a string format
// survives only when the other side has no differing strings. Neither input
// is modified.
func Merge(a, b *Schema) *Schema {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return clone(b)
	case b == nil:
		return clone(a)
	}

	res := &Schema{Type: unionTypes(a.Type, b.Type)}
	str := jsontype.String.String()
	switch {
	case a.Format == b.Format, !b.Type.Has(str):
		res.Format = a.Format
	case !a.Type.Has(str):
		res.Format = b.Format
	}
	res.Items = Merge(a.Items, b.Items)

	aObj, bObj := a.Type.Has(jsontype.Object.String()), b.Type.Has(jsontype.Object.String())
	if aObj || bObj {
		res.Properties = make(map[string]*Schema, len(a.Properties)+len(b.Properties))
		for k, s := range a.Properties {
			res.Properties[k] = Merge(s, b.Properties[k])
		}
		for k, s := range b.Properties {
			if _, ok := a.Properties[k]; !ok {
				res.Properties[k] = clone(s)
			}
		}
		switch {
		case aObj && bObj:
			for _, k := range a.Required {
				if slices.Contains(b.Required, k) {
					res.Required = append(res.Required, k)
				}
			}
		case aObj:
			res.Required = slices.Clone(a.Required)
		default:
			res.Required = slices.Clone(b.Required)
		}
	}
	return res
}

func unionTypes(a, b SchemaType) SchemaType {
	seen := make(map[string]bool, len(a.Types)+len(b.Types))
	for _, t := range slices.Concat(a.Types, b.Types) {
		seen[t] = true
	}
	if seen[jsontype.Number.String()] {
		delete(seen, jsontype.Integer.String())
	}
	var res SchemaType
	for _, k := range jsontype.Kinds() {
		if seen[k.String()] {
			res.Types = append(res.Types, k.String())
		}
	}
	return res
}

func clone(s *Schema) *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Type.Types = slices.Clone(s.Type.Types)
	c.Required = slices.Clone(s.Required)
	c.Items = clone(s.Items)
	if s.Properties != nil {
		c.Properties = make(map[string]*Schema, len(s.Properties))
		for k, p := range s.Properties {
			c.Properties[k] = clone(p)
		}
	}
	return &c
}
