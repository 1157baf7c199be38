package yamlv3

import (
	"encoding/json"
	"math"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontrait/jsontype"
	"github.com/mcncl/jsontrait/pointer"
	"github.com/mcncl/jsontrait/value"
)

func parse(t *testing.T, input string) Value {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(input), &n))
	return Of(&n)
}

func TestScalars(t *testing.T) {
	tests := []struct {
		input    string
		kind     jsontype.Kind
		expected value.Value
	}{
		{input: "null", kind: jsontype.Null, expected: value.Null()},
		{input: "~", kind: jsontype.Null, expected: value.Null()},
		{input: "true", kind: jsontype.Boolean, expected: value.Bool(true)},
		{input: "False", kind: jsontype.Boolean, expected: value.Bool(false)},
		{input: "yes", kind: jsontype.String, expected: value.String("yes")},
		{input: "42", kind: jsontype.Integer, expected: value.Int(42)},
		{input: "-7", kind: jsontype.Integer, expected: value.Int(-7)},
		{input: "0x1F", kind: jsontype.Integer, expected: value.Int(31)},
		{input: "0o17", kind: jsontype.Integer, expected: value.Int(15)},
		{input: "0755", kind: jsontype.Integer, expected: value.Int(493)},
		{input: "1_000", kind: jsontype.Integer, expected: value.Int(1000)},
		{input: "!!int 12", kind: jsontype.Integer, expected: value.Int(12)},
		{input: "1.5", kind: jsontype.Number, expected: value.Float(1.5)},
		{input: "1e3", kind: jsontype.Number, expected: value.Float(1000)},
		{input: "!!float 3", kind: jsontype.Number, expected: value.Float(3)},
		{input: "-.inf", kind: jsontype.Number, expected: value.Float(math.Inf(-1))},
		{input: "hello", kind: jsontype.String, expected: value.String("hello")},
		{input: `"123"`, kind: jsontype.String, expected: value.String("123")},
		{input: "!!str true", kind: jsontype.String, expected: value.String("true")},
		{input: "!!int abc", kind: jsontype.String, expected: value.String("abc")},
		{input: "2001-12-14", kind: jsontype.String, expected: value.String("2001-12-14")},
		{input: "!!binary aGk=", kind: jsontype.String, expected: value.String("aGk=")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := parse(t, tt.input)
			assert.Equal(t, tt.kind, jsontype.Classify(v))
			if diff := cmp.Diff(tt.expected, value.From(v)); diff != "" {
				t.Errorf("From(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestWideIntegers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "123456789012345678901234567890", expected: "123456789012345678901234567890"},
		{input: "-123456789012345678901234567890", expected: "-123456789012345678901234567890"},
		{input: "!!int 123456789012345678901234567890", expected: "123456789012345678901234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			i, ok := parse(t, tt.input).AsInteger()
			require.True(t, ok)
			assert.Equal(t, tt.expected, i.String())
		})
	}

	n, ok := parse(t, "!!float 123456789012345678901234567890").AsNumber()
	require.True(t, ok)
	assert.InEpsilon(t, 1.2345678901234568e29, n, 1e-9)

	nan, ok := parse(t, ".nan").AsNumber()
	require.True(t, ok)
	assert.True(t, math.IsNaN(nan))
}

func TestEmptyAndZero(t *testing.T) {
	assert.True(t, parse(t, "").AsNull())
	assert.True(t, parse(t, "# only a comment\n").AsNull())
	assert.True(t, Of(nil).AsNull())
	assert.True(t, Of(&yaml.Node{}).AsNull())
	assert.True(t, Of(&yaml.Node{Kind: yaml.DocumentNode}).AsNull())
	assert.Equal(t, jsontype.Null, jsontype.Classify(Value{}))
}

func TestFragmentRoundTrip(t *testing.T) {
	root := parse(t, "key:\n  inner: [1, \"2\"]\n")

	tests := []struct {
		fragment string
		expected value.Value
	}{
		{fragment: "/key/inner", expected: value.List(value.Int(1), value.String("2"))},
		{fragment: "/key/inner/0", expected: value.Int(1)},
		{fragment: "/key/inner/1", expected: value.String("2")},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			got, ok := pointer.Resolve(root, tt.fragment)
			require.True(t, ok)
			assert.True(t, tt.expected.Equal(value.From(got)))
		})
	}

	assert.False(t, pointer.Has(root, "/key/inner/2"))
	assert.False(t, pointer.Has(root, "/key/missing"))
}

const anchors = `
base: &base
  x: 1
  y: 1
other: &other
  y: 2
  z: 2
ref: *base
derived:
  <<: *base
  x: 5
multi:
  <<: [*other, *base]
dup: first
dup: second
list: &list [a, b]
again: *list
`

func TestMergesAndAliases(t *testing.T) {
	root := parse(t, anchors)

	tests := []struct {
		fragment string
		expected value.Value
	}{
		{fragment: "/ref/x", expected: value.Int(1)},
		{fragment: "/derived/x", expected: value.Int(5)},
		{fragment: "/derived/y", expected: value.Int(1)},
		{fragment: "/multi/y", expected: value.Int(2)},
		{fragment: "/multi/x", expected: value.Int(1)},
		{fragment: "/multi/z", expected: value.Int(2)},
		{fragment: "/dup", expected: value.String("first")},
		{fragment: "/again/1", expected: value.String("b")},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			got, ok := pointer.Resolve(root, tt.fragment)
			require.True(t, ok)
			assert.True(t, tt.expected.Equal(value.From(got)), "got %s", value.From(got))
		})
	}

	derived, ok := root.Attribute("derived")
	require.True(t, ok)
	obj, ok := derived.AsObject()
	require.True(t, ok)
	assert.Equal(t, 2, obj.Len())
	assert.Equal(t, []string{"x", "y"}, obj.SortedKeys())
	assert.False(t, jsontype.HasAttribute(derived, "<<"))

	top, ok := root.AsObject()
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"base", "other", "ref", "derived", "multi", "dup", "list", "again"}, top.SortedKeys())
}

func TestKeysAreText(t *testing.T) {
	root := parse(t, "1: one\ntrue: yes\nnull: nothing\n")

	for _, key := range []string{"1", "true", "null"} {
		assert.True(t, jsontype.HasAttribute(root, key), key)
	}
}

func TestConversionFidelity(t *testing.T) {
	tests := []struct {
		yaml string
		json string
	}{
		{yaml: "a: 1\nb: [x, 2.5, null, true]\n", json: `{"a": 1, "b": ["x", 2.5, null, true]}`},
		{yaml: "- {}\n- []\n- ''\n", json: `[{}, [], ""]`},
		{yaml: "a/b:\n  ~c: 0\n", json: `{"a/b": {"~c": 0}}`},
		{yaml: "big: 123456789012345678901234567890\n", json: `{"big": 123456789012345678901234567890}`},
	}

	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			rendered, err := json.Marshal(value.From(parse(t, tt.yaml)).Interface())
			require.NoError(t, err)
			assert.True(t, jsonpatch.Equal([]byte(tt.json), rendered), "rendered %s", rendered)
		})
	}
}
