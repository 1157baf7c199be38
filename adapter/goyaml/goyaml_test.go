package goyaml

import (
	"encoding/json"
	"math"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"
	goccy "github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontrait/adapter/dynamic"
	"github.com/mcncl/jsontrait/adapter/yamlv3"
	"github.com/mcncl/jsontrait/jsontype"
	"github.com/mcncl/jsontrait/pointer"
	"github.com/mcncl/jsontrait/value"
)

func parse(t *testing.T, input string, opts ...parser.Option) Value {
	t.Helper()
	f, err := parser.ParseBytes([]byte(input), 0, opts...)
	require.NoError(t, err)
	return OfFile(f)
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
		{input: "FALSE", kind: jsontype.Boolean, expected: value.Bool(false)},
		{input: "42", kind: jsontype.Integer, expected: value.Int(42)},
		{input: "-7", kind: jsontype.Integer, expected: value.Int(-7)},
		{input: "0x1F", kind: jsontype.Integer, expected: value.Int(31)},
		{input: "0o17", kind: jsontype.Integer, expected: value.Int(15)},
		{input: "1.5", kind: jsontype.Number, expected: value.Float(1.5)},
		{input: "1e3", kind: jsontype.Number, expected: value.Float(1000)},
		{input: "-.inf", kind: jsontype.Number, expected: value.Float(math.Inf(-1))},
		{input: "hello", kind: jsontype.String, expected: value.String("hello")},
		{input: `"123"`, kind: jsontype.String, expected: value.String("123")},
		{input: "'true'", kind: jsontype.String, expected: value.String("true")},
		{input: "2001-12-14", kind: jsontype.String, expected: value.String("2001-12-14")},
		{input: "!!str 123", kind: jsontype.String, expected: value.String("123")},
		{input: "!!str null", kind: jsontype.String, expected: value.String("null")},
		{input: "!!int 12", kind: jsontype.Integer, expected: value.Int(12)},
		{input: "!!int abc", kind: jsontype.String, expected: value.String("abc")},
		{input: "!!float 3", kind: jsontype.Number, expected: value.Float(3)},
		{input: "!!bool True", kind: jsontype.Boolean, expected: value.Bool(true)},
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
		{input: "18446744073709551615", expected: "18446744073709551615"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			i, ok := parse(t, tt.input).AsInteger()
			require.True(t, ok)
			assert.Equal(t, tt.expected, i.String())
		})
	}
}

func TestEmpty(t *testing.T) {
	assert.True(t, OfFile(nil).AsNull())
	assert.True(t, Of(nil).AsNull())
	assert.True(t, parse(t, "").AsNull())
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
	assert.Equal(t, []string{"x", "y"}, obj.SortedKeys())
	assert.False(t, jsontype.HasAttribute(derived, "<<"))
}

const redefined = "a: &v 1\nb: *v\nc: &v 2\nd: *v\nlist:\n  - &w x\n  - *w\n  - &w y\n  - *w\n"

func TestRedefinedAnchor(t *testing.T) {
	root := parse(t, redefined)

	for fragment, expected := range map[string]any{
		"/a": int64(1), "/b": int64(1), "/c": int64(2), "/d": int64(2),
		"/list/1": "x", "/list/3": "y",
	} {
		got, ok := pointer.Resolve(root, fragment)
		require.True(t, ok, fragment)
		want := value.From(dynamic.Of(expected))
		assert.True(t, want.Equal(value.From(got)), "%s: got %s", fragment, value.From(got))
	}

	var decoded map[string]any
	require.NoError(t, goccy.Unmarshal([]byte(redefined), &decoded))
	rendered, err := json.Marshal(value.From(root).Interface())
	require.NoError(t, err)
	expected, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.True(t, jsonpatch.Equal(expected, rendered), "decoder: %s\nadapter: %s", expected, rendered)
}

func TestDuplicateKeys(t *testing.T) {
	_, err := parser.ParseBytes([]byte("dup: first\ndup: second\n"), 0)
	require.Error(t, err)

	root := parse(t, "dup: first\ndup: second\n", parser.AllowDuplicateMapKey())
	got, ok := root.Attribute("dup")
	require.True(t, ok)
	s, ok := got.AsString()
	require.True(t, ok)
	assert.Equal(t, "first", s)

	obj, ok := root.AsObject()
	require.True(t, ok)
	assert.Equal(t, 1, obj.Len())
}

// Both YAML libraries must yield the same canonical value for one document.
func TestMatchesYAMLv3(t *testing.T) {
	inputs := []string{
		anchors,
		redefined,
		"a: 1\nb: [x, 2.5, null, true, ~]\nc: {d: 'q', e: \"w\"}\n",
		"- 123456789012345678901234567890\n- -1e-3\n- 0x10\n- 2001-12-14\n",
		"tagged: !!str 12\nnumber: !!float 7\nint: !!int '8'\n",
		"text: |\n  line one\n  line two\n",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var n yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(input), &n))
			expected := value.From(yamlv3.Of(&n))

			if diff := cmp.Diff(expected, value.From(parse(t, input))); diff != "" {
				t.Errorf("goccy and yaml.v3 disagree (-yaml.v3 +goccy):\n%s", diff)
			}
		})
	}
}

func TestConversionFidelity(t *testing.T) {
	rendered, err := json.Marshal(value.From(parse(t, "a/b:\n  ~c: [0, '', {}]\n")).Interface())
	require.NoError(t, err)
	assert.True(t, jsonpatch.Equal([]byte(`{"a/b": {"~c": [0, "", {}]}}`), rendered), "rendered %s", rendered)
}
