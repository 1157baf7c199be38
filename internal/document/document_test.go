package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontrait/adapter/dynamic"
	"github.com/mcncl/jsontrait/adapter/yamlv3"
	"github.com/mcncl/jsontrait/jsontype"
	"github.com/mcncl/jsontrait/value"
)

func sample() Node {
	return Wrap(dynamic.Of(map[string]any{
		"b":    []any{"x", 2.5},
		"a":    map[string]any{"z": nil, "y": true},
		"name": "doc",
	}))
}

func TestNode(t *testing.T) {
	tests := []struct {
		pointer string
		kind    jsontype.Kind
		length  int
	}{
		{pointer: "", kind: jsontype.Object, length: 3},
		{pointer: "/a", kind: jsontype.Object, length: 2},
		{pointer: "/b", kind: jsontype.Array, length: 2},
		{pointer: "/b/1", kind: jsontype.Number, length: 0},
		{pointer: "/a/z", kind: jsontype.Null, length: 0},
		{pointer: "/name", kind: jsontype.String, length: 0},
	}

	root := sample()
	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			n, ok := root.Resolve(tt.pointer)
			require.True(t, ok)
			assert.Equal(t, tt.kind, n.Kind())
			assert.Equal(t, tt.length, n.Len())
		})
	}

	_, ok := root.Resolve("/b/2")
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	root := sample()

	keys, ok := root.Keys()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "name"}, keys)

	b, ok := root.Resolve("/b")
	require.True(t, ok)
	_, ok = b.Keys()
	assert.False(t, ok)
}

func TestChildren(t *testing.T) {
	root := sample()

	var names []string
	for k, child := range root.Children() {
		names = append(names, k+":"+child.Kind().String())
	}
	assert.Equal(t, []string{"a:object", "b:array", "name:string"}, names)

	b, _ := root.Resolve("/b")
	var indexes []string
	for k := range b.Children() {
		indexes = append(indexes, k)
	}
	assert.Equal(t, []string{"0", "1"}, indexes)

	count := 0
	for range root.Children() {
		count++
		break
	}
	assert.Equal(t, 1, count)

	leaf, _ := root.Resolve("/name")
	for range leaf.Children() {
		t.Fatal("scalars have no children")
	}
}

// Documents from different representations share one canonical form.
func TestCanonical(t *testing.T) {
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("b: [x, 2.5]\na: {z: null, y: true}\nname: doc\n"), &n))

	fromYAML := Wrap(yamlv3.Of(&n)).Canonical()
	assert.True(t, sample().Canonical().Equal(fromYAML), "got %s", fromYAML)

	a, _ := sample().Resolve("/a")
	expected := value.Object(map[string]value.Value{"z": value.Null(), "y": value.Bool(true)})
	assert.True(t, expected.Equal(a.Canonical()))
}
