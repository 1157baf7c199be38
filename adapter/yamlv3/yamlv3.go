// Package yamlv3 adapts gopkg.in/yaml.v3 node trees to jsontype.Value.
//
// Document and alias nodes are followed transparently. Scalars are
// classified by their resolved tag: !!null, !!bool, !!int and !!float map to
// null, boolean, integer and number, except that plain decimal literals too
// wide for 64 bits, which yaml.v3 resolves to !!float, stay integers. Every
// other scalar (including !!timestamp and !!binary) is a string.
//
// Mapping keys are read as text. "<<" merge keys are expanded, explicit keys
// taking precedence, and when a key is repeated the first occurrence wins.
package yamlv3

import (
	"math/big"
	"strings"

	"github.com/mcncl/jsontrait/jsontype"
	"gopkg.in/yaml.v3"
)

const (
	nullTag  = "!!null"
	boolTag  = "!!bool"
	intTag   = "!!int"
	floatTag = "!!float"
	mergeTag = "!!merge"
)

// maxAliasDepth bounds alias chains so a cyclic document cannot loop forever.
const maxAliasDepth = 1000

// Value wraps a *yaml.Node. A nil node reads as null.
type Value struct {
	n *yaml.Node
}

// Of wraps n, following document and alias nodes.
func Of(n *yaml.Node) Value {
	return Value{n: resolve(n)}
}

// Node returns the wrapped node.
func (y Value) Node() *yaml.Node {
	return y.n
}

func resolve(n *yaml.Node) *yaml.Node {
	for depth := 0; n != nil && depth < maxAliasDepth; depth++ {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) > 0:
			n = n.Content[0]
		case n.Kind == yaml.DocumentNode, n.Kind == 0:
			return nil
		case n.Kind == yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// scalar holds the classification of a scalar node.
type scalar struct {
	kind jsontype.Kind
	b    bool
	i    *big.Int
	f    float64
}

// classifyScalar classifies a scalar node by its resolved tag. Text that does not
// parse under its tag, such as "!!int abc", reads as a string.
func (y Value) classifyScalar() (scalar, bool) {
	if y.n == nil || y.n.Kind != yaml.ScalarNode {
		return scalar{}, false
	}
	switch y.n.ShortTag() {
	case nullTag:
		return scalar{kind: jsontype.Null}, true
	case boolTag:
		var b bool
		if err := y.n.Decode(&b); err == nil {
			return scalar{kind: jsontype.Boolean, b: b}, true
		}
	case intTag:
		if i, ok := parseInt(y.n.Value); ok {
			return scalar{kind: jsontype.Integer, i: i}, true
		}
	case floatTag:
		// yaml.v3 resolves plain integers wider than 64 bits to !!float
		if y.n.Style&yaml.TaggedStyle == 0 && isDecimal(y.n.Value) {
			if i, ok := new(big.Int).SetString(y.n.Value, 10); ok {
				return scalar{kind: jsontype.Integer, i: i}, true
			}
		}
		var f float64
		if err := y.n.Decode(&f); err == nil {
			return scalar{kind: jsontype.Number, f: f}, true
		}
	}
	return scalar{kind: jsontype.String}, true
}

func (y Value) AsArray() (jsontype.ArrayView[Value], bool) {
	if y.n == nil || y.n.Kind != yaml.SequenceNode {
		return jsontype.ArrayView[Value]{}, false
	}
	return jsontype.SliceView(y.n.Content, Of), true
}

func (y Value) AsBoolean() (bool, bool) {
	sc, ok := y.classifyScalar()
	return sc.b, ok && sc.kind == jsontype.Boolean
}

func (y Value) AsInteger() (*big.Int, bool) {
	sc, ok := y.classifyScalar()
	if !ok || sc.kind != jsontype.Integer {
		return nil, false
	}
	return sc.i, true
}

// parseInt reads the YAML integer forms: decimal, 0x, 0o and 0b prefixes,
// an optional sign and _ separators, plus YAML 1.1 octal such as 0755.
func parseInt(text string) (*big.Int, bool) {
	text = strings.ReplaceAll(text, "_", "")
	if i, ok := new(big.Int).SetString(text, 0); ok {
		return i, true
	}
	if len(text) > 1 && text[0] == '0' {
		return new(big.Int).SetString(text[1:], 8)
	}
	return nil, false
}

func isDecimal(text string) bool {
	if text != "" && (text[0] == '-' || text[0] == '+') {
		text = text[1:]
	}
	if text == "" {
		return false
	}
	for _, c := range text {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// AsNull holds for !!null scalars and for an absent node, such as the body
// of an empty document.
func (y Value) AsNull() bool {
	if y.n == nil {
		return true
	}
	sc, ok := y.classifyScalar()
	return ok && sc.kind == jsontype.Null
}

func (y Value) AsNumber() (float64, bool) {
	sc, ok := y.classifyScalar()
	return sc.f, ok && sc.kind == jsontype.Number
}

func (y Value) AsObject() (jsontype.ObjectView[Value], bool) {
	if y.n == nil || y.n.Kind != yaml.MappingNode {
		return jsontype.ObjectView[Value]{}, false
	}
	entries := mappingEntries(y.n, 0)
	return jsontype.NewObjectView(len(entries), func(yield func(string, Value) bool) {
		for _, e := range entries {
			if !yield(e.key, Of(e.value)) {
				return
			}
		}
	}), true
}

func (y Value) AsString() (string, bool) {
	sc, ok := y.classifyScalar()
	if !ok || sc.kind != jsontype.String {
		return "", false
	}
	return y.n.Value, true
}

func (y Value) Attribute(name string) (Value, bool) {
	if y.n == nil || y.n.Kind != yaml.MappingNode {
		return Value{}, false
	}
	for _, e := range mappingEntries(y.n, 0) {
		if e.key == name {
			return Of(e.value), true
		}
	}
	return Value{}, false
}

func (y Value) Index(i int) (Value, bool) {
	if y.n == nil || y.n.Kind != yaml.SequenceNode || i < 0 || i >= len(y.n.Content) {
		return Value{}, false
	}
	return Of(y.n.Content[i]), true
}

type entry struct {
	key   string
	value *yaml.Node
}

// mappingEntries flattens a mapping node into unique keys. Explicit keys are
// collected first; merge sources then contribute keys not already present,
// earlier sources winning over later ones.
func mappingEntries(m *yaml.Node, depth int) []entry {
	entries := make([]entry, 0, len(m.Content)/2)
	seen := make(map[string]bool, len(m.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == mergeTag {
			merges = append(merges, v)
			continue
		}
		key := keyText(k)
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, entry{key: key, value: v})
	}
	if depth >= maxAliasDepth {
		return entries
	}
	for _, src := range merges {
		for _, s := range mergeSources(src) {
			for _, e := range mappingEntries(s, depth+1) {
				if seen[e.key] {
					continue
				}
				seen[e.key] = true
				entries = append(entries, e)
			}
		}
	}
	return entries
}

// mergeSources returns the mappings a merge value refers to: a single
// mapping (usually through an alias) or a sequence of them.
func mergeSources(n *yaml.Node) []*yaml.Node {
	n = resolve(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{n}
	case yaml.SequenceNode:
		var res []*yaml.Node
		for _, c := range n.Content {
			if c = resolve(c); c != nil && c.Kind == yaml.MappingNode {
				res = append(res, c)
			}
		}
		return res
	}
	return nil
}

func keyText(k *yaml.Node) string {
	k = resolve(k)
	if k == nil {
		return "null"
	}
	if k.Kind == yaml.ScalarNode {
		return k.Value
	}
	out, err := yaml.Marshal(k)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
