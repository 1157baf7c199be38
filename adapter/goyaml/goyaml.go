// Package goyaml adapts github.com/goccy/go-yaml AST nodes to jsontype.Value.
//
// Anchors are collected once when a tree is wrapped, and an alias resolves
// to the closest definition of its anchor before it, so a redefined anchor
// only affects the aliases that follow it. Document, tag
// and anchor nodes are unwrapped. Merge keys (<<) are expanded with explicit
// keys taking precedence, and a repeated key keeps its first occurrence.
//
// Scalars follow the YAML core schema. The go-yaml lexer reads plain integers
// wider than 64 bits and exponent floats such as 1e3 as strings; they are
// resolved again here so they classify as they would in yaml.v3. An explicit
// !!str, !!int, !!float, !!bool or !!null tag decides the kind of its scalar,
// and text that does not parse under its tag reads as a string.
package goyaml

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"
	"github.com/mcncl/jsontrait/jsontype"
)

const (
	strTag    = "!!str"
	binaryTag = "!!binary"
	intTag    = "!!int"
	floatTag  = "!!float"
	boolTag   = "!!bool"
	nullTag   = "!!null"

	maxAliasDepth = 1000
)

var (
	decimalPattern = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatPattern   = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)
)

// Value wraps an ast.Node. A nil node reads as null.
type Value struct {
	n       ast.Node
	tag     string // innermost explicit tag, if any
	anchors anchorSet
}

// anchorSet holds every definition of each anchor name in document order.
type anchorSet map[string][]anchorDef

type anchorDef struct {
	pos  *token.Position
	node ast.Node
}

// lookup returns the last definition of name that starts before pos.
func (a anchorSet) lookup(name string, pos *token.Position) ast.Node {
	defs := a[name]
	if pos == nil {
		if len(defs) == 0 {
			return nil
		}
		return defs[len(defs)-1].node
	}
	var found ast.Node
	for _, d := range defs {
		if d.pos != nil && !before(d.pos, pos) {
			break
		}
		found = d.node
	}
	return found
}

func before(a, b *token.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

func position(n ast.Node) *token.Position {
	if n == nil {
		return nil
	}
	if tk := n.GetToken(); tk != nil {
		return tk.Position
	}
	return nil
}

// Of wraps the tree rooted at n.
func Of(n ast.Node) Value {
	anchors := make(anchorSet)
	collectAnchors(n, anchors, 0)
	return wrap(n, anchors)
}

// OfFile wraps the first document of f; an empty file reads as null.
func OfFile(f *ast.File) Value {
	if f == nil || len(f.Docs) == 0 {
		return Of(nil)
	}
	return Of(f.Docs[0])
}

// Node returns the wrapped node after unwrapping.
func (g Value) Node() ast.Node {
	return g.n
}

func wrap(n ast.Node, anchors anchorSet) Value {
	v := Value{anchors: anchors}
	for depth := 0; n != nil && depth < maxAliasDepth; depth++ {
		switch t := n.(type) {
		case *ast.DocumentNode:
			n = t.Body
		case *ast.TagNode:
			if t.Start != nil {
				v.tag = t.Start.Value
			}
			n = t.Value
		case *ast.AnchorNode:
			n = t.Value
		case *ast.AliasNode:
			n = anchors.lookup(nodeName(t.Value), position(t))
		default:
			v.n = n
			return v
		}
	}
	return v
}

func nodeName(n ast.Node) string {
	if n == nil {
		return ""
	}
	if tk := n.GetToken(); tk != nil {
		return tk.Value
	}
	return n.String()
}

func collectAnchors(n ast.Node, anchors anchorSet, depth int) {
	if n == nil || depth > maxAliasDepth {
		return
	}
	switch t := n.(type) {
	case *ast.DocumentNode:
		collectAnchors(t.Body, anchors, depth+1)
	case *ast.AnchorNode:
		name := nodeName(t.Name)
		anchors[name] = append(anchors[name], anchorDef{pos: position(t), node: t.Value})
		collectAnchors(t.Value, anchors, depth+1)
	case *ast.TagNode:
		collectAnchors(t.Value, anchors, depth+1)
	case *ast.MappingNode:
		for _, mv := range t.Values {
			collectAnchors(mv, anchors, depth+1)
		}
	case *ast.MappingValueNode:
		collectAnchors(t.Key, anchors, depth+1)
		collectAnchors(t.Value, anchors, depth+1)
	case *ast.MappingKeyNode:
		collectAnchors(t.Value, anchors, depth+1)
	case *ast.SequenceNode:
		for _, elem := range t.Values {
			collectAnchors(elem, anchors, depth+1)
		}
	}
}

func (g Value) child(n ast.Node) Value {
	return wrap(n, g.anchors)
}

// scalarText is the source text of a scalar.
func scalarText(n ast.Node) string {
	switch t := n.(type) {
	case *ast.StringNode:
		return t.Value
	case *ast.LiteralNode:
		if t.Value != nil {
			return t.Value.Value
		}
		return ""
	case *ast.NullNode:
		if tk := t.GetToken(); tk != nil {
			return tk.Value
		}
		return ""
	}
	if tk := n.GetToken(); tk != nil {
		return tk.Value
	}
	return n.String()
}

// scalar holds the classification of a scalar node.
type scalar struct {
	kind jsontype.Kind
	b    bool
	i    *big.Int
	f    float64
	s    string
}

func textScalar(text string) (scalar, bool) {
	return scalar{kind: jsontype.String, s: text}, true
}

func (g Value) classifyScalar() (scalar, bool) {
	switch g.n.(type) {
	case nil, *ast.MappingNode, *ast.MappingValueNode, *ast.SequenceNode:
		return scalar{}, false
	}
	text := scalarText(g.n)
	switch g.tag {
	case strTag, binaryTag:
		return textScalar(text)
	case intTag:
		if i, ok := parseInt(text); ok {
			return scalar{kind: jsontype.Integer, i: i}, true
		}
		return textScalar(text)
	case floatTag:
		if f, ok := parseFloat(text); ok {
			return scalar{kind: jsontype.Number, f: f}, true
		}
		return textScalar(text)
	case boolTag:
		switch text {
		case "true", "True", "TRUE":
			return scalar{kind: jsontype.Boolean, b: true}, true
		case "false", "False", "FALSE":
			return scalar{kind: jsontype.Boolean}, true
		}
		return textScalar(text)
	case nullTag:
		return scalar{kind: jsontype.Null}, true
	}

	switch t := g.n.(type) {
	case *ast.NullNode:
		return scalar{kind: jsontype.Null}, true
	case *ast.BoolNode:
		return scalar{kind: jsontype.Boolean, b: t.Value}, true
	case *ast.FloatNode:
		return scalar{kind: jsontype.Number, f: t.Value}, true
	case *ast.InfinityNode:
		return scalar{kind: jsontype.Number, f: t.Value}, true
	case *ast.NanNode:
		return scalar{kind: jsontype.Number, f: math.NaN()}, true
	case *ast.IntegerNode:
		if i, ok := integerValue(t); ok {
			return scalar{kind: jsontype.Integer, i: i}, true
		}
	case *ast.StringNode:
		if t.Token != nil && t.Token.Type == token.StringType {
			return resolvePlain(text)
		}
	}
	return textScalar(text)
}

func integerValue(n *ast.IntegerNode) (*big.Int, bool) {
	switch v := n.Value.(type) {
	case int64:
		return big.NewInt(v), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case int:
		return big.NewInt(int64(v)), true
	}
	if tk := n.GetToken(); tk != nil {
		return parseInt(tk.Value)
	}
	return nil, false
}

// resolvePlain reads an unquoted scalar the lexer left as a string.
func resolvePlain(text string) (scalar, bool) {
	if decimalPattern.MatchString(text) {
		if i, ok := new(big.Int).SetString(text, 10); ok {
			return scalar{kind: jsontype.Integer, i: i}, true
		}
	}
	if floatPattern.MatchString(text) {
		if f, ok := parseFloat(text); ok {
			return scalar{kind: jsontype.Number, f: f}, true
		}
	}
	return textScalar(text)
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

func parseFloat(text string) (float64, bool) {
	switch text {
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF":
		return math.Inf(1), true
	case "-.inf", "-.Inf", "-.INF":
		return math.Inf(-1), true
	case ".nan", ".NaN", ".NAN":
		return math.NaN(), true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, false
		}
	}
	return f, true
}

func (g Value) AsArray() (jsontype.ArrayView[Value], bool) {
	seq, ok := g.n.(*ast.SequenceNode)
	if !ok {
		return jsontype.ArrayView[Value]{}, false
	}
	return jsontype.SliceView(seq.Values, g.child), true
}

func (g Value) AsBoolean() (bool, bool) {
	sc, ok := g.classifyScalar()
	return sc.b, ok && sc.kind == jsontype.Boolean
}

func (g Value) AsInteger() (*big.Int, bool) {
	sc, ok := g.classifyScalar()
	if !ok || sc.kind != jsontype.Integer {
		return nil, false
	}
	return sc.i, true
}

// AsNull holds for null scalars and for an absent node, such as the body of
// an empty document or an alias to an unknown anchor.
func (g Value) AsNull() bool {
	if g.n == nil {
		return true
	}
	sc, ok := g.classifyScalar()
	return ok && sc.kind == jsontype.Null
}

func (g Value) AsNumber() (float64, bool) {
	sc, ok := g.classifyScalar()
	return sc.f, ok && sc.kind == jsontype.Number
}

func (g Value) AsObject() (jsontype.ObjectView[Value], bool) {
	if !g.isMapping() {
		return jsontype.ObjectView[Value]{}, false
	}
	entries := g.entries(g.n, 0)
	return jsontype.NewObjectView(len(entries), func(yield func(string, Value) bool) {
		for _, e := range entries {
			if !yield(e.key, g.child(e.value)) {
				return
			}
		}
	}), true
}

func (g Value) AsString() (string, bool) {
	sc, ok := g.classifyScalar()
	return sc.s, ok && sc.kind == jsontype.String
}

func (g Value) Attribute(name string) (Value, bool) {
	if !g.isMapping() {
		return Value{}, false
	}
	for _, e := range g.entries(g.n, 0) {
		if e.key == name {
			return g.child(e.value), true
		}
	}
	return Value{}, false
}

func (g Value) Index(i int) (Value, bool) {
	seq, ok := g.n.(*ast.SequenceNode)
	if !ok || i < 0 || i >= len(seq.Values) {
		return Value{}, false
	}
	return g.child(seq.Values[i]), true
}

func (g Value) isMapping() bool {
	switch g.n.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
		return true
	}
	return false
}

type entry struct {
	key   string
	value ast.Node
}

func pairs(n ast.Node) []*ast.MappingValueNode {
	switch t := n.(type) {
	case *ast.MappingNode:
		return t.Values
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{t}
	}
	return nil
}

// entries flattens a mapping into unique keys, explicit keys first and then
// keys contributed by merge sources.
func (g Value) entries(n ast.Node, depth int) []entry {
	ps := pairs(n)
	res := make([]entry, 0, len(ps))
	seen := make(map[string]bool, len(ps))
	var merges []ast.Node
	for _, mv := range ps {
		var key ast.Node = mv.Key
		if _, ok := key.(*ast.MergeKeyNode); ok {
			merges = append(merges, mv.Value)
			continue
		}
		k := g.keyText(key)
		if seen[k] {
			continue
		}
		seen[k] = true
		res = append(res, entry{key: k, value: mv.Value})
	}
	if depth >= maxAliasDepth {
		return res
	}
	for _, m := range merges {
		for _, src := range g.mergeSources(m) {
			for _, e := range g.entries(src, depth+1) {
				if seen[e.key] {
					continue
				}
				seen[e.key] = true
				res = append(res, e)
			}
		}
	}
	return res
}

func (g Value) mergeSources(n ast.Node) []ast.Node {
	v := g.child(n)
	if v.isMapping() {
		return []ast.Node{v.n}
	}
	seq, ok := v.n.(*ast.SequenceNode)
	if !ok {
		return nil
	}
	var res []ast.Node
	for _, elem := range seq.Values {
		if c := g.child(elem); c.isMapping() {
			res = append(res, c.n)
		}
	}
	return res
}

func (g Value) keyText(key ast.Node) string {
	if mk, ok := key.(*ast.MappingKeyNode); ok {
		key = mk.Value
	}
	k := g.child(key)
	if k.n == nil {
		return "null"
	}
	return scalarText(k.n)
}
