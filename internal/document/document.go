// Package document erases the type parameter of jsontype values so the
// command-line tool can handle documents whose representation is only
// known at run time.
package document

import (
	"iter"
	"strconv"

	"github.com/mcncl/jsontrait/jsontype"
	"github.com/mcncl/jsontrait/pointer"
	"github.com/mcncl/jsontrait/value"
)

// Node is a navigable document value of any representation.
type Node interface {
	Kind() jsontype.Kind
	// Len is the number of elements or entries, or 0 for scalars.
	Len() int
	Resolve(ptr string) (Node, bool)
	// Keys lists object keys in sorted order.
	Keys() ([]string, bool)
	// Children yields the pointer component and value of every element or
	// entry; objects are visited in sorted key order.
	Children() iter.Seq2[string, Node]
	Canonical() value.Value
}

// Wrap erases the representation of v.
func Wrap[T jsontype.Value[T]](v T) Node {
	return node[T]{v: v}
}

type node[T jsontype.Value[T]] struct {
	v T
}

func (n node[T]) Kind() jsontype.Kind {
	return jsontype.Classify(n.v)
}

func (n node[T]) Len() int {
	if arr, ok := n.v.AsArray(); ok {
		return arr.Len()
	}
	if obj, ok := n.v.AsObject(); ok {
		return obj.Len()
	}
	return 0
}

func (n node[T]) Resolve(ptr string) (Node, bool) {
	v, ok := pointer.Resolve(n.v, ptr)
	if !ok {
		return nil, false
	}
	return node[T]{v: v}, true
}

func (n node[T]) Keys() ([]string, bool) {
	obj, ok := n.v.AsObject()
	if !ok {
		return nil, false
	}
	return obj.SortedKeys(), true
}

func (n node[T]) Children() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		switch jsontype.Classify(n.v) {
		case jsontype.Array:
			arr, _ := n.v.AsArray()
			for i, elem := range arr.All() {
				if !yield(strconv.Itoa(i), node[T]{v: elem}) {
					return
				}
			}
		case jsontype.Object:
			for _, k := range n.sortedKeys() {
				child, ok := n.v.Attribute(k)
				if !ok {
					continue
				}
				if !yield(k, node[T]{v: child}) {
					return
				}
			}
		}
	}
}

func (n node[T]) sortedKeys() []string {
	keys, _ := n.Keys()
	return keys
}

func (n node[T]) Canonical() value.Value {
	return value.From(n.v)
}
