package jsontype

import (
	"iter"
	"slices"
)

// ArrayView is a read-only view over the elements of an array-classified value.
type ArrayView[T any] struct {
	n  int
	at func(i int) T
}

// NewArrayView builds a view of n elements, at(i) returning element i.
// at is only called with 0 <= i < n.
func NewArrayView[T any](n int, at func(i int) T) ArrayView[T] {
	return ArrayView[T]{n: n, at: at}
}

// SliceView is a convenience for representations that keep elements in a slice.
func SliceView[E, T any](elems []E, wrap func(E) T) ArrayView[T] {
	return NewArrayView(len(elems), func(i int) T { return wrap(elems[i]) })
}

// Len returns the number of elements.
func (a ArrayView[T]) Len() int {
	return a.n
}

// At returns element i, or false when i is out of range.
func (a ArrayView[T]) At(i int) (T, bool) {
	if i < 0 || i >= a.n {
		var zero T
		return zero, false
	}
	return a.at(i), true
}

// All yields every element with its position.
func (a ArrayView[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < a.n; i++ {
			if !yield(i, a.at(i)) {
				return
			}
		}
	}
}

// Values yields every element.
func (a ArrayView[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range a.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// ObjectView exposes the entries of an object-classified value.
//
// Iteration order is defined by the backing representation and carries no
// meaning. Each key is yielded exactly once.
type ObjectView[T any] struct {
	n       int
	entries iter.Seq2[string, T]
}

// NewObjectView builds a view over n entries.
func NewObjectView[T any](n int, entries iter.Seq2[string, T]) ObjectView[T] {
	return ObjectView[T]{n: n, entries: entries}
}

// MapView is a convenience for representations that keep entries in a map.
func MapView[E, T any](m map[string]E, wrap func(E) T) ObjectView[T] {
	return NewObjectView(len(m), func(yield func(string, T) bool) {
		for k, v := range m {
			if !yield(k, wrap(v)) {
				return
			}
		}
	})
}

// Len returns the number of entries.
func (o ObjectView[T]) Len() int {
	return o.n
}

// Entries yields every key/value pair.
func (o ObjectView[T]) Entries() iter.Seq2[string, T] {
	if o.entries == nil {
		return func(func(string, T) bool) {}
	}
	return o.entries
}

// Keys yields every key.
func (o ObjectView[T]) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range o.Entries() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields every value.
func (o ObjectView[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range o.Entries() {
			if !yield(v) {
				return
			}
		}
	}
}

// SortedKeys returns the keys in lexical order.
func (o ObjectView[T]) SortedKeys() []string {
	return slices.Sorted(o.Keys())
}
