package jsontype

import (
	"fmt"
	"math/big"
)

// Value is the capability a backing representation implements to be
// navigated and classified. T is the representation's own value type, so
// navigation never leaves the representation:
//
//	type Node struct{ ... }
//	func (n Node) Attribute(name string) (Node, bool) { ... }
//
// Every method is a pure read. Implementations must be safe to share
// between concurrent readers.
//
// The As* accessors should be disjoint. When a representation cannot keep them
// disjoint, Classify breaks the tie by accessor order: array, boolean, integer,
// null, number, object, string.
type Value[T any] interface {
	AsArray() (ArrayView[T], bool)
	AsBoolean() (bool, bool)
	// AsInteger returns a fresh *big.Int the caller may modify.
	AsInteger() (*big.Int, bool)
	AsNull() bool
	AsNumber() (float64, bool)
	AsObject() (ObjectView[T], bool)
	AsString() (string, bool)

	// Attribute looks up name on an object. Absent for any other kind.
	Attribute(name string) (T, bool)
	// Index looks up position i on an array. Absent for any other kind
	// and when i is out of range.
	Index(i int) (T, bool)
}

// Classify returns the kind of v by probing in the fixed order.
// It panics if v satisfies no accessor, which is an adapter bug.
func Classify[T Value[T]](v T) Kind {
	switch {
	case IsArray(v):
		return Array
	case IsBoolean(v):
		return Boolean
	case IsInteger(v):
		return Integer
	case IsNull(v):
		return Null
	case IsNumber(v):
		return Number
	case IsObject(v):
		return Object
	case IsString(v):
		return String
	}
	panic(fmt.Sprintf("jsontype: %T satisfies no classification accessor", v))
}

// IsArray reports whether v is an array.
func IsArray[T Value[T]](v T) bool {
	_, ok := v.AsArray()
	return ok
}

// IsBoolean reports whether v is a boolean.
func IsBoolean[T Value[T]](v T) bool {
	_, ok := v.AsBoolean()
	return ok
}

// IsInteger reports whether v is an integer.
func IsInteger[T Value[T]](v T) bool {
	_, ok := v.AsInteger()
	return ok
}

// IsNull reports whether v is null.
func IsNull[T Value[T]](v T) bool {
	return v.AsNull()
}

// IsNumber reports whether v is a number.
func IsNumber[T Value[T]](v T) bool {
	_, ok := v.AsNumber()
	return ok
}

// IsObject reports whether v is an object.
func IsObject[T Value[T]](v T) bool {
	_, ok := v.AsObject()
	return ok
}

// IsString reports whether v is a string.
func IsString[T Value[T]](v T) bool {
	_, ok := v.AsString()
	return ok
}

// HasAttribute reports whether v is an object holding name.
func HasAttribute[T Value[T]](v T, name string) bool {
	_, ok := v.Attribute(name)
	return ok
}
