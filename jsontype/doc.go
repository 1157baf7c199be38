// Package jsontype defines the capability every backing representation of a
// JSON-like tree implements so that client code can classify and navigate it
// without knowing the concrete representation.
//
// # Classification
//
// A value is always exactly one of seven kinds:
//
//	array, boolean, integer, null, number, object, string
//
// The kind is not stored. Classify derives it by calling the As* accessors in
// that order and returning the first success. Integer and number are
// distinct: a representation that cannot tell 1 from 1.0 must pick one
// consistently.
//
// # Navigation
//
// Attribute and Index return an absent result (false) rather than an error
// when the key or position does not address a value, including when the
// value is of the wrong kind. Get offers the same through the sealed Index
// type.
//
// # Views
//
// AsArray returns an ArrayView with a known length. AsObject returns an
// ObjectView whose Keys and Values are projections of Entries. Object
// iteration order is unspecified; compare keys as sets.
package jsontype
