package pointer

import (
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsontrait/jsontype"
)

// Resolve returns the value fragment addresses inside root.
//
// Objects are entered by attribute name and arrays by a non-negative
// base-10 index, optionally written with one leading "+". A component that cannot address the current value (a
// missing key, a non-numeric or out of range index, any scalar or null)
// makes the result absent, and the remaining components are not looked at.
func Resolve[T jsontype.Value[T]](root T, fragment string) (T, bool) {
	return ResolveComponents(root, Parse(fragment))
}

// ResolveComponents is Resolve for an already parsed fragment.
func ResolveComponents[T jsontype.Value[T]](root T, components []string) (T, bool) {
	var zero T
	current := root
	for _, component := range components {
		var (
			next T
			ok   bool
		)
		switch jsontype.Classify(current) {
		case jsontype.Object:
			next, ok = current.Attribute(component)
		case jsontype.Array:
			if idx, err := parseIndex(component); err == nil {
				next, ok = current.Index(idx)
			}
		}
		if !ok {
			return zero, false
		}
		current = next
	}
	return current, true
}

// Has reports whether fragment addresses a value inside root.
func Has[T jsontype.Value[T]](root T, fragment string) bool {
	_, ok := Resolve(root, fragment)
	return ok
}

// parseIndex reads an array index: base-10 digits with at most one leading
// "+".
func parseIndex(component string) (int, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(component, "+"), 10, 0)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt {
		return 0, strconv.ErrRange
	}
	return int(n), nil
}
