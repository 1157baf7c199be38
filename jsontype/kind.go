package jsontype

import (
	"errors"
	"fmt"
)

// Kind is the primitive JSON type a value is classified as.
type Kind int

// The seven primitive kinds, declared in accessor order.
const (
	Array Kind = iota + 1
	Boolean
	Integer
	Null
	Number
	Object
	String
)

var kindNames = map[Kind]string{
	Array:   "array",
	Boolean: "boolean",
	Integer: "integer",
	Null:    "null",
	Number:  "number",
	Object:  "object",
	String:  "string",
}

// ErrUnsupportedKind is matched by every *UnsupportedKindError.
var ErrUnsupportedKind = errors.New("unsupported primitive type")

// UnsupportedKindError reports a type name that is not one of the seven kinds.
type UnsupportedKindError struct {
	Name string
}

// Error implements error interface
func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported primitive type %q: available types are array, boolean, integer, null, number, object, string", e.Name)
}

// Is makes errors.Is(err, ErrUnsupportedKind) hold for any UnsupportedKindError
func (e *UnsupportedKindError) Is(target error) bool {
	return target == ErrUnsupportedKind
}

// Kinds returns all kinds in accessor order.
func Kinds() []Kind {
	return []Kind{Array, Boolean, Integer, Null, Number, Object, String}
}

// String returns the JSON Schema name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the seven kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a JSON Schema type name to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return 0, &UnsupportedKindError{Name: name}
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
