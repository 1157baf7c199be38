package jsontype

// Index addresses a child of a value. The set of implementations is closed:
// Position for arrays and Name for objects.
type Index interface {
	isIndex()
}

// Position addresses an array element.
type Position int

// Name addresses an object attribute.
type Name string

func (Position) isIndex() {}
func (Name) isIndex()     {}

// Get resolves idx against v.
func Get[T Value[T]](v T, idx Index) (T, bool) {
	switch i := idx.(type) {
	case Position:
		return v.Index(int(i))
	case Name:
		return v.Attribute(string(i))
	}
	var zero T
	return zero, false
}
