package value

import (
	"slices"
	"strconv"
	"strings"

	"github.com/mcncl/jsontrait/jsontype"
)

// String renders v compactly: null, true, 1, 2.3, "s", [1,2.3,false],
// {"k":1}. Object keys are written in lexical order.
func (v Value) String() string {
	var sb strings.Builder
	v.writeTo(&sb)
	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.Kind() {
	case jsontype.Null:
		sb.WriteString("null")
	case jsontype.Boolean:
		sb.WriteString(strconv.FormatBool(v.b))
	case jsontype.Integer:
		sb.WriteString(v.i.String())
	case jsontype.Number:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case jsontype.String:
		sb.WriteString(strconv.Quote(v.s))
	case jsontype.Array:
		sb.WriteByte('[')
		for i, elem := range v.list {
			if i > 0 {
				sb.WriteByte(',')
			}
			elem.writeTo(sb)
		}
		sb.WriteByte(']')
	case jsontype.Object:
		sb.WriteByte('{')
		for i, k := range v.sortedKeys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			v.obj[k].writeTo(sb)
		}
		sb.WriteByte('}')
	}
}

func (v Value) sortedKeys() []string {
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
