// Package pointer parses JSON Pointer style fragments and resolves them
// against any jsontype value.
//
// A fragment is a sequence of /-separated components. "" addresses the
// root, "/a/0/b" addresses key a, then index 0, then key b. Inside a
// component "~1" stands for "/" and "~0" for "~".
package pointer

import "strings"

// Parse splits a fragment into unescaped components.
//
// The empty fragment yields no components. Otherwise one leading "/" is
// stripped; a fragment without it is read the same way, so "p3/p4" yields
// ["p3" "p4"] and "/" yields the single empty key [""]. Only that one slash
// is removed, unlike trimming every leading slash, which would make "/"
// the root. Components are not validated here: whether one can address an
// object key or an array index is decided during resolution.
func Parse(fragment string) []string {
	if fragment == "" {
		return []string{}
	}
	parts := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	for i, part := range parts {
		parts[i] = Unescape(part)
	}
	return parts
}

// Format builds a fragment from components, escaping each of them.
func Format(components []string) string {
	var sb strings.Builder
	for _, c := range components {
		sb.WriteByte('/')
		sb.WriteString(Escape(c))
	}
	return sb.String()
}

// Unescape decodes a single component. "~1" is replaced before "~0" in a
// separate pass, so "~01" decodes to "~1" and not "/".
func Unescape(component string) string {
	if !strings.Contains(component, "~") {
		return component
	}
	component = strings.ReplaceAll(component, "~1", "/")
	return strings.ReplaceAll(component, "~0", "~")
}

// Escape encodes a single component; it is the inverse of Unescape.
func Escape(component string) string {
	component = strings.ReplaceAll(component, "~", "~0")
	return strings.ReplaceAll(component, "/", "~1")
}

// Append returns fragment extended by one escaped component.
func Append(fragment, component string) string {
	return fragment + "/" + Escape(component)
}
