package jsonvet

import (
	"strconv"
	"strings"
)

// Path is an ordered list of object keys and stringified array indices,
// root first.
type Path []string

// Key returns p extended by an object key.
func (p Path) Key(name string) Path {
	return append(append(Path{}, p...), name)
}

// Index returns p extended by an array index.
func (p Path) Index(i int) Path {
	return append(append(Path{}, p...), strconv.Itoa(i))
}

// String joins the segments with dots.
func (p Path) String() string { return strings.Join(p, ".") }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders p as an RFC 6901 JSON Pointer ("/" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(seg))
	}
	return b.String()
}

// Equal reports whether both paths hold the same segments.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}
