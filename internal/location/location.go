package location

import (
	"path"
	"strings"
)

// Location is a path in the generated site or an absolute URL.
//
// Internal locations are rooted posix paths ("/html/index.html"). The zero
// value means "no location".
type Location string

// None is the zero Location.
const None Location = ""

// FromPath builds a rooted internal location from slash-separated elements.
func FromPath(elem ...string) Location {
	return Location(path.Join(append([]string{"/"}, elem...)...))
}

// IsZero reports whether l is unset.
func (l Location) IsZero() bool {
	return l == None
}

// IsExternal reports whether l is an absolute http(s) URL.
func (l Location) IsExternal() bool {
	s := strings.ToLower(string(l))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsDir reports whether l names a directory: a trailing slash, or a final
// element without an extension.
func (l Location) IsDir() bool {
	s := string(l)
	if strings.HasSuffix(s, "/") {
		return true
	}
	return path.Ext(path.Base(s)) == ""
}

// Dir returns the directory containing l, or l itself when l is a directory.
func (l Location) Dir() Location {
	if l.IsDir() {
		return Location(clean(string(l)))
	}
	return Location(path.Dir(clean(string(l))))
}

// Join appends elements below l.
func (l Location) Join(elem ...string) Location {
	return Location(path.Join(append([]string{clean(string(l))}, elem...)...))
}

// Base returns the final element of l.
func (l Location) Base() string {
	return path.Base(string(l))
}

// String implements fmt.Stringer.
func (l Location) String() string {
	return string(l)
}

// Rel returns loc relative to from.
//
//   - a zero loc yields a zero result
//   - a zero from returns loc unchanged
//   - external locations are never relativized
//   - otherwise the result is relative to the directory containing from, or
//     to from itself when it names a directory
//
// Rel(x, x) is "." for every internal x.
func Rel(loc, from Location) Location {
	if loc.IsZero() {
		return None
	}
	if from.IsZero() || loc.IsExternal() || from.IsExternal() {
		return loc
	}
	if clean(string(loc)) == clean(string(from)) {
		return "."
	}
	return Location(relPath(string(loc), string(from.Dir())))
}

// clean roots p and removes redundant separators and dot elements.
func clean(p string) string {
	return path.Clean("/" + p)
}

func segments(p string) []string {
	p = strings.Trim(clean(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func relPath(target, base string) string {
	t := segments(target)
	b := segments(base)

	i := 0
	for i < len(t) && i < len(b) && t[i] == b[i] {
		i++
	}

	parts := make([]string, 0, len(b)-i+len(t)-i)
	for j := i; j < len(b); j++ {
		parts = append(parts, "..")
	}
	parts = append(parts, t[i:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}
