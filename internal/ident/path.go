// Package ident provides the identifier and module-path utilities that
// sit underneath every other pass: reserved-name tables, keyword sets,
// path equality, and symbol mangling.
package ident

import "strings"

// Path is an ordered sequence of module-path segments, e.g. ["std", "io"].
// Equality is byte-identity on each segment.
type Path []string

// QualifiedName is a module Path plus a trailing item name.
type QualifiedName struct {
	Module Path
	Name   string
}

// Equal reports whether two paths have the same segments in the same order.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// pathSep separates segments in Key/PathKey. It is a control character
// that cannot appear in a source identifier, so segmentation can never
// be ambiguous the way joining on "::" would be: Path{"a::b"} and
// Path{"a","b"} must produce distinct keys even though "::" is the
// surface path separator.
const pathSep = "\x1f"

// Key returns the canonical map-key form of the path.
func (p Path) Key() string {
	return strings.Join(p, pathSep)
}

// String renders the path in surface syntax, for diagnostics. Use Key
// for a map key.
func (p Path) String() string {
	return strings.Join(p, "::")
}

// Join appends a trailing name and returns the resulting QualifiedName.
func (p Path) Join(name string) QualifiedName {
	return QualifiedName{Module: p, Name: name}
}

// PathKey is the canonical map key for a QualifiedName: module path
// segments plus name, joined uniformly so two distinct qualified names
// never collide.
func (q QualifiedName) PathKey() string {
	if len(q.Module) == 0 {
		return q.Name
	}
	return q.Module.Key() + pathSep + q.Name
}

func (q QualifiedName) Equal(other QualifiedName) bool {
	return q.Module.Equal(other.Module) && q.Name == other.Name
}

// String renders the qualified name in surface syntax, for diagnostics.
// Use PathKey for a map key.
func (q QualifiedName) String() string {
	if len(q.Module) == 0 {
		return q.Name
	}
	return q.Module.String() + "::" + q.Name
}
