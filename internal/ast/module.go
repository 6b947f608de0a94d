package ast

import (
	"c0/internal/ident"
	"c0/internal/source"
)

// Module owns a module path, its ordered items, and source spans.
// Modules are immutable after parse; resolution produces a parallel
// Module with references rewritten.
type Module struct {
	Path  ident.Path
	Items []Item
	Span  source.Span
}

// Visibility qualifies an item's accessibility.
type Visibility uint8

const (
	VisPrivate Visibility = iota
	VisProtected
	VisInternal
	VisPublic
)

func (v Visibility) String() string {
	switch v {
	case VisPrivate:
		return "priv"
	case VisProtected:
		return "protected"
	case VisInternal:
		return "internal"
	case VisPublic:
		return "pub"
	default:
		return "unknown"
	}
}
