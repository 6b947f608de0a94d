package ast

import (
	"c0/internal/ident"
	"c0/internal/source"
)

// EntityKind classifies what a bound name resolves to.
type EntityKind uint8

const (
	EntityModule EntityKind = iota
	EntityStatic
	EntityProcedure
	EntityRecord
	EntityEnum
	EntityModal
	EntityClass
	EntityTypeAlias
	EntityError
	EntityUsing
	EntityLocal
	EntityParam
	EntityBuiltin
)

func (k EntityKind) String() string {
	switch k {
	case EntityModule:
		return "module"
	case EntityStatic:
		return "static"
	case EntityProcedure:
		return "procedure"
	case EntityRecord:
		return "record"
	case EntityEnum:
		return "enum"
	case EntityModal:
		return "modal"
	case EntityClass:
		return "class"
	case EntityTypeAlias:
		return "type-alias"
	case EntityError:
		return "error"
	case EntityUsing:
		return "using"
	case EntityLocal:
		return "local"
	case EntityParam:
		return "param"
	case EntityBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// EntitySource records how a binding entered its scope: a direct
// declaration, a using re-export, or a region alias bound by an
// enclosing `region r { … }`.
type EntitySource uint8

const (
	SourceDecl EntitySource = iota
	SourceUsing
	SourceRegionAlias
)

// Entity is what a name in a scope is bound to: the module that
// declared it (Origin) and the item behind it (Target). For a `using`
// re-export, Target is the item the chain ultimately points at after
// the fixed-point collector resolves it.
type Entity struct {
	Kind   EntityKind
	Name   string
	Origin ident.Path // declaring module
	Target Item       // nil for locals, parameters, region aliases and module entities
	Source EntitySource
	Vis    Visibility
	Span   source.Span
}

// IsValueKind reports whether the entity can stand in a value position.
func (e Entity) IsValueKind() bool {
	switch e.Kind {
	case EntityStatic, EntityProcedure, EntityLocal, EntityParam, EntityBuiltin:
		return true
	default:
		return false
	}
}

// IsTypeKind reports whether the entity can stand in a type position.
func (e Entity) IsTypeKind() bool {
	switch e.Kind {
	case EntityRecord, EntityEnum, EntityModal, EntityTypeAlias, EntityBuiltin:
		return true
	default:
		return false
	}
}
