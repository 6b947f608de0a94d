package ast

import (
	"c0/internal/ident"
	"c0/internal/source"
)

// Item is a top-level module member.
type Item interface {
	itemNode()
	Span() source.Span
	ItemName() string
}

type baseItem struct {
	Sp   source.Span
	Name string
}

func (b baseItem) Span() source.Span { return b.Sp }
func (b baseItem) ItemName() string  { return b.Name }

// UsingSpec is one `(name, alias?)` entry of a list-form using clause.
// Name "self" binds the target module itself under the alias.
type UsingSpec struct {
	Name  string
	Alias string
	Span  source.Span
}

// UsingItem is a using clause consumed by the fixed-point name
// collector, in one of three forms: a single path (TargetName set), a
// wildcard over a module (TargetName empty, Specs nil), or a list
// (Specs set). Name is the bound local name for the path form: Alias
// if given, else TargetName.
type UsingItem struct {
	baseItem
	TargetModule ident.Path
	TargetName   string
	Alias        string
	Specs        []UsingSpec
	Vis          Visibility
}

func (UsingItem) itemNode() {}

// Param is one procedure/transition/method parameter.
type Param struct {
	Name string
	Type TypeExpr
	Span source.Span
}

// StaticItem is a module-scope `static` binding. Pattern is nil for the
// common single-name form; when present, the item binds the full
// identifier set of the destructuring pattern instead of Name.
type StaticItem struct {
	baseItem
	Pattern Pattern
	Type    TypeExpr
	Value   Expr
	Vis     Visibility
}

func (StaticItem) itemNode() {}

// ProcedureItem is a free function.
type ProcedureItem struct {
	baseItem
	Params  []Param
	Ret     TypeExpr
	Body    Expr
	Vis     Visibility
	IsAsync bool
}

func (ProcedureItem) itemNode() {}

// Field is one record/modal-state field.
type Field struct {
	Name string
	Type TypeExpr
	Vis  Visibility
	Span source.Span
}

// RecordItem is a plain record type. Implements lists the classes the
// record explicitly declares; the bitcopy classifier consults it for an
// explicit `implements Bitcopy`.
type RecordItem struct {
	baseItem
	Fields     []Field
	Implements []ident.QualifiedName
	Vis        Visibility
}

func (RecordItem) itemNode() {}

// EnumVariant is one case of an EnumItem: unit, tuple-payload, or
// record-payload.
type EnumVariant struct {
	Name   string
	Args   []TypeExpr
	Fields []Field
	Span   source.Span
}

type EnumItem struct {
	baseItem
	Variants   []EnumVariant
	Implements []ident.QualifiedName
	Vis        Visibility
}

func (EnumItem) itemNode() {}

// StateMethod is a method defined inside one ModalStateBlock, callable
// only while the receiver is in that state.
type StateMethod struct {
	Name    string
	Params  []Param
	Ret     TypeExpr
	Body    Expr
	Vis     Visibility
	Span    source.Span
}

// Transition is a `-> NextState` method that moves the receiver from
// one named state to another.
type Transition struct {
	Name    string
	Params  []Param
	Ret     TypeExpr
	ToState string
	Body    Expr
	Vis     Visibility
	Span    source.Span
}

// ModalStateBlock is one named state of a ModalItem, with its own field
// set, per-state interface (StateMethods) and outgoing Transitions.
type ModalStateBlock struct {
	Name        string
	Fields      []Field
	Interfaces  []ident.QualifiedName
	Methods     []StateMethod
	Transitions []Transition
	Span        source.Span
}

// ModalItem is a modal type: a closed set of named states sharing an
// identity, each with its own field layout and method/transition set.
type ModalItem struct {
	baseItem
	Generics   []string
	States     []ModalStateBlock
	Implements []ident.QualifiedName
	Vis        Visibility
}

func (ModalItem) itemNode() {}

// ClassMethod is a method or default-method declared on a class,
// consumed by C3 linearization and dispatchability checks. Receiver is
// the declared receiver type (by-value Self disqualifies the method
// from vtable dispatch); Generics lists method-level type parameters,
// which likewise disqualify it.
type ClassMethod struct {
	Name               string
	Receiver           TypeExpr // nil for static methods
	Params             []Param
	Ret                TypeExpr
	Body               Expr // nil if abstract (no default body)
	Generics           []string
	StaticDispatchOnly bool
	Span               source.Span
}

// ClassItem is a class: a named set of method signatures, abstract
// fields, associated types, and abstract states, optionally extending
// other classes via multiple inheritance, linearized with C3.
type ClassItem struct {
	baseItem
	Bases          []ident.QualifiedName
	Methods        []ClassMethod
	Fields         []Field
	AssocTypes     []string
	AbstractStates []string
	Vis            Visibility
}

func (ClassItem) itemNode() {}

// TypeAliasItem binds a name to another type expression.
type TypeAliasItem struct {
	baseItem
	Target TypeExpr
	Vis    Visibility
}

func (TypeAliasItem) itemNode() {}

// ErrorItem is the placeholder for a top-level item that failed to
// parse. It binds no name: the collector and resolver pass over it,
// and the init planner only records type dependencies of its Fields.
type ErrorItem struct {
	baseItem
	Fields []Field
	Vis    Visibility
}

func (ErrorItem) itemNode() {}
