package ast

import (
	"c0/internal/ident"
	"c0/internal/source"
)

// Expr is an expression node, pre- or post-resolution. The
// resolver rewrites a tree of Expr in place conceptually: functionally,
// by returning a new tree sharing unresolved substructure.
type Expr interface {
	exprNode()
	Span() source.Span
}

type baseExpr struct{ Sp source.Span }

func (b baseExpr) Span() source.Span { return b.Sp }

// IdentExpr is a bare identifier use, pre-resolution.
type IdentExpr struct {
	baseExpr
	Name string
}

func (IdentExpr) exprNode() {}

// QualifiedExpr is `a::b` (optionally applied with `(args)` or
// `{fields}`), pre-resolution. The resolver disambiguates it among
// value path / record constructor / enum variant / builtin and
// rewrites it to one of PathExpr / CallExpr / RecordExpr / EnumLiteralExpr.
type QualifiedExpr struct {
	baseExpr
	Path   ident.Path
	Name   string
	Args   []Expr       // non-nil only if written as a(...); mutually exclusive with Fields
	Fields []FieldInit  // non-nil only if written as a{...}
}

func (QualifiedExpr) exprNode() {}

type FieldInit struct {
	Name  string
	Value Expr
	Span  source.Span
}

// PathExpr is a canonical resolved value-path reference.
type PathExpr struct {
	baseExpr
	Module ident.Path
	Name   string
}

func (PathExpr) exprNode() {}

// CallExpr is a resolved function application.
type CallExpr struct {
	baseExpr
	Callee Expr
	Args   []Expr
}

func (CallExpr) exprNode() {}

// RecordExpr is a resolved record-literal / record-variant construction.
type RecordExpr struct {
	baseExpr
	Type   ident.QualifiedName
	Fields []FieldInit
}

func (RecordExpr) exprNode() {}

// EnumLiteralExpr is a resolved enum-variant construction (unit, tuple,
// or record payload).
type EnumLiteralExpr struct {
	baseExpr
	Enum    ident.QualifiedName
	Variant string
	Args    []Expr
	Fields  []FieldInit
}

func (EnumLiteralExpr) exprNode() {}

// AllocExpr is `^value` or `r^value`. RegionAlias
// is "" for the bare `^value` form (uses the innermost enclosing region).
type AllocExpr struct {
	baseExpr
	RegionAlias string
	Value       Expr
}

func (AllocExpr) exprNode() {}

// MatchArm is one arm of a MatchExpr.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    Expr
	Span    source.Span
}

type MatchExpr struct {
	baseExpr
	Scrutinee Expr
	Arms      []MatchArm
}

func (MatchExpr) exprNode() {}

// BlockExpr pushes a scope, resolves statements in order, then the
// optional tail expression.
type BlockExpr struct {
	baseExpr
	Stmts []Stmt
	Tail  Expr // optional
}

func (BlockExpr) exprNode() {}

// ForInExpr is `for pat in iter { body }`.
type ForInExpr struct {
	baseExpr
	Pattern Pattern
	Iter    Expr
	Body    Expr
}

func (ForInExpr) exprNode() {}

// RegionExpr is `region r? (opts)? { body }`.
// Alias is "" when no `r` name is bound.
type RegionExpr struct {
	baseExpr
	Alias   string
	Options Expr // optional
	Body    Expr
}

func (RegionExpr) exprNode() {}

// FrameExpr is `frame f? in r? { body }`.
type FrameExpr struct {
	baseExpr
	Alias        string
	TargetRegion string // optional outer region alias
	Body         Expr
}

func (FrameExpr) exprNode() {}

type BinaryOp string

type BinaryExpr struct {
	baseExpr
	Op          BinaryOp
	Left, Right Expr
}

func (BinaryExpr) exprNode() {}

type UnaryOp string

type UnaryExpr struct {
	baseExpr
	Op      UnaryOp
	Operand Expr
}

func (UnaryExpr) exprNode() {}

type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitChar
	LitString
	LitUnit
)

type LiteralExpr struct {
	baseExpr
	Kind LiteralKind
	Text string
}

func (LiteralExpr) exprNode() {}

type TupleExpr struct {
	baseExpr
	Elems []Expr
}

func (TupleExpr) exprNode() {}

// IndexExpr covers both array indexing (direct, const-checked) and
// slice range-indexing.
type IndexExpr struct {
	baseExpr
	Base    Expr
	Index   Expr
	IsRange bool
}

func (IndexExpr) exprNode() {}

// FieldAccessExpr is `base.name`, used for modal state-method receivers
// and plain record field reads alike.
type FieldAccessExpr struct {
	baseExpr
	Base Expr
	Name string
}

func (FieldAccessExpr) exprNode() {}

// CastExpr is `value as Target` (or a transmute, when Unsafe is set).
// The init planner reads Target as a type-position reference.
type CastExpr struct {
	baseExpr
	Value  Expr
	Target TypeExpr
	Unsafe bool
}

func (CastExpr) exprNode() {}

// MethodCallExpr is `base.name(args)`, left distinct from a plain call
// over a FieldAccessExpr because modal dispatch needs the receiver type
// to pick between a state method and a transition.
type MethodCallExpr struct {
	baseExpr
	Base Expr
	Name string
	Args []Expr
}

func (MethodCallExpr) exprNode() {}
