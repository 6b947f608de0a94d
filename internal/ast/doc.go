// Package ast defines the shared data model that every pass in the
// semantic middle end reads and rewrites: modules, items, syntactic and
// resolved types, expressions, statements, patterns, entities and
// scopes.
//
// Nodes are immutable after construction. Resolution never mutates a
// node in place; it produces a new, parallel tree with references
// rewritten. Every node carries its own source.Span so diagnostics and
// span-preservation checks can inspect it directly.
//
// Tagged variants (TypeExpr, TypeRef, Expr, Stmt, Pattern, Item) are modelled as a
// small sealed interface plus one concrete struct per variant, matched
// with a type switch at each consumer, rather than a visitor hierarchy.
package ast
