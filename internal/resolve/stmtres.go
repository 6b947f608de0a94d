package resolve

import (
	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/source"
)

// ResolveStmtSeq resolves statements in order. An empty sequence
// resolves to an empty sequence.
func (r *Resolver) ResolveStmtSeq(stmts []ast.Stmt) ([]ast.Stmt, bool) {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		rs, ok := r.ResolveStmt(s)
		if !ok {
			return nil, false
		}
		out = append(out, rs)
	}
	return out, true
}

// ResolveStmt rewrites one statement. Let/Var bind after their
// initializer resolves, so `let x = x` refers to the outer x.
func (r *Resolver) ResolveStmt(s ast.Stmt) (ast.Stmt, bool) {
	switch ss := s.(type) {
	case *ast.ExprStmt:
		v, ok := r.ResolveExpr(ss.Value)
		if !ok {
			return nil, false
		}
		out := &ast.ExprStmt{Value: v}
		out.Sp = ss.Sp
		return out, true

	case *ast.LetStmt:
		value, ok := r.ResolveExpr(ss.Value)
		if !ok {
			return nil, false
		}
		if !r.introBinding(ss.Name, ss.Shadow, ss.Sp) {
			return nil, false
		}
		out := &ast.LetStmt{Name: ss.Name, Type: ss.Type, Value: value, Shadow: ss.Shadow}
		out.Sp = ss.Sp
		return out, true

	case *ast.VarStmt:
		value, ok := r.ResolveExpr(ss.Value)
		if !ok {
			return nil, false
		}
		if !r.introBinding(ss.Name, ss.Shadow, ss.Sp) {
			return nil, false
		}
		out := &ast.VarStmt{Name: ss.Name, Type: ss.Type, Value: value, Shadow: ss.Shadow}
		out.Sp = ss.Sp
		return out, true

	case *ast.AssignStmt:
		target, ok := r.ResolveExpr(ss.Target)
		if !ok {
			return nil, false
		}
		value, ok := r.ResolveExpr(ss.Value)
		if !ok {
			return nil, false
		}
		out := &ast.AssignStmt{Op: ss.Op, Target: target, Value: value}
		out.Sp = ss.Sp
		return out, true

	case *ast.DeferStmt:
		r.Scope.PushLexical()
		action, ok := r.ResolveExpr(ss.Action)
		r.Scope.PopLexical()
		if !ok {
			return nil, false
		}
		out := &ast.DeferStmt{Action: action}
		out.Sp = ss.Sp
		return out, true

	case *ast.ReturnStmt:
		value, ok := r.ResolveExpr(ss.Value)
		if !ok {
			return nil, false
		}
		out := &ast.ReturnStmt{Value: value}
		out.Sp = ss.Sp
		return out, true

	case *ast.BreakStmt, *ast.ContinueStmt:
		return s, true

	default:
		return s, true
	}
}

func (r *Resolver) introBinding(name string, shadow bool, span source.Span) bool {
	entity := ast.Entity{Kind: ast.EntityLocal, Name: name, Span: span}
	if shadow {
		return r.Scope.ShadowIntro(name, entity, span)
	}
	return r.Scope.Intro(name, entity, span)
}

// ResolvePattern rewrites a pattern homomorphically. A record pattern
// whose path names an enum variant rather than a record falls back to
// the enum-record form.
func (r *Resolver) ResolvePattern(p ast.Pattern) (ast.Pattern, bool) {
	if p == nil {
		return nil, true
	}
	switch pp := p.(type) {
	case *ast.IdentPattern, *ast.WildcardPattern, *ast.LiteralPattern:
		return p, true

	case *ast.TuplePattern:
		elems := make([]ast.Pattern, 0, len(pp.Elems))
		for _, e := range pp.Elems {
			re, ok := r.ResolvePattern(e)
			if !ok {
				return nil, false
			}
			elems = append(elems, re)
		}
		out := &ast.TuplePattern{Elems: elems}
		out.Sp = pp.Sp
		return out, true

	case *ast.RecordPattern:
		return r.resolveRecordPattern(pp)

	case *ast.EnumPattern:
		fields, ok := r.resolveFieldPatterns(pp.Fields)
		if !ok {
			return nil, false
		}
		args, ok := r.resolvePatterns(pp.Args)
		if !ok {
			return nil, false
		}
		enum := pp.Enum
		if e, found := r.tryResolveEnumName(pp.Enum); found {
			enum = e.Origin.Join(declaredName(e))
		}
		out := &ast.EnumPattern{Enum: enum, Variant: pp.Variant, Args: args, Fields: fields, Fallback: pp.Fallback}
		out.Sp = pp.Sp
		return out, true

	case *ast.RangePattern:
		low, ok := r.ResolveExpr(pp.Low)
		if !ok {
			return nil, false
		}
		high, ok := r.ResolveExpr(pp.High)
		if !ok {
			return nil, false
		}
		out := &ast.RangePattern{Low: low, High: high, Exclusive: pp.Exclusive}
		out.Sp = pp.Sp
		return out, true

	default:
		return p, true
	}
}

func (r *Resolver) resolvePatterns(pats []ast.Pattern) ([]ast.Pattern, bool) {
	if pats == nil {
		return nil, true
	}
	out := make([]ast.Pattern, 0, len(pats))
	for _, p := range pats {
		rp, ok := r.ResolvePattern(p)
		if !ok {
			return nil, false
		}
		out = append(out, rp)
	}
	return out, true
}

func (r *Resolver) resolveFieldPatterns(fields []ast.FieldPattern) ([]ast.FieldPattern, bool) {
	if fields == nil {
		return nil, true
	}
	out := make([]ast.FieldPattern, 0, len(fields))
	for _, f := range fields {
		fp, ok := r.ResolvePattern(f.Pattern)
		if !ok {
			return nil, false
		}
		out = append(out, ast.FieldPattern{Name: f.Name, Pattern: fp})
	}
	return out, true
}

func (r *Resolver) resolveRecordPattern(pp *ast.RecordPattern) (ast.Pattern, bool) {
	fields, ok := r.resolveFieldPatterns(pp.Fields)
	if !ok {
		return nil, false
	}

	if e, found := r.tryResolveTypeName(pp.Type); found && e.Kind == ast.EntityRecord {
		out := &ast.RecordPattern{Type: e.Origin.Join(declaredName(e)), Fields: fields, Rest: pp.Rest}
		out.Sp = pp.Sp
		return out, true
	}

	// Enum-record fallback: path::name where path resolves to an enum
	// and name to one of its record variants.
	if len(pp.Type.Module) > 0 {
		enumModule := pp.Type.Module[:len(pp.Type.Module)-1]
		enumName := pp.Type.Module[len(pp.Type.Module)-1]
		q := ast.QualifiedExpr{Path: enumModule}
		q.Sp = pp.Sp
		if e, found := r.tryResolveEnum(enumModule, enumName, &q); found {
			if decl, isEnum := e.Target.(*ast.EnumItem); isEnum && variantOf(decl, pp.Type.Name) != nil {
				r.Spec.Rule(string(diag.RuleResolvePatEnumRecord), pp.Sp, map[string]string{"name": pp.Type.Name})
				out := &ast.EnumPattern{Enum: e.Origin.Join(declaredName(e)), Variant: pp.Type.Name, Fields: fields}
				out.Sp = pp.Sp
				return out, true
			}
		}
	}

	r.report(diag.RuleResolveQualFail, pp.Sp, map[string]string{"path": pp.Type.Module.String(), "name": pp.Type.Name})
	return nil, false
}

func (r *Resolver) tryResolveTypeName(q ident.QualifiedName) (ast.Entity, bool) {
	if len(q.Module) == 0 {
		if e, ok := r.Scope.Lookup(q.Name); ok && e.IsTypeKind() {
			return e, true
		}
		if m, ok := r.Table[r.Module.Key()]; ok {
			if e, ok := m[q.Name]; ok && e.IsTypeKind() {
				return e, true
			}
		}
		return ast.Entity{}, false
	}
	return r.TryResolveQualified(q.Module, q.Name, KindType, source.Span{})
}

func (r *Resolver) tryResolveEnumName(q ident.QualifiedName) (ast.Entity, bool) {
	e, ok := r.tryResolveTypeName(q)
	if !ok || e.Kind != ast.EntityEnum {
		return ast.Entity{}, false
	}
	return e, true
}

// BindPattern introduces every name a resolved pattern binds into the
// current scope. Intro rejects duplicates within the pattern.
func (r *Resolver) BindPattern(p ast.Pattern) bool {
	for _, name := range ast.PatNames(p) {
		entity := ast.Entity{Kind: ast.EntityLocal, Name: name, Span: p.Span()}
		if !r.Scope.Intro(name, entity, p.Span()) {
			return false
		}
	}
	return true
}
