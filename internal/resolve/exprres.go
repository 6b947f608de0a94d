package resolve

import (
	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
)

// ResolveExpr rewrites an expression with every reference bound. The
// rewrite preserves spans: each produced node carries the span of the
// node it replaces. Resolving an already-resolved node is a no-op.
func (r *Resolver) ResolveExpr(e ast.Expr) (ast.Expr, bool) {
	if e == nil {
		return nil, true
	}
	switch ee := e.(type) {
	case *ast.IdentExpr:
		return r.resolveIdent(ee)

	case *ast.QualifiedExpr:
		return r.resolveQualifiedExpr(ee)

	case *ast.PathExpr:
		return ee, true

	case *ast.CallExpr:
		callee, ok := r.ResolveExpr(ee.Callee)
		if !ok {
			return nil, false
		}
		args, ok := r.resolveExprs(ee.Args)
		if !ok {
			return nil, false
		}
		out := &ast.CallExpr{Callee: callee, Args: args}
		out.Sp = ee.Sp
		return out, true

	case *ast.RecordExpr:
		fields, ok := r.resolveFieldInits(ee.Fields)
		if !ok {
			return nil, false
		}
		out := &ast.RecordExpr{Type: ee.Type, Fields: fields}
		out.Sp = ee.Sp
		return out, true

	case *ast.EnumLiteralExpr:
		args, ok := r.resolveExprs(ee.Args)
		if !ok {
			return nil, false
		}
		fields, ok := r.resolveFieldInits(ee.Fields)
		if !ok {
			return nil, false
		}
		out := &ast.EnumLiteralExpr{Enum: ee.Enum, Variant: ee.Variant, Args: args, Fields: fields}
		out.Sp = ee.Sp
		return out, true

	case *ast.AllocExpr:
		if ee.RegionAlias != "" {
			bound, ok := r.Scope.Lookup(ee.RegionAlias)
			if !ok || bound.Source != ast.SourceRegionAlias {
				r.report(diag.RuleResolveRegionAliasNot, ee.Sp, map[string]string{"name": ee.RegionAlias})
				return nil, false
			}
		}
		value, ok := r.ResolveExpr(ee.Value)
		if !ok {
			return nil, false
		}
		out := &ast.AllocExpr{RegionAlias: ee.RegionAlias, Value: value}
		out.Sp = ee.Sp
		return out, true

	case *ast.MatchExpr:
		return r.resolveMatch(ee)

	case *ast.BlockExpr:
		r.Scope.PushLexical()
		defer r.Scope.PopLexical()
		stmts, ok := r.ResolveStmtSeq(ee.Stmts)
		if !ok {
			return nil, false
		}
		tail, ok := r.ResolveExpr(ee.Tail)
		if !ok {
			return nil, false
		}
		out := &ast.BlockExpr{Stmts: stmts, Tail: tail}
		out.Sp = ee.Sp
		return out, true

	case *ast.ForInExpr:
		iter, ok := r.ResolveExpr(ee.Iter)
		if !ok {
			return nil, false
		}
		r.Scope.PushLexical()
		defer r.Scope.PopLexical()
		pat, ok := r.ResolvePattern(ee.Pattern)
		if !ok {
			return nil, false
		}
		if !r.BindPattern(pat) {
			return nil, false
		}
		body, ok := r.ResolveExpr(ee.Body)
		if !ok {
			return nil, false
		}
		out := &ast.ForInExpr{Pattern: pat, Iter: iter, Body: body}
		out.Sp = ee.Sp
		return out, true

	case *ast.RegionExpr:
		opts, ok := r.ResolveExpr(ee.Options)
		if !ok {
			return nil, false
		}
		r.Scope.PushLexical()
		defer r.Scope.PopLexical()
		if ee.Alias != "" {
			entity := ast.Entity{Kind: ast.EntityLocal, Name: ee.Alias, Source: ast.SourceRegionAlias, Span: ee.Sp}
			if !r.Scope.Intro(ee.Alias, entity, ee.Sp) {
				return nil, false
			}
		}
		body, ok := r.ResolveExpr(ee.Body)
		if !ok {
			return nil, false
		}
		out := &ast.RegionExpr{Alias: ee.Alias, Options: opts, Body: body}
		out.Sp = ee.Sp
		return out, true

	case *ast.FrameExpr:
		if ee.TargetRegion != "" {
			bound, ok := r.Scope.Lookup(ee.TargetRegion)
			if !ok || bound.Source != ast.SourceRegionAlias {
				r.report(diag.RuleResolveRegionAliasNot, ee.Sp, map[string]string{"name": ee.TargetRegion})
				return nil, false
			}
		}
		r.Scope.PushLexical()
		defer r.Scope.PopLexical()
		if ee.Alias != "" {
			entity := ast.Entity{Kind: ast.EntityLocal, Name: ee.Alias, Source: ast.SourceRegionAlias, Span: ee.Sp}
			if !r.Scope.Intro(ee.Alias, entity, ee.Sp) {
				return nil, false
			}
		}
		body, ok := r.ResolveExpr(ee.Body)
		if !ok {
			return nil, false
		}
		out := &ast.FrameExpr{Alias: ee.Alias, TargetRegion: ee.TargetRegion, Body: body}
		out.Sp = ee.Sp
		return out, true

	case *ast.BinaryExpr:
		left, ok := r.ResolveExpr(ee.Left)
		if !ok {
			return nil, false
		}
		right, ok := r.ResolveExpr(ee.Right)
		if !ok {
			return nil, false
		}
		out := &ast.BinaryExpr{Op: ee.Op, Left: left, Right: right}
		out.Sp = ee.Sp
		return out, true

	case *ast.UnaryExpr:
		operand, ok := r.ResolveExpr(ee.Operand)
		if !ok {
			return nil, false
		}
		out := &ast.UnaryExpr{Op: ee.Op, Operand: operand}
		out.Sp = ee.Sp
		return out, true

	case *ast.LiteralExpr:
		return ee, true

	case *ast.TupleExpr:
		elems, ok := r.resolveExprs(ee.Elems)
		if !ok {
			return nil, false
		}
		out := &ast.TupleExpr{Elems: elems}
		out.Sp = ee.Sp
		return out, true

	case *ast.IndexExpr:
		base, ok := r.ResolveExpr(ee.Base)
		if !ok {
			return nil, false
		}
		index, ok := r.ResolveExpr(ee.Index)
		if !ok {
			return nil, false
		}
		out := &ast.IndexExpr{Base: base, Index: index, IsRange: ee.IsRange}
		out.Sp = ee.Sp
		return out, true

	case *ast.FieldAccessExpr:
		base, ok := r.ResolveExpr(ee.Base)
		if !ok {
			return nil, false
		}
		out := &ast.FieldAccessExpr{Base: base, Name: ee.Name}
		out.Sp = ee.Sp
		return out, true

	case *ast.MethodCallExpr:
		base, ok := r.ResolveExpr(ee.Base)
		if !ok {
			return nil, false
		}
		args, ok := r.resolveExprs(ee.Args)
		if !ok {
			return nil, false
		}
		out := &ast.MethodCallExpr{Base: base, Name: ee.Name, Args: args}
		out.Sp = ee.Sp
		return out, true

	case *ast.CastExpr:
		value, ok := r.ResolveExpr(ee.Value)
		if !ok {
			return nil, false
		}
		out := &ast.CastExpr{Value: value, Target: ee.Target, Unsafe: ee.Unsafe}
		out.Sp = ee.Sp
		return out, true

	default:
		return e, true
	}
}

func (r *Resolver) resolveExprs(exprs []ast.Expr) ([]ast.Expr, bool) {
	if exprs == nil {
		return nil, true
	}
	out := make([]ast.Expr, 0, len(exprs))
	for _, e := range exprs {
		re, ok := r.ResolveExpr(e)
		if !ok {
			return nil, false
		}
		out = append(out, re)
	}
	return out, true
}

func (r *Resolver) resolveFieldInits(fields []ast.FieldInit) ([]ast.FieldInit, bool) {
	if fields == nil {
		return nil, true
	}
	out := make([]ast.FieldInit, 0, len(fields))
	for _, f := range fields {
		v, ok := r.ResolveExpr(f.Value)
		if !ok {
			return nil, false
		}
		out = append(out, ast.FieldInit{Name: f.Name, Value: v, Span: f.Span})
	}
	return out, true
}

func (r *Resolver) resolveIdent(ee *ast.IdentExpr) (ast.Expr, bool) {
	// The receiver keyword is bound implicitly by method bodies.
	if ee.Name == "self" {
		return ee, true
	}
	e, found := r.Scope.Lookup(ee.Name)
	if !found {
		if m, ok := r.Table[r.Module.Key()]; ok {
			e, found = m[ee.Name]
		}
	}
	if !found || !e.IsValueKind() {
		r.report(diag.RuleResolveIdentErr, ee.Sp, map[string]string{"name": ee.Name})
		return nil, false
	}
	if e.Kind == ast.EntityLocal || e.Kind == ast.EntityParam {
		return ee, true
	}
	out := &ast.PathExpr{Module: e.Origin, Name: declaredName(e)}
	out.Sp = ee.Sp
	return out, true
}

// declaredName is the name the entity was declared under in its origin
// module: an aliased re-export binds a local name, but the canonical
// path uses the declaration's own name.
func declaredName(e ast.Entity) string {
	if e.Target != nil {
		return e.Target.ItemName()
	}
	return e.Name
}

// resolveQualifiedExpr disambiguates `a::b`, `a::b(…)`, and `a::b{…}`
// among value path, record constructor, enum variant, and the built-in
// string/bytes/Region value namespaces: tried in that order.
func (r *Resolver) resolveQualifiedExpr(ee *ast.QualifiedExpr) (ast.Expr, bool) {
	// Value path.
	if ee.Fields == nil {
		e, res := r.ProbeQualified(ee.Path, ee.Name, KindValue)
		if res == probeDenied {
			r.reportAccessDenied(ee.Name, ee.Sp, e.Span)
			return nil, false
		}
		if res == probeOK {
			path := &ast.PathExpr{Module: e.Origin, Name: declaredName(e)}
			path.Sp = ee.Sp
			if ee.Args == nil {
				return path, true
			}
			args, argsOK := r.resolveExprs(ee.Args)
			if !argsOK {
				return nil, false
			}
			call := &ast.CallExpr{Callee: path, Args: args}
			call.Sp = ee.Sp
			return call, true
		}
	}

	// Record constructor (path::Name { fields } or bare record path).
	if e, ok := r.TryResolveQualified(ee.Path, ee.Name, KindType, ee.Sp); ok && e.Kind == ast.EntityRecord {
		fields, fieldsOK := r.resolveFieldInits(ee.Fields)
		if !fieldsOK {
			return nil, false
		}
		out := &ast.RecordExpr{Type: e.Origin.Join(declaredName(e)), Fields: fields}
		out.Sp = ee.Sp
		return out, true
	}

	// Enum variant: the trailing name is the variant, the path's last
	// segment names the enum.
	if len(ee.Path) > 0 {
		enumModule := ee.Path[:len(ee.Path)-1]
		enumName := ee.Path[len(ee.Path)-1]
		if e, ok := r.tryResolveEnum(enumModule, enumName, ee); ok {
			if decl, isEnum := e.Target.(*ast.EnumItem); isEnum {
				if variantOf(decl, ee.Name) != nil {
					return r.buildEnumLiteral(e.Origin.Join(declaredName(e)), ee)
				}
			}
		}
	}

	// Built-in value namespaces.
	if len(ee.Path) == 1 && isBuiltinValueNamespace(ee.Path[0]) {
		path := &ast.PathExpr{Module: ee.Path, Name: ee.Name}
		path.Sp = ee.Sp
		if ee.Args == nil {
			return path, true
		}
		args, argsOK := r.resolveExprs(ee.Args)
		if !argsOK {
			return nil, false
		}
		call := &ast.CallExpr{Callee: path, Args: args}
		call.Sp = ee.Sp
		return call, true
	}

	r.report(diag.RuleResolveQualFail, ee.Sp, map[string]string{"path": ee.Path.String(), "name": ee.Name})
	return nil, false
}

func (r *Resolver) tryResolveEnum(module ident.Path, name string, ee *ast.QualifiedExpr) (ast.Entity, bool) {
	if len(module) == 0 {
		// Unqualified enum head: scope, then the current module map.
		if e, ok := r.Scope.Lookup(name); ok && e.Kind == ast.EntityEnum {
			return e, true
		}
		if m, ok := r.Table[r.Module.Key()]; ok {
			if e, ok := m[name]; ok && e.Kind == ast.EntityEnum {
				return e, true
			}
		}
		return ast.Entity{}, false
	}
	e, ok := r.TryResolveQualified(module, name, KindType, ee.Sp)
	if !ok || e.Kind != ast.EntityEnum {
		return ast.Entity{}, false
	}
	return e, true
}

func variantOf(decl *ast.EnumItem, name string) *ast.EnumVariant {
	for i := range decl.Variants {
		if decl.Variants[i].Name == name {
			return &decl.Variants[i]
		}
	}
	return nil
}

func (r *Resolver) buildEnumLiteral(enum ident.QualifiedName, ee *ast.QualifiedExpr) (ast.Expr, bool) {
	args, ok := r.resolveExprs(ee.Args)
	if !ok {
		return nil, false
	}
	fields, ok := r.resolveFieldInits(ee.Fields)
	if !ok {
		return nil, false
	}
	out := &ast.EnumLiteralExpr{Enum: enum, Variant: ee.Name, Args: args, Fields: fields}
	out.Sp = ee.Sp
	return out, true
}

func isBuiltinValueNamespace(name string) bool {
	switch name {
	case "string", "bytes", "Region":
		return true
	default:
		return false
	}
}

func (r *Resolver) resolveMatch(ee *ast.MatchExpr) (ast.Expr, bool) {
	scrutinee, ok := r.ResolveExpr(ee.Scrutinee)
	if !ok {
		return nil, false
	}
	arms := make([]ast.MatchArm, 0, len(ee.Arms))
	for _, arm := range ee.Arms {
		r.Scope.PushLexical()
		pat, patOK := r.ResolvePattern(arm.Pattern)
		if !patOK {
			r.Scope.PopLexical()
			return nil, false
		}
		if !r.BindPattern(pat) {
			r.Scope.PopLexical()
			return nil, false
		}
		guard, guardOK := r.ResolveExpr(arm.Guard)
		if !guardOK {
			r.Scope.PopLexical()
			return nil, false
		}
		body, bodyOK := r.ResolveExpr(arm.Body)
		if !bodyOK {
			r.Scope.PopLexical()
			return nil, false
		}
		r.Scope.PopLexical()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: arm.Span})
	}
	out := &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms}
	out.Sp = ee.Sp
	return out, true
}
