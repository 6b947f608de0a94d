package resolve

import (
	"c0/internal/ast"
	"c0/internal/scope"
	"c0/internal/source"
)

// ResolveModule rewrites one module against the fixed-point table: the
// module scope is seeded from its name map, every top-level item is
// checked and its bodies resolved. The input module is not mutated.
func (r *Resolver) ResolveModule(mod ast.Module) (ast.Module, bool) {
	r.Module = mod.Path
	r.Scope.PushModule()
	defer r.Scope.PopModule()

	declared := map[string]source.Span{}
	if nameMap, ok := r.Table[mod.Path.Key()]; ok {
		for name, entity := range nameMap {
			r.Scope.Declare(name, entity)
			if entity.Source == ast.SourceDecl {
				declared[name] = entity.Span
			}
		}
	}
	scope.ValidateModuleNames(r.Reporter, declared)

	out := ast.Module{Path: mod.Path, Span: mod.Span}
	allOK := true
	for _, item := range mod.Items {
		resolved, ok := r.resolveItem(item)
		if !ok {
			allOK = false
			continue
		}
		out.Items = append(out.Items, resolved)
	}
	return out, allOK
}

func (r *Resolver) resolveItem(item ast.Item) (ast.Item, bool) {
	switch it := item.(type) {
	case *ast.UsingItem:
		r.TopLevelVis(it.Vis, it.Span())
		return it, true

	case *ast.StaticItem:
		if !r.TopLevelVis(it.Vis, it.Span()) {
			return nil, false
		}
		value, ok := r.ResolveExpr(it.Value)
		if !ok {
			return nil, false
		}
		pattern := it.Pattern
		if pattern != nil {
			pattern, ok = r.ResolvePattern(pattern)
			if !ok {
				return nil, false
			}
		}
		out := &ast.StaticItem{Pattern: pattern, Type: it.Type, Value: value, Vis: it.Vis}
		out.Sp = it.Sp
		out.Name = it.Name
		return out, true

	case *ast.ProcedureItem:
		if !r.TopLevelVis(it.Vis, it.Span()) {
			return nil, false
		}
		r.Scope.PushLexical()
		defer r.Scope.PopLexical()
		for _, p := range it.Params {
			entity := ast.Entity{Kind: ast.EntityParam, Name: p.Name, Span: p.Span}
			if !r.Scope.Intro(p.Name, entity, p.Span) {
				return nil, false
			}
		}
		body, ok := r.ResolveExpr(it.Body)
		if !ok {
			return nil, false
		}
		out := &ast.ProcedureItem{Params: it.Params, Ret: it.Ret, Body: body, Vis: it.Vis, IsAsync: it.IsAsync}
		out.Sp = it.Sp
		out.Name = it.Name
		return out, true

	case *ast.ModalItem:
		return r.resolveModalItem(it)

	case *ast.ClassItem:
		if !r.TopLevelVis(it.Vis, it.Span()) {
			return nil, false
		}
		out := &ast.ClassItem{
			Bases:          it.Bases,
			Fields:         it.Fields,
			AssocTypes:     it.AssocTypes,
			AbstractStates: it.AbstractStates,
			Vis:            it.Vis,
		}
		out.Sp = it.Sp
		out.Name = it.Name
		for _, m := range it.Methods {
			body, ok := r.resolveMethodBody(m.Params, m.Body)
			if !ok {
				return nil, false
			}
			rm := m
			rm.Body = body
			out.Methods = append(out.Methods, rm)
		}
		return out, true

	case *ast.RecordItem, *ast.EnumItem, *ast.TypeAliasItem:
		r.TopLevelVis(itemVis(item), item.Span())
		return item, true

	case *ast.ErrorItem:
		// Traversed but never binds names.
		return it, true

	default:
		return item, true
	}
}

func itemVis(item ast.Item) ast.Visibility {
	switch it := item.(type) {
	case *ast.RecordItem:
		return it.Vis
	case *ast.EnumItem:
		return it.Vis
	case *ast.TypeAliasItem:
		return it.Vis
	default:
		return ast.VisPrivate
	}
}

func (r *Resolver) resolveModalItem(it *ast.ModalItem) (ast.Item, bool) {
	if !r.TopLevelVis(it.Vis, it.Span()) {
		return nil, false
	}
	out := &ast.ModalItem{Generics: it.Generics, Implements: it.Implements, Vis: it.Vis}
	out.Sp = it.Sp
	out.Name = it.Name
	for _, state := range it.States {
		rs := ast.ModalStateBlock{
			Name:       state.Name,
			Fields:     state.Fields,
			Interfaces: state.Interfaces,
			Span:       state.Span,
		}
		for _, m := range state.Methods {
			body, ok := r.resolveMethodBody(m.Params, m.Body)
			if !ok {
				return nil, false
			}
			rm := m
			rm.Body = body
			rs.Methods = append(rs.Methods, rm)
		}
		for _, t := range state.Transitions {
			body, ok := r.resolveMethodBody(t.Params, t.Body)
			if !ok {
				return nil, false
			}
			rt := t
			rt.Body = body
			rs.Transitions = append(rs.Transitions, rt)
		}
		out.States = append(out.States, rs)
	}
	return out, true
}

// resolveMethodBody opens a scope, introduces the parameters, and
// resolves the body. A nil body (abstract method) resolves to nil.
func (r *Resolver) resolveMethodBody(params []ast.Param, body ast.Expr) (ast.Expr, bool) {
	if body == nil {
		return nil, true
	}
	r.Scope.PushLexical()
	defer r.Scope.PopLexical()
	for _, p := range params {
		entity := ast.Entity{Kind: ast.EntityParam, Name: p.Name, Span: p.Span}
		if !r.Scope.Intro(p.Name, entity, p.Span) {
			return nil, false
		}
	}
	return r.ResolveExpr(body)
}
