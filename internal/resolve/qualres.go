package resolve

import (
	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/source"
)

// KindClass groups entity kinds into the three categories qualified
// resolution distinguishes.
type KindClass uint8

const (
	KindValue KindClass = iota
	KindType
	KindClassDecl
)

func matchesKind(e ast.Entity, want KindClass) bool {
	switch want {
	case KindValue:
		return e.IsValueKind()
	case KindType:
		return e.IsTypeKind()
	case KindClassDecl:
		return e.Kind == ast.EntityClass || e.Kind == ast.EntityBuiltin
	default:
		return false
	}
}

// CheckAccess decides whether accessor may reference a declaration of
// the given visibility declared in declModule. Internal is always
// allowed: the core analyzes one assembly at a time.
func CheckAccess(vis ast.Visibility, declModule, accessor ident.Path) bool {
	switch vis {
	case ast.VisPublic, ast.VisInternal:
		return true
	case ast.VisPrivate, ast.VisProtected:
		return declModule.Equal(accessor)
	default:
		return false
	}
}

// TopLevelVis enforces that Protected may not qualify a top-level item.
func (r *Resolver) TopLevelVis(vis ast.Visibility, span source.Span) bool {
	if vis == ast.VisProtected {
		r.report(diag.RuleProtectedTopLevel, span, nil)
		return false
	}
	return true
}

// expandAlias strips a leading module-alias segment: when the first
// path segment is bound in scope (or the current module's name map) to
// a module alias, the alias's origin replaces it.
func (r *Resolver) expandAlias(path ident.Path) ident.Path {
	if len(path) == 0 {
		return path
	}
	if e, ok := r.Scope.Lookup(path[0]); ok && e.Kind == ast.EntityModule {
		return append(append(ident.Path{}, e.Origin...), path[1:]...)
	}
	if m, ok := r.Table[r.Module.Key()]; ok {
		if e, ok := m[path[0]]; ok && e.Kind == ast.EntityModule {
			return append(append(ident.Path{}, e.Origin...), path[1:]...)
		}
	}
	return path
}

// probeResult distinguishes the ways a qualified lookup can end: found
// and accessible, not found (or wrong kind), or found but hidden by
// visibility. The expression resolver needs the last distinction so a
// denied value does not fall through the record/enum alternatives and
// mask the access error.
type probeResult uint8

const (
	probeOK probeResult = iota
	probeMissing
	probeDenied
)

// ProbeQualified resolves path::name to an entity of the expected kind
// class without reporting anything.
func (r *Resolver) ProbeQualified(path ident.Path, name string, want KindClass) (ast.Entity, probeResult) {
	full := r.expandAlias(path)
	nameMap, ok := r.Table[full.Key()]
	if !ok {
		return ast.Entity{}, probeMissing
	}
	e, ok := nameMap[name]
	if !ok || !matchesKind(e, want) {
		return ast.Entity{}, probeMissing
	}
	if !CheckAccess(e.Vis, e.Origin, r.Module) {
		// The entity is returned so the caller can point its Access-Err
		// note at the inaccessible declaration.
		return e, probeDenied
	}
	return e, probeOK
}

// ResolveQualified is ProbeQualified plus the failure diagnostic:
// ResolveQualified-Err when nothing matched, Access-Err when the match
// is not visible from the current module.
func (r *Resolver) ResolveQualified(path ident.Path, name string, want KindClass, span source.Span) (ast.Entity, bool) {
	e, res := r.ProbeQualified(path, name, want)
	switch res {
	case probeOK:
		return e, true
	case probeDenied:
		r.reportAccessDenied(name, span, e.Span)
		return ast.Entity{}, false
	default:
		full := r.expandAlias(path)
		r.report(diag.RuleResolveQualFail, span, map[string]string{"path": full.String(), "name": name})
		return ast.Entity{}, false
	}
}

// TryResolveQualified is ProbeQualified folded to a bool for call
// sites that only care about a clean hit.
func (r *Resolver) TryResolveQualified(path ident.Path, name string, want KindClass, span source.Span) (ast.Entity, bool) {
	e, res := r.ProbeQualified(path, name, want)
	return e, res == probeOK
}
