package resolve

import (
	"sort"
	"strconv"
	"strings"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
)

// ResolveType lowers a syntactic type to a resolved type ref. The walk
// is homomorphic over compound types; the interesting cases are path
// heads (scope + Σ lookup), dynamic classes (dispatchability), modal
// states (state-set membership), and array lengths (compile-time
// constant folding).
func (r *Resolver) ResolveType(t ast.TypeExpr) (ast.TypeRef, bool) {
	if t == nil {
		return ast.RPrim{Name: "()"}, true
	}
	switch tt := t.(type) {
	case *ast.TypePrimExpr:
		return ast.RPrim{Name: tt.Name}, true

	case *ast.TypePathExpr:
		return r.resolvePathType(tt)

	case *ast.TypePermExpr:
		base, ok := r.ResolveType(tt.Base)
		if !ok {
			return nil, false
		}
		return ast.RPerm{Perm: tt.Perm, Base: base}, true

	case *ast.TypeTupleExpr:
		elems := make([]ast.TypeRef, 0, len(tt.Elems))
		for _, e := range tt.Elems {
			el, ok := r.ResolveType(e)
			if !ok {
				return nil, false
			}
			elems = append(elems, el)
		}
		return ast.RTuple{Elems: elems}, true

	case *ast.TypeArrayExpr:
		elem, ok := r.ResolveType(tt.Elem)
		if !ok {
			return nil, false
		}
		length, constOK := ConstLen(tt.Length)
		if !constOK {
			r.report(diag.RuleConstLen, tt.Length.Span(), nil)
			return nil, false
		}
		return ast.RArray{Elem: elem, Len: length}, true

	case *ast.TypeSliceExpr:
		elem, ok := r.ResolveType(tt.Elem)
		if !ok {
			return nil, false
		}
		return ast.RSlice{Elem: elem}, true

	case *ast.TypeUnionExpr:
		members := make([]ast.TypeRef, 0, len(tt.Members))
		for _, m := range tt.Members {
			mr, ok := r.ResolveType(m)
			if !ok {
				return nil, false
			}
			members = append(members, mr)
		}
		return ast.RUnion{Members: canonicalUnion(members)}, true

	case *ast.TypeFuncExpr:
		params := make([]ast.TypeRef, 0, len(tt.Params))
		for _, p := range tt.Params {
			pr, ok := r.ResolveType(p)
			if !ok {
				return nil, false
			}
			params = append(params, pr)
		}
		ret, ok := r.ResolveType(tt.Ret)
		if !ok {
			return nil, false
		}
		return ast.RFunc{Params: params, Ret: ret}, true

	case *ast.TypePtrExpr:
		elem, ok := r.ResolveType(tt.Elem)
		if !ok {
			return nil, false
		}
		return ast.RPtr{Elem: elem, State: tt.State}, true

	case *ast.TypeRawPtrExpr:
		elem, ok := r.ResolveType(tt.Elem)
		if !ok {
			return nil, false
		}
		return ast.RRawPtr{Qual: tt.Qual, Elem: elem}, true

	case *ast.TypeStringExpr:
		return ast.RString{State: tt.State}, true

	case *ast.TypeBytesExpr:
		return ast.RBytes{State: tt.State}, true

	case *ast.TypeDynamicExpr:
		e, ok := r.resolveClassHead(tt.ClassPath, tt.ClassName, tt)
		if !ok {
			return nil, false
		}
		class := e.Origin.Join(tt.ClassName)
		if r.Engine != nil && !r.Engine.Dispatchable(class) {
			r.report(diag.RuleNotDispatchable, tt.Span(), map[string]string{"name": class.String()})
			return nil, false
		}
		return ast.RDynamic{Class: class}, true

	case *ast.TypeModalStateExpr:
		return r.resolveModalStateType(tt)

	default:
		return nil, false
	}
}

func (r *Resolver) resolvePathType(tt *ast.TypePathExpr) (ast.TypeRef, bool) {
	args := make([]ast.TypeRef, 0, len(tt.GenericArgs))
	for _, a := range tt.GenericArgs {
		ar, ok := r.ResolveType(a)
		if !ok {
			return nil, false
		}
		args = append(args, ar)
	}
	if len(tt.Path) == 0 {
		// Head identifier: resolve against the scope stack first so
		// generic parameters and local aliases win over module items.
		if e, ok := r.Scope.Lookup(tt.Name); ok && e.IsTypeKind() {
			return ast.RPath{Origin: e.Origin, Name: tt.Name, GenericArgs: args}, true
		}
		if m, ok := r.Table[r.Module.Key()]; ok {
			if e, ok := m[tt.Name]; ok && e.IsTypeKind() {
				return ast.RPath{Origin: e.Origin, Name: tt.Name, GenericArgs: args}, true
			}
		}
		// Generic parameter or Self: leave the origin empty.
		return ast.RPath{Name: tt.Name, GenericArgs: args}, true
	}
	e, ok := r.ResolveQualified(tt.Path, tt.Name, KindType, tt.Span())
	if !ok {
		return nil, false
	}
	return ast.RPath{Origin: e.Origin, Name: tt.Name, GenericArgs: args}, true
}

func (r *Resolver) resolveClassHead(path ident.Path, name string, t ast.TypeExpr) (ast.Entity, bool) {
	if len(path) == 0 {
		if e, ok := r.Scope.Lookup(name); ok && (e.Kind == ast.EntityClass || e.Kind == ast.EntityBuiltin) {
			return e, true
		}
		if m, ok := r.Table[r.Module.Key()]; ok {
			if e, ok := m[name]; ok && e.Kind == ast.EntityClass {
				return e, true
			}
		}
		// Built-in foundational classes live in Σ without a module map.
		if _, ok := r.Sigma.LookupClass(ident.QualifiedName{Name: name}); ok {
			return ast.Entity{Kind: ast.EntityClass, Name: name}, true
		}
		r.report(diag.RuleResolveQualFail, t.Span(), map[string]string{"path": "", "name": name})
		return ast.Entity{}, false
	}
	return r.ResolveQualified(path, name, KindClassDecl, t.Span())
}

func (r *Resolver) resolveModalStateType(tt *ast.TypeModalStateExpr) (ast.TypeRef, bool) {
	args := make([]ast.TypeRef, 0, len(tt.GenericArgs))
	for _, a := range tt.GenericArgs {
		ar, ok := r.ResolveType(a)
		if !ok {
			return nil, false
		}
		args = append(args, ar)
	}
	origin := ident.Path(nil)
	if len(tt.Path) == 0 {
		if e, ok := r.Scope.Lookup(tt.Name); ok && e.Kind == ast.EntityModal {
			origin = e.Origin
		} else if m, ok := r.Table[r.Module.Key()]; ok {
			if e, ok := m[tt.Name]; ok && e.Kind == ast.EntityModal {
				origin = e.Origin
			}
		}
	} else {
		e, ok := r.ResolveQualified(tt.Path, tt.Name, KindType, tt.Span())
		if !ok {
			return nil, false
		}
		origin = e.Origin
	}
	modalName := origin.Join(tt.Name)
	if decl, ok := r.Sigma.LookupModal(modalName); ok {
		if _, stateOK := lookupState(decl, tt.State); !stateOK {
			r.report(diag.RuleModalStateUnknown, tt.Span(), map[string]string{"name": modalName.String(), "state": tt.State})
			return nil, false
		}
	}
	return ast.RModalState{Modal: modalName, State: tt.State, GenericArgs: args}, true
}

func lookupState(decl *ast.ModalItem, state string) (*ast.ModalStateBlock, bool) {
	for i := range decl.States {
		if decl.States[i].Name == state {
			return &decl.States[i], true
		}
	}
	return nil, false
}

// ConstLen folds a compile-time constant length expression to its
// value. Only integer literals, unary minus, and +, -, * over them
// qualify.
func ConstLen(e ast.Expr) (int64, bool) {
	switch ee := e.(type) {
	case *ast.LiteralExpr:
		if ee.Kind != ast.LitInt {
			return 0, false
		}
		v, err := strconv.ParseInt(ee.Text, 0, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	case *ast.BinaryExpr:
		l, lok := ConstLen(ee.Left)
		rv, rok := ConstLen(ee.Right)
		if !lok || !rok {
			return 0, false
		}
		switch ee.Op {
		case "+":
			return l + rv, true
		case "-":
			return l - rv, true
		case "*":
			return l * rv, true
		default:
			return 0, false
		}
	case *ast.UnaryExpr:
		v, ok := ConstLen(ee.Operand)
		if !ok {
			return 0, false
		}
		if ee.Op == "-" {
			return -v, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// canonicalUnion de-duplicates members and stores them in a canonical
// sorted order, so two unions built differently compare equal.
func canonicalUnion(members []ast.TypeRef) []ast.TypeRef {
	seen := map[string]bool{}
	var out []ast.TypeRef
	for _, m := range members {
		k := refKey(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return refKey(out[i]) < refKey(out[j])
	})
	return out
}

// refKey renders a resolved type to a canonical string used only for
// ordering and de-duplication, never shown to users.
func refKey(t ast.TypeRef) string {
	var b strings.Builder
	writeRefKey(&b, t)
	return b.String()
}

func writeRefKey(b *strings.Builder, t ast.TypeRef) {
	switch tt := t.(type) {
	case ast.RPrim:
		b.WriteString("p:")
		b.WriteString(tt.Name)
	case ast.RPath:
		b.WriteString("n:")
		b.WriteString(tt.Origin.Join(tt.Name).PathKey())
		for _, a := range tt.GenericArgs {
			b.WriteByte('<')
			writeRefKey(b, a)
		}
	case ast.RPerm:
		b.WriteString("perm:")
		b.WriteString(tt.Perm.String())
		b.WriteByte(':')
		writeRefKey(b, tt.Base)
	case ast.RTuple:
		b.WriteString("tup(")
		for _, e := range tt.Elems {
			writeRefKey(b, e)
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case ast.RArray:
		b.WriteString("arr[")
		b.WriteString(strconv.FormatInt(tt.Len, 10))
		b.WriteString("]:")
		writeRefKey(b, tt.Elem)
	case ast.RSlice:
		b.WriteString("slice:")
		writeRefKey(b, tt.Elem)
	case ast.RUnion:
		b.WriteString("union(")
		for _, m := range tt.Members {
			writeRefKey(b, m)
			b.WriteByte('|')
		}
		b.WriteByte(')')
	case ast.RFunc:
		b.WriteString("fn(")
		for _, p := range tt.Params {
			writeRefKey(b, p)
			b.WriteByte(',')
		}
		b.WriteString(")->")
		writeRefKey(b, tt.Ret)
	case ast.RPtr:
		b.WriteString("ptr")
		b.WriteString(tt.State.String())
		b.WriteByte(':')
		writeRefKey(b, tt.Elem)
	case ast.RRawPtr:
		b.WriteString("raw:")
		writeRefKey(b, tt.Elem)
	case ast.RString:
		b.WriteString("str:")
		b.WriteString(tt.State)
	case ast.RBytes:
		b.WriteString("bytes:")
		b.WriteString(tt.State)
	case ast.RDynamic:
		b.WriteString("dyn:")
		b.WriteString(tt.Class.PathKey())
	case ast.RModalState:
		b.WriteString("modal:")
		b.WriteString(tt.Modal.PathKey())
		b.WriteByte('@')
		b.WriteString(tt.State)
		for _, a := range tt.GenericArgs {
			b.WriteByte('<')
			writeRefKey(b, a)
		}
	case ast.RRefine:
		b.WriteString("refine:")
		writeRefKey(b, tt.Base)
	case ast.ROpaque:
		b.WriteString("opaque")
	}
}
