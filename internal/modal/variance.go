package modal

import (
	"c0/internal/ast"
	"c0/internal/ident"
)

// Variance is the per-type-parameter property controlling subtyping
// under generic instantiation.
type Variance uint8

const (
	// Bivariant: the parameter does not appear; unconstrained.
	Bivariant Variance = iota
	Covariant
	Contravariant
	Invariant
)

func (v Variance) String() string {
	switch v {
	case Bivariant:
		return "bivariant"
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	case Invariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Combine joins the variance of two independent appearances of the same
// parameter: bivariant is the identity, invariant is absorbing, and a
// parameter appearing both co- and contravariantly is invariant.
func Combine(a, b Variance) Variance {
	switch {
	case a == Bivariant:
		return b
	case b == Bivariant:
		return a
	case a == Invariant || b == Invariant:
		return Invariant
	case a == b:
		return a
	default:
		return Invariant
	}
}

// Compose threads an inner appearance through an outer position:
// co∘co=co, contra∘contra=co, co∘contra=contra, and invariant in either
// position is absorbing.
func Compose(outer, inner Variance) Variance {
	switch {
	case outer == Bivariant || inner == Bivariant:
		return Bivariant
	case outer == Invariant || inner == Invariant:
		return Invariant
	case outer == inner:
		return Covariant
	default:
		return Contravariant
	}
}

// VarianceIn computes the variance of type parameter param within the
// syntactic type t by structural descent.
func VarianceIn(param string, t ast.TypeExpr) Variance {
	return varianceAt(param, t, Covariant)
}

func varianceAt(param string, t ast.TypeExpr, pos Variance) Variance {
	if t == nil {
		return Bivariant
	}
	switch tt := t.(type) {
	case *ast.TypePathExpr:
		acc := Bivariant
		if len(tt.Path) == 0 && tt.Name == param {
			acc = pos
		}
		// Appearances inside a nominal's generic arguments count at the
		// head's covariant position.
		for _, arg := range tt.GenericArgs {
			acc = Combine(acc, varianceAt(param, arg, pos))
		}
		return acc
	case *ast.TypePermExpr:
		if tt.Perm == ast.PermConst {
			return varianceAt(param, tt.Base, pos)
		}
		// Unique/Shared wrappers make the wrapped occurrence invariant.
		return varianceAt(param, tt.Base, Compose(pos, Invariant))
	case *ast.TypeTupleExpr:
		acc := Bivariant
		for _, e := range tt.Elems {
			acc = Combine(acc, varianceAt(param, e, pos))
		}
		return acc
	case *ast.TypeUnionExpr:
		acc := Bivariant
		for _, m := range tt.Members {
			acc = Combine(acc, varianceAt(param, m, pos))
		}
		return acc
	case *ast.TypeArrayExpr:
		return varianceAt(param, tt.Elem, Compose(pos, Invariant))
	case *ast.TypeSliceExpr:
		return varianceAt(param, tt.Elem, Compose(pos, Invariant))
	case *ast.TypeFuncExpr:
		acc := Bivariant
		flipped := Compose(pos, Contravariant)
		for _, p := range tt.Params {
			acc = Combine(acc, varianceAt(param, p, flipped))
		}
		return Combine(acc, varianceAt(param, tt.Ret, pos))
	case *ast.TypePtrExpr:
		return varianceAt(param, tt.Elem, pos)
	case *ast.TypeRawPtrExpr:
		if tt.Qual == ast.RawQualConst {
			return varianceAt(param, tt.Elem, pos)
		}
		return varianceAt(param, tt.Elem, Compose(pos, Invariant))
	case *ast.TypeModalStateExpr:
		acc := Bivariant
		for _, arg := range tt.GenericArgs {
			acc = Combine(acc, varianceAt(param, arg, pos))
		}
		return acc
	default:
		return Bivariant
	}
}

// ModalVariance computes the variance of a modal's type parameter over
// the whole declaration: state fields at invariant positions,
// method/transition returns at covariant positions, method/transition
// parameters at contravariant positions. Memoized per (modal, param).
func (e *Engine) ModalVariance(q ident.QualifiedName, param string) Variance {
	key := q.PathKey() + "\x1f" + param
	if v, ok := e.varianceCache[key]; ok {
		return v
	}
	decl, ok := e.Sigma.LookupModal(q)
	if !ok {
		e.varianceCache[key] = Bivariant
		return Bivariant
	}
	acc := Bivariant
	for si := range decl.States {
		st := &decl.States[si]
		for _, f := range st.Fields {
			acc = Combine(acc, varianceAt(param, f.Type, Invariant))
		}
		for _, m := range st.Methods {
			for _, p := range m.Params {
				acc = Combine(acc, varianceAt(param, p.Type, Contravariant))
			}
			acc = Combine(acc, varianceAt(param, m.Ret, Covariant))
		}
		for _, t := range st.Transitions {
			for _, p := range t.Params {
				acc = Combine(acc, varianceAt(param, p.Type, Contravariant))
			}
			acc = Combine(acc, varianceAt(param, t.Ret, Covariant))
		}
	}
	e.varianceCache[key] = acc
	return acc
}
