package modal

import (
	"c0/internal/ast"
	"c0/internal/ident"
)

// IsBitcopy classifies a resolved type: true when its representation
// can be duplicated by memcpy without running user code.
func (e *Engine) IsBitcopy(t ast.TypeRef) bool {
	switch tt := t.(type) {
	case ast.RPrim:
		return true
	case ast.RPtr, ast.RRawPtr, ast.RSlice, ast.RFunc, ast.RDynamic:
		return true
	case ast.RPerm:
		if tt.Perm == ast.PermUnique {
			return false
		}
		return e.IsBitcopy(tt.Base)
	case ast.RTuple:
		for _, el := range tt.Elems {
			if !e.IsBitcopy(el) {
				return false
			}
		}
		return true
	case ast.RArray:
		return e.IsBitcopy(tt.Elem)
	case ast.RUnion:
		for _, m := range tt.Members {
			if !e.IsBitcopy(m) {
				return false
			}
		}
		return true
	case ast.RString:
		return tt.State == "View"
	case ast.RBytes:
		return tt.State == "View"
	case ast.RPath:
		return e.nominalImplementsBitcopy(tt.Origin.Join(tt.Name))
	case ast.RModalState:
		return e.nominalImplementsBitcopy(tt.Modal)
	case ast.RRefine:
		return e.IsBitcopy(tt.Base)
	default:
		return false
	}
}

// nominalImplementsBitcopy checks for an explicit `implements Bitcopy`
// on the record, enum, or modal at q.
func (e *Engine) nominalImplementsBitcopy(q ident.QualifiedName) bool {
	decl, ok := e.Sigma.LookupType(q)
	if !ok {
		return false
	}
	switch it := decl.Item.(type) {
	case *ast.RecordItem:
		return implementsList(it.Implements, "Bitcopy")
	case *ast.EnumItem:
		return implementsList(it.Implements, "Bitcopy")
	case *ast.ModalItem:
		return implementsList(it.Implements, "Bitcopy")
	default:
		return false
	}
}

func implementsList(classes []ident.QualifiedName, name string) bool {
	for _, c := range classes {
		if c.Name == name {
			return true
		}
	}
	return false
}
