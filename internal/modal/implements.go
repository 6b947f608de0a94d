package modal

import (
	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
)

// CheckImplements verifies that a nominal declaring `implements C`
// actually provides every method of C's effective table. Methods with
// a default body need no local member. Violations are IMPL-INCOMPLETE.
//
// The orphan rule: whether the implementing type or the class must be
// declared in the current assembly: is not enforced here: the core
// analyzes a single assembly at a time, so every declaration it can
// see is local by construction.
func (e *Engine) CheckImplements(declModule ident.Path, item ast.Item) bool {
	var implements []ident.QualifiedName
	switch it := item.(type) {
	case *ast.RecordItem:
		implements = it.Implements
	case *ast.EnumItem:
		implements = it.Implements
	case *ast.ModalItem:
		implements = it.Implements
	default:
		return true
	}

	ok := true
	for _, class := range implements {
		if isFoundationClass(class) {
			continue
		}
		table, tableOK := e.ClassMethodTable(class)
		if !tableOK {
			continue
		}
		for _, m := range table {
			if m.Decl.Body != nil {
				continue
			}
			if !providesMember(item, m.Name) {
				diag.ReportRule(e.Reporter, diag.RuleImplIncomplete, item.Span(), map[string]string{
					"name":  item.ItemName(),
					"class": class.String(),
				})
				ok = false
			}
		}
	}
	return ok
}

// isFoundationClass matches the marker classes whose membership is
// structural or explicit rather than member-based.
func isFoundationClass(q ident.QualifiedName) bool {
	if len(q.Module) != 0 {
		return false
	}
	switch q.Name {
	case "Bitcopy", "Drop", "Clone":
		return true
	default:
		return false
	}
}

// providesMember reports whether the nominal declares a member with
// the given name: a state method or transition in any state for a
// modal, nothing for records and enums (they satisfy only defaulted
// methods).
func providesMember(item ast.Item, name string) bool {
	modal, isModal := item.(*ast.ModalItem)
	if !isModal {
		return false
	}
	for _, state := range modal.States {
		for _, m := range state.Methods {
			if m.Name == name {
				return true
			}
		}
		for _, t := range state.Transitions {
			if t.Name == name {
				return true
			}
		}
	}
	return false
}
