package modal

import (
	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/source"
)

// CheckIndex applies the array/slice indexing judgments to a use site
// whose base type is known:
//   - direct slice indexing by usize is rejected (use a range);
//   - array indexing requires a compile-time-constant index;
//   - range indexing requires a bitcopy element type.
//
// ok is false when any judgment fired.
func (e *Engine) CheckIndex(base ast.TypeRef, indexIsConst, isRange bool, span source.Span) bool {
	switch bt := stripPerm(base).(type) {
	case ast.RSlice:
		if !isRange {
			diag.ReportRule(e.Reporter, diag.RuleIndexSliceDirect, span, nil)
			return false
		}
		if !e.IsBitcopy(bt.Elem) {
			diag.ReportRule(e.Reporter, diag.RuleValueUseNonBitcopy, span, nil)
			return false
		}
		return true
	case ast.RArray:
		if isRange {
			if !e.IsBitcopy(bt.Elem) {
				diag.ReportRule(e.Reporter, diag.RuleValueUseNonBitcopy, span, nil)
				return false
			}
			return true
		}
		if !indexIsConst {
			diag.ReportRule(e.Reporter, diag.RuleIndexArrayNonConst, span, nil)
			return false
		}
		return true
	default:
		return true
	}
}

func stripPerm(t ast.TypeRef) ast.TypeRef {
	for {
		p, ok := t.(ast.RPerm)
		if !ok {
			return t
		}
		t = p.Base
	}
}

// ResolveModalMember finds a state member of decl by name, reporting
// Modal-State-Unknown or Modal-Member-Unknown when the lookup misses.
// A found transition is returned with isTransition set; the caller
// types the call accordingly (state methods preserve the state,
// transitions rewrite it).
func (e *Engine) ResolveModalMember(decl *ast.ModalItem, state, name string, span source.Span) (method *ast.StateMethod, tr *ast.Transition, ok bool) {
	if _, found := LookupModalState(decl, state); !found {
		diag.ReportRule(e.Reporter, diag.RuleModalStateUnknown, span, map[string]string{
			"name": decl.Name, "state": state,
		})
		return nil, nil, false
	}
	if m, found := LookupStateMethodDecl(decl, state, name); found {
		return m, nil, true
	}
	if t, found := LookupTransitionDecl(decl, state, name); found {
		return nil, t, true
	}
	diag.ReportRule(e.Reporter, diag.RuleModalMemberUnknown, span, map[string]string{
		"name": decl.Name, "state": state, "member": name,
	})
	return nil, nil, false
}
