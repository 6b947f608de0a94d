package modal

import (
	"c0/internal/ast"
	"c0/internal/ident"
)

// LookupModalState finds the state block of decl named state.
func LookupModalState(decl *ast.ModalItem, state string) (*ast.ModalStateBlock, bool) {
	for i := range decl.States {
		if decl.States[i].Name == state {
			return &decl.States[i], true
		}
	}
	return nil, false
}

// LookupStateMethodDecl finds a state method of decl by state and name.
func LookupStateMethodDecl(decl *ast.ModalItem, state, name string) (*ast.StateMethod, bool) {
	block, ok := LookupModalState(decl, state)
	if !ok {
		return nil, false
	}
	for i := range block.Methods {
		if block.Methods[i].Name == name {
			return &block.Methods[i], true
		}
	}
	return nil, false
}

// LookupTransitionDecl finds a transition of decl by state and name.
func LookupTransitionDecl(decl *ast.ModalItem, state, name string) (*ast.Transition, bool) {
	block, ok := LookupModalState(decl, state)
	if !ok {
		return nil, false
	}
	for i := range block.Transitions {
		if block.Transitions[i].Name == name {
			return &block.Transitions[i], true
		}
	}
	return nil, false
}

// StateNames returns the closed set of valid state names of decl, in
// declaration order.
func StateNames(decl *ast.ModalItem) []string {
	out := make([]string, len(decl.States))
	for i := range decl.States {
		out[i] = decl.States[i].Name
	}
	return out
}

// TransitionResultType is the type a transition call evaluates to: the
// modal refined by the transition's target state. Calling a state
// method instead preserves the receiver's current state.
func TransitionResultType(modal ident.QualifiedName, t *ast.Transition, generics []ast.TypeRef) ast.TypeRef {
	return ast.RModalState{Modal: modal, State: t.ToState, GenericArgs: generics}
}

// ModalFieldVisible reports whether a modal field is accessible from
// accessor: modal fields share the visibility of the declaring module,
// so only code in that module can touch them.
func ModalFieldVisible(declModule, accessor ident.Path) bool {
	return declModule.Equal(accessor)
}
