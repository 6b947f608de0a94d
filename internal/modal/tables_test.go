package modal

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/source"
)

func prim(name string) ast.TypeExpr {
	return &ast.TypePrimExpr{Name: name}
}

func method(name string, ret ast.TypeExpr, params ...ast.TypeExpr) ast.ClassMethod {
	m := ast.ClassMethod{Name: name, Ret: ret}
	for _, p := range params {
		m.Params = append(m.Params, ast.Param{Type: p})
	}
	return m
}

func TestMethodTableDiamondAgrees(t *testing.T) {
	a := classDecl("A")
	a.Item.Methods = []ast.ClassMethod{method("f", prim("i32"))}
	b := classDecl("B", "A")
	b.Item.Methods = []ast.ClassMethod{method("f", prim("i32"))}
	c := classDecl("C", "A")
	d := classDecl("D", "B", "C")

	bag := diag.NewBag(8)
	sigma := ast.NewSigma()
	for _, cls := range []*ast.ClassDecl{a, b, c, d} {
		sigma.RegisterClass(cls)
	}
	e := NewEngine(sigma, diag.BagReporter{Bag: bag})

	table, ok := e.ClassMethodTable(qn("D"))
	if !ok {
		t.Fatalf("ClassMethodTable(D) failed: %v", bag.Items())
	}
	if len(table) != 1 || table[0].Name != "f" {
		t.Fatalf("table = %+v, want single f", table)
	}
	if table[0].DeclaredBy.Name != "B" {
		t.Fatalf("first encountered method should win; declared by %s", table[0].DeclaredBy.Name)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestMethodTableConflict(t *testing.T) {
	b := classDecl("B")
	b.Item.Methods = []ast.ClassMethod{method("f", prim("i32"))}
	c := classDecl("C")
	c.Item.Methods = []ast.ClassMethod{method("f", prim("bool"))}
	d := classDecl("D", "B", "C")

	bag := diag.NewBag(8)
	sigma := ast.NewSigma()
	for _, cls := range []*ast.ClassDecl{b, c, d} {
		sigma.RegisterClass(cls)
	}
	e := NewEngine(sigma, diag.BagReporter{Bag: bag})

	if _, ok := e.ClassMethodTable(qn("D")); ok {
		t.Fatalf("conflicting signatures did not fail the table")
	}
	if !bag.HasErrors() {
		t.Fatalf("expected EffMethods-Conflict diagnostic")
	}
}

func TestFieldTableNoOverride(t *testing.T) {
	b := classDecl("B")
	b.Item.Fields = []ast.Field{{Name: "x", Type: prim("i32")}}
	c := classDecl("C")
	c.Item.Fields = []ast.Field{{Name: "x", Type: prim("u32")}}
	d := classDecl("D", "B", "C")

	bag := diag.NewBag(8)
	sigma := ast.NewSigma()
	for _, cls := range []*ast.ClassDecl{b, c, d} {
		sigma.RegisterClass(cls)
	}
	e := NewEngine(sigma, diag.BagReporter{Bag: bag})

	if _, ok := e.ClassFieldTable(qn("D")); ok {
		t.Fatalf("conflicting field types did not fail the table")
	}
}

func TestDispatchable(t *testing.T) {
	selfParam := &ast.TypePathExpr{Name: "Self"}

	plain := classDecl("Plain")
	plain.Item.Methods = []ast.ClassMethod{method("f", prim("i32"))}

	byValue := classDecl("ByValue")
	byValue.Item.Methods = []ast.ClassMethod{method("g", nil, selfParam)}

	generic := classDecl("Generic")
	gm := method("h", prim("i32"))
	gm.Generics = []string{"T"}
	generic.Item.Methods = []ast.ClassMethod{gm}

	staticOnly := classDecl("StaticOnly")
	sm := method("k", nil, selfParam)
	sm.StaticDispatchOnly = true
	staticOnly.Item.Methods = []ast.ClassMethod{sm}

	sigma := ast.NewSigma()
	for _, cls := range []*ast.ClassDecl{plain, byValue, generic, staticOnly} {
		sigma.RegisterClass(cls)
	}
	e := NewEngine(sigma, diag.NopReporter{})

	cases := []struct {
		name string
		want bool
	}{
		{"Plain", true},
		{"ByValue", false},
		{"Generic", false},
		{"StaticOnly", true},
	}
	for _, tc := range cases {
		if got := e.Dispatchable(qn(tc.name)); got != tc.want {
			t.Errorf("Dispatchable(%s) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestModalStateLookup(t *testing.T) {
	decl := &ast.ModalItem{
		States: []ast.ModalStateBlock{
			{
				Name:    "Open",
				Methods: []ast.StateMethod{{Name: "read"}},
				Transitions: []ast.Transition{
					{Name: "close", ToState: "Closed", Span: source.Span{}},
				},
			},
			{Name: "Closed"},
		},
	}
	decl.Name = "File"

	if _, ok := LookupModalState(decl, "Open"); !ok {
		t.Fatalf("state Open not found")
	}
	if _, ok := LookupModalState(decl, "Missing"); ok {
		t.Fatalf("unknown state found")
	}
	if _, ok := LookupStateMethodDecl(decl, "Open", "read"); !ok {
		t.Fatalf("state method read not found")
	}
	tr, ok := LookupTransitionDecl(decl, "Open", "close")
	if !ok {
		t.Fatalf("transition close not found")
	}
	result := TransitionResultType(qn("File"), tr, nil)
	ms, isModal := result.(ast.RModalState)
	if !isModal || ms.State != "Closed" {
		t.Fatalf("transition result = %+v, want File@Closed", result)
	}
}
