package modal

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
)

func TestCheckImplementsModal(t *testing.T) {
	closer := classDecl("Closer")
	closer.Item.Methods = []ast.ClassMethod{{Name: "close"}}

	file := &ast.ModalItem{
		Implements: []ident.QualifiedName{qn("Closer")},
		States: []ast.ModalStateBlock{
			{Name: "Open", Transitions: []ast.Transition{{Name: "close", ToState: "Closed"}}},
			{Name: "Closed"},
		},
	}
	file.Name = "Handle"

	sigma := ast.NewSigma()
	sigma.RegisterClass(closer)
	bag := diag.NewBag(8)
	e := NewEngine(sigma, diag.BagReporter{Bag: bag})

	if !e.CheckImplements(ident.Path{"m"}, file) {
		t.Fatalf("complete implementation rejected: %v", bag.Items())
	}
}

func TestCheckImplementsIncomplete(t *testing.T) {
	closer := classDecl("Closer")
	closer.Item.Methods = []ast.ClassMethod{{Name: "close"}}

	rec := &ast.RecordItem{Implements: []ident.QualifiedName{qn("Closer")}}
	rec.Name = "Plain"

	sigma := ast.NewSigma()
	sigma.RegisterClass(closer)
	bag := diag.NewBag(8)
	e := NewEngine(sigma, diag.BagReporter{Bag: bag})

	if e.CheckImplements(ident.Path{"m"}, rec) {
		t.Fatalf("missing member accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != "E-TYP-IMPL-INCOMPLETE" {
		t.Fatalf("diagnostics = %v, want E-TYP-IMPL-INCOMPLETE", bag.Items())
	}
}

func TestCheckImplementsDefaultedAndFoundation(t *testing.T) {
	logger := classDecl("Logger")
	body := &ast.LiteralExpr{Kind: ast.LitUnit}
	logger.Item.Methods = []ast.ClassMethod{{Name: "log", Body: body}}

	rec := &ast.RecordItem{Implements: []ident.QualifiedName{
		qn("Logger"),
		{Name: "Bitcopy"},
	}}
	rec.Name = "Point"

	sigma := ast.NewSigma()
	sigma.RegisterClass(logger)
	e := NewEngine(sigma, diag.NopReporter{})

	if !e.CheckImplements(ident.Path{"m"}, rec) {
		t.Fatalf("defaulted method or foundation class demanded a member")
	}
}
