package initplan

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/source"
)

func staticReading(name string, from ident.Path, target string) *ast.StaticItem {
	ref := &ast.PathExpr{Module: from, Name: target}
	s := &ast.StaticItem{Value: ref}
	s.Name = name
	return s
}

func module(path string, items ...ast.Item) ast.Module {
	return ast.Module{Path: ident.Path{path}, Items: items}
}

func planOf(t *testing.T, modules ...ast.Module) (*Plan, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(16)
	p := Compute(diag.BagReporter{Bag: bag}, nil, modules)
	return p, bag
}

func TestTopoOrder(t *testing.T) {
	// c reads b eagerly, b reads a eagerly: init order must be a, b, c.
	a := module("a")
	b := module("b", staticReading("x", ident.Path{"a"}, "v"))
	c := module("c", staticReading("y", ident.Path{"b"}, "x"))

	p, bag := planOf(t, c, a, b)
	if !p.TopoOK || bag.HasErrors() {
		t.Fatalf("planner failed: %v", bag.Items())
	}
	want := []string{"a", "b", "c"}
	if len(p.InitOrder) != len(want) {
		t.Fatalf("init order = %v", p.InitOrder)
	}
	for i, w := range want {
		if p.InitOrder[i].String() != w {
			t.Fatalf("init order = %v, want %v", p.InitOrder, want)
		}
	}
}

// S4: mutually eager statics are a cycle: E-MOD-1401, no init order.
func TestEagerCycle(t *testing.T) {
	m1 := module("m1", staticReading("a", ident.Path{"m2"}, "b"))
	m2 := module("m2", staticReading("b", ident.Path{"m1"}, "a"))

	p, bag := planOf(t, m1, m2)
	if p.TopoOK {
		t.Fatalf("cycle accepted")
	}
	if len(p.InitOrder) != 0 {
		t.Fatalf("init order should be empty on a cycle, got %v", p.InitOrder)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != "E-MOD-1401" {
		t.Fatalf("diagnostics = %v, want single E-MOD-1401", bag.Items())
	}
}

// Lazy edges may cycle: bodies reading each other's module is fine.
func TestLazyCycleAllowed(t *testing.T) {
	bodyRef := func(target string) ast.Expr {
		return &ast.PathExpr{Module: ident.Path{target}, Name: "f"}
	}
	procA := &ast.ProcedureItem{Body: bodyRef("b")}
	procA.Name = "f"
	procB := &ast.ProcedureItem{Body: bodyRef("a")}
	procB.Name = "f"

	p, bag := planOf(t, module("a", procA), module("b", procB))
	if !p.TopoOK || bag.HasErrors() {
		t.Fatalf("lazy cycle rejected: %v", bag.Items())
	}
	if len(p.InitOrder) != 2 {
		t.Fatalf("init order = %v", p.InitOrder)
	}
}

func TestReadyModulesSortedDeterministically(t *testing.T) {
	// No eager edges at all: order is simply sorted module keys.
	p, _ := planOf(t, module("zeta"), module("alpha"), module("midl"))
	want := []string{"alpha", "midl", "zeta"}
	for i, w := range want {
		if p.InitOrder[i].String() != w {
			t.Fatalf("init order = %v, want %v", p.InitOrder, want)
		}
	}
}

func TestTypeDepsFromSignatures(t *testing.T) {
	param := ast.Param{Type: &ast.TypePathExpr{Path: ident.Path{"other"}, Name: "T"}}
	proc := &ast.ProcedureItem{Params: []ast.Param{param}}
	proc.Name = "f"

	p, _ := planOf(t, module("other"), module("m", proc))
	mID, _ := p.IDOf(ident.Path{"m"})
	otherID, _ := p.IDOf(ident.Path{"other"})
	found := false
	for _, to := range p.TypeEdges[mID] {
		if to == otherID {
			found = true
		}
	}
	if !found {
		t.Fatalf("type edge m -> other missing: %v", p.TypeEdges[mID])
	}
	if len(p.EagerEdges[mID]) != 0 {
		t.Fatalf("signature reference leaked into eager edges")
	}
}

func TestModuleDigestsChangeWithDeps(t *testing.T) {
	a1 := module("a")
	a1.Span = source.Span{Start: 0, End: 10}
	b := module("b", staticReading("x", ident.Path{"a"}, "v"))

	p1, _ := planOf(t, a1, b)
	d1 := ModuleDigests(p1, []ast.Module{a1, b})

	// Change a's content: b's digest must change too.
	item := &ast.ProcedureItem{}
	item.Name = "g"
	item.Sp = source.Span{Start: 3, End: 9}
	a2 := module("a", item)
	p2, _ := planOf(t, a2, b)
	d2 := ModuleDigests(p2, []ast.Module{a2, b})

	if d1["a"] == d2["a"] {
		t.Fatalf("content change did not change a's digest")
	}
	if d1["b"] == d2["b"] {
		t.Fatalf("dependency change did not propagate to b's digest")
	}
	unchanged := UnchangedModules(d2, d1)
	if unchanged["a"] || unchanged["b"] {
		t.Fatalf("unchanged = %v, want neither", unchanged)
	}
}
