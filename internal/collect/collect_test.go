package collect

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/source"
)

func proc(name string, vis ast.Visibility) *ast.ProcedureItem {
	p := &ast.ProcedureItem{Vis: vis}
	p.Name = name
	return p
}

func using(target ident.Path, name, alias string, vis ast.Visibility) *ast.UsingItem {
	u := &ast.UsingItem{TargetModule: target, TargetName: name, Alias: alias, Vis: vis}
	if alias != "" {
		u.Name = alias
	} else {
		u.Name = name
	}
	return u
}

// S1's collection half: three modules chained through re-exports all
// stabilize, and m3::g points at the entity declared at m1::f.
func TestFixedPointReexportChain(t *testing.T) {
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{proc("f", ast.VisPublic)}}
	m2 := ast.Module{Path: ident.Path{"m2"}, Items: []ast.Item{using(ident.Path{"m1"}, "f", "g", ast.VisPublic)}}
	m3 := ast.Module{Path: ident.Path{"m3"}, Items: []ast.Item{using(ident.Path{"m2"}, "g", "", ast.VisPrivate)}}

	bag := diag.NewBag(8)
	table := FixedPoint(diag.BagReporter{Bag: bag}, []ast.Module{m1, m2, m3})
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	g, ok := table[ident.Path{"m3"}.Key()]["g"]
	if !ok {
		t.Fatalf("m3::g did not stabilize: %v", table)
	}
	if !g.Origin.Equal(ident.Path{"m1"}) {
		t.Fatalf("m3::g origin = %v, want m1", g.Origin)
	}
	if g.Target == nil || g.Target.ItemName() != "f" {
		t.Fatalf("m3::g target = %v, want the f declaration", g.Target)
	}
	if g.Source != ast.SourceUsing {
		t.Fatalf("m3::g source = %v, want SourceUsing", g.Source)
	}
}

// Invariant: re-running CollectModule on the stabilized table yields
// the same maps.
func TestFixedPointIdempotent(t *testing.T) {
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{proc("f", ast.VisPublic)}}
	m2 := ast.Module{Path: ident.Path{"m2"}, Items: []ast.Item{using(ident.Path{"m1"}, "f", "g", ast.VisPublic)}}
	modules := []ast.Module{m1, m2}

	table := FixedPoint(diag.NopReporter{}, modules)
	for _, m := range modules {
		again := CollectModule(diag.NopReporter{}, m, table)
		prev := table[m.Path.Key()]
		if len(again) != len(prev) {
			t.Fatalf("%s: map changed on re-run: %v vs %v", m.Path, again, prev)
		}
		for name := range prev {
			if _, ok := again[name]; !ok {
				t.Fatalf("%s: binding %s lost on re-run", m.Path, name)
			}
		}
	}
}

func TestPublicUsingOfPrivateItem(t *testing.T) {
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{proc("f", ast.VisPrivate)}}
	m2 := ast.Module{Path: ident.Path{"m2"}, Items: []ast.Item{using(ident.Path{"m1"}, "f", "", ast.VisPublic)}}

	bag := diag.NewBag(8)
	FixedPoint(diag.BagReporter{Bag: bag}, []ast.Module{m1, m2})
	if !bag.HasErrors() {
		t.Fatalf("public re-export of a private item accepted")
	}
	if bag.Items()[0].Code != "E-MOD-1206" {
		t.Fatalf("code = %s, want E-MOD-1206", bag.Items()[0].Code)
	}
}

func TestUsingUnknownTarget(t *testing.T) {
	m := ast.Module{Path: ident.Path{"m"}, Items: []ast.Item{using(ident.Path{"ghost"}, "f", "", ast.VisPrivate)}}
	bag := diag.NewBag(8)
	FixedPoint(diag.BagReporter{Bag: bag}, []ast.Module{m})
	if bag.Len() == 0 || bag.Items()[0].Code != "E-MOD-1205" {
		t.Fatalf("diagnostics = %v, want E-MOD-1205", bag.Items())
	}
}

func TestWildcardImportsPublicOnly(t *testing.T) {
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{
		proc("pubf", ast.VisPublic),
		proc("privf", ast.VisPrivate),
	}}
	m2 := ast.Module{Path: ident.Path{"m2"}, Items: []ast.Item{using(ident.Path{"m1"}, "", "", ast.VisPrivate)}}

	table := FixedPoint(diag.NopReporter{}, []ast.Module{m1, m2})
	m2map := table[ident.Path{"m2"}.Key()]
	if _, ok := m2map["pubf"]; !ok {
		t.Fatalf("wildcard did not import the public item")
	}
	if _, ok := m2map["privf"]; ok {
		t.Fatalf("wildcard imported a private item")
	}
}

func TestUsingListSelfAndDup(t *testing.T) {
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{proc("f", ast.VisPublic)}}
	list := &ast.UsingItem{
		TargetModule: ident.Path{"m1"},
		Specs: []ast.UsingSpec{
			{Name: "f"},
			{Name: "self", Alias: "one"},
			{Name: "f", Alias: "again"},
		},
		Vis: ast.VisPrivate,
	}
	list.Name = "f"
	m2 := ast.Module{Path: ident.Path{"m2"}, Items: []ast.Item{list}}

	bag := diag.NewBag(8)
	table := FixedPoint(diag.BagReporter{Bag: bag}, []ast.Module{m1, m2})

	m2map := table[ident.Path{"m2"}.Key()]
	if e, ok := m2map["f"]; !ok || e.Origin.String() != "m1" {
		t.Fatalf("list import of f missing: %v", m2map)
	}
	if e, ok := m2map["one"]; !ok || e.Kind != ast.EntityModule {
		t.Fatalf("self spec did not bind the module: %+v", e)
	}
	dupSeen := false
	for _, d := range bag.Items() {
		if d.Code == "E-MOD-1208" {
			dupSeen = true
		}
	}
	if !dupSeen {
		t.Fatalf("duplicate spec not reported: %v", bag.Items())
	}
}

func TestUsingAmbiguousItemAndModule(t *testing.T) {
	// m1 declares an item named sub while a module m1::sub also exists.
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{proc("sub", ast.VisPublic)}}
	sub := ast.Module{Path: ident.Path{"m1", "sub"}, Items: nil}
	m2 := ast.Module{Path: ident.Path{"m2"}, Items: []ast.Item{using(ident.Path{"m1"}, "sub", "", ast.VisPrivate)}}

	bag := diag.NewBag(8)
	FixedPoint(diag.BagReporter{Bag: bag}, []ast.Module{m1, sub, m2})
	found := false
	for _, d := range bag.Items() {
		if d.Code == "E-MOD-1204" {
			found = true
		}
	}
	if !found {
		t.Fatalf("ambiguous using not reported: %v", bag.Items())
	}
}

func TestUsingModuleAlias(t *testing.T) {
	inner := ast.Module{Path: ident.Path{"std", "io"}, Items: []ast.Item{proc("put", ast.VisPublic)}}
	m := ast.Module{Path: ident.Path{"m"}, Items: []ast.Item{using(ident.Path{"std"}, "io", "io2", ast.VisPrivate)}}

	table := FixedPoint(diag.NopReporter{}, []ast.Module{inner, m})
	e, ok := table[ident.Path{"m"}.Key()]["io2"]
	if !ok || e.Kind != ast.EntityModule {
		t.Fatalf("module alias not bound: %+v", e)
	}
	if !e.Origin.Equal(ident.Path{"std", "io"}) {
		t.Fatalf("alias origin = %v, want std::io", e.Origin)
	}
}

// Two canonically-equal spellings of one identifier are the same name:
// binding NFC and NFD forms of "café" is a duplicate, not two entries.
func TestNormalizedNamesCollide(t *testing.T) {
	nfc := "caf\u00e9"
	nfd := "cafe\u0301"
	m := ast.Module{Path: ident.Path{"m"}, Items: []ast.Item{
		proc(nfc, ast.VisPublic),
		proc(nfd, ast.VisPublic),
	}}

	bag := diag.NewBag(8)
	table := FixedPoint(diag.BagReporter{Bag: bag}, []ast.Module{m})
	if len(table[ident.Path{"m"}.Key()]) != 1 {
		t.Fatalf("NFC/NFD spellings bound separately: %v", table[ident.Path{"m"}.Key()])
	}
	if bag.Len() != 1 || bag.Items()[0].Code != "E-MOD-1302" {
		t.Fatalf("diagnostics = %v, want single E-MOD-1302", bag.Items())
	}
}

func TestStaticPatternBindsAllNames(t *testing.T) {
	pat := &ast.TuplePattern{Elems: []ast.Pattern{
		&ast.IdentPattern{Name: "a"},
		&ast.IdentPattern{Name: "b"},
	}}
	s := &ast.StaticItem{Pattern: pat, Vis: ast.VisPublic}
	s.Name = "a"
	s.Sp = source.Span{Start: 0, End: 10}
	m := ast.Module{Path: ident.Path{"m"}, Items: []ast.Item{s}}

	table := FixedPoint(diag.NopReporter{}, []ast.Module{m})
	nameMap := table[ident.Path{"m"}.Key()]
	for _, want := range []string{"a", "b"} {
		if _, ok := nameMap[want]; !ok {
			t.Fatalf("pattern name %s not bound: %v", want, nameMap)
		}
	}
}
