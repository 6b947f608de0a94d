package modal

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/source"
)

func indexEngine() (*Engine, *diag.Bag) {
	bag := diag.NewBag(8)
	return NewEngine(ast.NewSigma(), diag.BagReporter{Bag: bag}), bag
}

func TestIndexJudgments(t *testing.T) {
	i32 := ast.RPrim{Name: "i32"}
	uniqueElem := ast.RPerm{Perm: ast.PermUnique, Base: i32}

	cases := []struct {
		name       string
		base       ast.TypeRef
		constIndex bool
		isRange    bool
		wantCode   string
	}{
		{"slice direct", ast.RSlice{Elem: i32}, true, false, "E-TYP-0011"},
		{"slice range bitcopy", ast.RSlice{Elem: i32}, false, true, ""},
		{"slice range non-bitcopy", ast.RSlice{Elem: uniqueElem}, false, true, "E-TYP-0010"},
		{"array const", ast.RArray{Elem: i32, Len: 4}, true, false, ""},
		{"array non-const", ast.RArray{Elem: i32, Len: 4}, false, false, "E-TYP-0012"},
		{"array range non-bitcopy", ast.RArray{Elem: uniqueElem, Len: 4}, false, true, "E-TYP-0010"},
		{"perm-wrapped slice", ast.RPerm{Perm: ast.PermConst, Base: ast.RSlice{Elem: i32}}, true, false, "E-TYP-0011"},
		{"non-indexable", i32, false, false, ""},
	}
	for _, tc := range cases {
		e, bag := indexEngine()
		ok := e.CheckIndex(tc.base, tc.constIndex, tc.isRange, source.Span{})
		if tc.wantCode == "" {
			if !ok || bag.Len() != 0 {
				t.Errorf("%s: unexpected diagnostics %v", tc.name, bag.Items())
			}
			continue
		}
		if ok || bag.Len() != 1 || bag.Items()[0].Code.String() != tc.wantCode {
			t.Errorf("%s: diagnostics = %v, want %s", tc.name, bag.Items(), tc.wantCode)
		}
	}
}

func TestResolveModalMember(t *testing.T) {
	decl := &ast.ModalItem{States: []ast.ModalStateBlock{
		{
			Name:        "Open",
			Methods:     []ast.StateMethod{{Name: "read"}},
			Transitions: []ast.Transition{{Name: "close", ToState: "Closed"}},
		},
		{Name: "Closed"},
	}}
	decl.Name = "Handle"

	e, bag := indexEngine()
	if m, _, ok := e.ResolveModalMember(decl, "Open", "read", source.Span{}); !ok || m == nil {
		t.Fatalf("state method lookup failed")
	}
	if _, tr, ok := e.ResolveModalMember(decl, "Open", "close", source.Span{}); !ok || tr == nil || tr.ToState != "Closed" {
		t.Fatalf("transition lookup failed")
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	if _, _, ok := e.ResolveModalMember(decl, "Missing", "read", source.Span{}); ok {
		t.Fatalf("unknown state resolved")
	}
	if bag.Items()[0].Code != "E-TYP-0008" {
		t.Fatalf("code = %s, want E-TYP-0008", bag.Items()[0].Code)
	}
	if _, _, ok := e.ResolveModalMember(decl, "Closed", "read", source.Span{}); ok {
		t.Fatalf("unknown member resolved")
	}
	if bag.Items()[1].Code != "E-TYP-0009" {
		t.Fatalf("code = %s, want E-TYP-0009", bag.Items()[1].Code)
	}
}
