package region

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func lit(text string) ast.Expr {
	l := &ast.LiteralExpr{Kind: ast.LitInt, Text: text}
	return l
}

func checkBody(body ast.Expr) *diag.Bag {
	bag := diag.NewBag(16)
	c := NewChecker(diag.BagReporter{Bag: bag}, nil)
	c.checkBody(body)
	return bag
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.String())
	}
	return out
}

func TestAllocOutsideRegion(t *testing.T) {
	alloc := &ast.AllocExpr{Value: lit("1")}
	alloc.Sp = span(2, 5)
	bag := checkBody(alloc)
	got := codes(bag)
	if len(got) != 1 || got[0] != "E-REG-0001" {
		t.Fatalf("codes = %v, want [E-REG-0001]", got)
	}
}

func TestAllocInsideRegion(t *testing.T) {
	alloc := &ast.AllocExpr{Value: lit("1")}
	region := &ast.RegionExpr{Body: alloc}
	bag := checkBody(region)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
}

// S5: let p = region r { r^42 }; return p  →  E-REG-0002 at the return
// statement's span.
func TestRegionEscapeThroughReturn(t *testing.T) {
	alloc := &ast.AllocExpr{RegionAlias: "r", Value: lit("42")}
	alloc.Sp = span(18, 22)
	region := &ast.RegionExpr{Alias: "r", Body: alloc}
	region.Sp = span(8, 24)
	letP := &ast.LetStmt{Name: "p", Value: region}
	letP.Sp = span(0, 25)

	use := &ast.IdentExpr{Name: "p"}
	use.Sp = span(33, 34)
	ret := &ast.ReturnStmt{Value: use}
	ret.Sp = span(26, 35)

	body := &ast.BlockExpr{Stmts: []ast.Stmt{letP, ret}}
	body.Sp = span(0, 36)

	bag := checkBody(body)
	got := codes(bag)
	if len(got) != 1 || got[0] != "E-REG-0002" {
		t.Fatalf("codes = %v, want [E-REG-0002]", got)
	}
	if bag.Items()[0].Primary != span(26, 35) {
		t.Fatalf("escape reported at %v, want the return statement", bag.Items()[0].Primary)
	}
}

func TestExpiredUse(t *testing.T) {
	alloc := &ast.AllocExpr{Value: lit("42")}
	region := &ast.RegionExpr{Body: alloc}
	letP := &ast.LetStmt{Name: "p", Value: region}
	letP.Sp = span(0, 10)

	use := &ast.IdentExpr{Name: "p"}
	use.Sp = span(12, 13)
	useStmt := &ast.ExprStmt{Value: use}
	useStmt.Sp = span(12, 13)

	body := &ast.BlockExpr{Stmts: []ast.Stmt{letP, useStmt}}
	bag := checkBody(body)
	got := codes(bag)
	if len(got) != 1 || got[0] != "E-REG-0003" {
		t.Fatalf("codes = %v, want [E-REG-0003]", got)
	}
}

func TestFrameOutsideRegion(t *testing.T) {
	frame := &ast.FrameExpr{Body: lit("1")}
	frame.Sp = span(0, 8)
	bag := checkBody(frame)
	got := codes(bag)
	if len(got) != 1 || got[0] != "E-REG-0004" {
		t.Fatalf("codes = %v, want [E-REG-0004]", got)
	}
}

func TestFrameInsideRegion(t *testing.T) {
	alloc := &ast.AllocExpr{Value: lit("1")}
	frame := &ast.FrameExpr{Body: alloc}
	region := &ast.RegionExpr{Body: frame}
	bag := checkBody(region)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
}

func TestNamedAllocUnknownAlias(t *testing.T) {
	alloc := &ast.AllocExpr{RegionAlias: "q", Value: lit("1")}
	alloc.Sp = span(4, 9)
	region := &ast.RegionExpr{Alias: "r", Body: alloc}
	bag := checkBody(region)
	got := codes(bag)
	if len(got) != 1 || got[0] != "E-REG-0005" {
		t.Fatalf("codes = %v, want [E-REG-0005]", got)
	}
}

// An allocation into an outer region via its alias survives the inner
// frame exit: provenance follows the alias, not the innermost scope.
func TestAliasTargetsOuterRegion(t *testing.T) {
	alloc := &ast.AllocExpr{RegionAlias: "r", Value: lit("1")}
	frame := &ast.FrameExpr{Body: alloc}
	letP := &ast.LetStmt{Name: "p", Value: frame}
	letP.Sp = span(0, 10)
	use := &ast.IdentExpr{Name: "p"}
	use.Sp = span(12, 13)
	useStmt := &ast.ExprStmt{Value: use}
	useStmt.Sp = use.Sp
	inner := &ast.BlockExpr{Stmts: []ast.Stmt{letP, useStmt}}
	region := &ast.RegionExpr{Alias: "r", Body: inner}

	bag := checkBody(region)
	if bag.Len() != 0 {
		t.Fatalf("outer-region allocation expired early: %v", codes(bag))
	}
}

func TestMatchProvenanceUnifies(t *testing.T) {
	// Both arms allocate in the same region; the match result carries
	// that provenance and escapes when returned.
	allocA := &ast.AllocExpr{Value: lit("1")}
	allocB := &ast.AllocExpr{Value: lit("2")}
	m := &ast.MatchExpr{
		Scrutinee: lit("0"),
		Arms: []ast.MatchArm{
			{Pattern: &ast.WildcardPattern{}, Body: allocA},
			{Pattern: &ast.WildcardPattern{}, Body: allocB},
		},
	}
	ret := &ast.ReturnStmt{Value: m}
	ret.Sp = span(10, 20)
	block := &ast.BlockExpr{Stmts: []ast.Stmt{ret}}
	region := &ast.RegionExpr{Body: block}

	bag := checkBody(region)
	got := codes(bag)
	if len(got) != 1 || got[0] != "E-REG-0002" {
		t.Fatalf("codes = %v, want [E-REG-0002]", got)
	}
}
