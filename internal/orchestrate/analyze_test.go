package orchestrate

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/ident"
	"c0/internal/source"
	"c0/internal/trace"
)

func proc(name string, vis ast.Visibility, body ast.Expr, sp source.Span) *ast.ProcedureItem {
	p := &ast.ProcedureItem{Vis: vis, Body: body}
	p.Name = name
	p.Sp = sp
	return p
}

func static(name string, vis ast.Visibility, value ast.Expr, sp source.Span) *ast.StaticItem {
	s := &ast.StaticItem{Vis: vis, Value: value}
	s.Name = name
	s.Sp = sp
	return s
}

// S3: a duplicate top-level name yields E-MOD-1302 at the second span,
// and the name map keeps the first binding.
func TestDuplicateTopLevelName(t *testing.T) {
	lit := &ast.LiteralExpr{Kind: ast.LitInt, Text: "0"}
	mod := ast.Module{Path: ident.Path{"m"}, Items: []ast.Item{
		proc("x", ast.VisPublic, nil, source.Span{Start: 0, End: 10}),
		static("x", ast.VisPublic, lit, source.Span{Start: 12, End: 22}),
	}}

	result := Analyze(Project{Modules: []ast.Module{mod}}, nil)
	errs := 0
	for _, d := range result.Bag.Items() {
		if d.Code == "E-MOD-1302" {
			errs++
			if d.Primary.Start != 12 {
				t.Fatalf("duplicate reported at %v, want the second declaration", d.Primary)
			}
		}
	}
	if errs != 1 {
		t.Fatalf("got %d E-MOD-1302, want 1: %v", errs, result.Bag.Items())
	}

	nameMap := result.Table[ident.Path{"m"}.Key()]
	if e, ok := nameMap["x"]; !ok || e.Kind != ast.EntityProcedure {
		t.Fatalf("name map lost the first binding: %+v", e)
	}
}

func TestAnalyzeCleanProject(t *testing.T) {
	body := &ast.BlockExpr{}
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{
		proc("f", ast.VisPublic, body, source.Span{Start: 0, End: 10}),
	}}

	result := Analyze(Project{Modules: []ast.Module{m1}}, nil)
	if result.Status() != StatusOk {
		t.Fatalf("clean project failed: %v", result.Bag.Items())
	}
	if !result.Plan.TopoOK || len(result.Plan.InitOrder) != 1 {
		t.Fatalf("plan = %+v", result.Plan)
	}
	if len(result.Modules) != 1 {
		t.Fatalf("resolved modules = %d", len(result.Modules))
	}
}

func TestAnalyzeStatusFail(t *testing.T) {
	use := &ast.IdentExpr{Name: "missing"}
	use.Sp = source.Span{Start: 5, End: 12}
	body := &ast.BlockExpr{Tail: use}
	mod := ast.Module{Path: ident.Path{"m"}, Items: []ast.Item{
		proc("f", ast.VisPublic, body, source.Span{Start: 0, End: 14}),
	}}

	result := Analyze(Project{Modules: []ast.Module{mod}}, nil)
	if result.Status() != StatusFail {
		t.Fatalf("unresolved identifier did not fail the compile")
	}
}

func TestSpecTraceCapturesRuleFirings(t *testing.T) {
	use := &ast.IdentExpr{Name: "missing"}
	use.Sp = source.Span{Start: 5, End: 12}
	body := &ast.BlockExpr{Tail: use}
	mod := ast.Module{Path: ident.Path{"m"}, Items: []ast.Item{
		proc("f", ast.VisPublic, body, source.Span{Start: 0, End: 14}),
	}}

	sink := trace.NewSpecSink(nil)
	Analyze(Project{Modules: []ast.Module{mod}}, sink)
	if !sink.Covered("ResolveExpr-Ident-Err") {
		t.Fatalf("rule firing not captured: %v", sink.Records())
	}
	if sink.Session() == "" {
		t.Fatalf("spec sink has no session id")
	}
}

// Built-in names are protected: a module-level declaration of File is
// rejected by the universe guard.
func TestUniverseProtectedName(t *testing.T) {
	mod := ast.Module{Path: ident.Path{"m"}, Items: []ast.Item{
		proc("File", ast.VisPublic, nil, source.Span{Start: 0, End: 8}),
	}}
	result := Analyze(Project{Modules: []ast.Module{mod}}, nil)
	if result.Status() != StatusFail {
		t.Fatalf("module-level File accepted: %v", result.Bag.Items())
	}
}
