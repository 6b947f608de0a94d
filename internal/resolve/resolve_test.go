package resolve

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/collect"
	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/modal"
	"c0/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func procItem(name string, vis ast.Visibility, body ast.Expr, sp source.Span) *ast.ProcedureItem {
	p := &ast.ProcedureItem{Vis: vis, Body: body}
	p.Name = name
	p.Sp = sp
	return p
}

func usingItem(target ident.Path, name, alias string, vis ast.Visibility) *ast.UsingItem {
	u := &ast.UsingItem{TargetModule: target, TargetName: name, Alias: alias, Vis: vis}
	if alias != "" {
		u.Name = alias
	} else {
		u.Name = name
	}
	return u
}

func newTestResolver(t *testing.T, modules []ast.Module, current ident.Path) (*Resolver, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(32)
	r := diag.BagReporter{Bag: bag}
	table := collect.FixedPoint(r, modules)
	sigma := ast.NewSigma()
	sigma.PopulateUser(modules)
	engine := modal.NewEngine(sigma, r)
	res := NewResolver(sigma, table, engine, r, nil, current)
	return res, bag
}

// S1: m1 declares pub proc f; m2 re-exports it as g; m3 imports m2::g
// and calls g(): the call resolves to the entity at m1::f.
func TestUsingReexportAliasing(t *testing.T) {
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{
		procItem("f", ast.VisPublic, nil, span(0, 5)),
	}}
	m2 := ast.Module{Path: ident.Path{"m2"}, Items: []ast.Item{
		usingItem(ident.Path{"m1"}, "f", "g", ast.VisPublic),
	}}

	callIdent := &ast.IdentExpr{Name: "g"}
	callIdent.Sp = span(10, 11)
	call := &ast.CallExpr{Callee: callIdent}
	call.Sp = span(10, 13)
	body := &ast.BlockExpr{Stmts: []ast.Stmt{}, Tail: call}
	body.Sp = span(8, 14)
	m3 := ast.Module{Path: ident.Path{"m3"}, Items: []ast.Item{
		usingItem(ident.Path{"m2"}, "g", "", ast.VisPrivate),
		procItem("main", ast.VisPublic, body, span(6, 20)),
	}}

	res, bag := newTestResolver(t, []ast.Module{m1, m2, m3}, ident.Path{"m3"})
	out, ok := res.ResolveModule(m3)
	if !ok || bag.HasErrors() {
		t.Fatalf("ResolveModule failed: %v", bag.Items())
	}

	proc := out.Items[1].(*ast.ProcedureItem)
	block := proc.Body.(*ast.BlockExpr)
	resolvedCall, isCall := block.Tail.(*ast.CallExpr)
	if !isCall {
		t.Fatalf("tail = %T, want CallExpr", block.Tail)
	}
	path, isPath := resolvedCall.Callee.(*ast.PathExpr)
	if !isPath {
		t.Fatalf("callee = %T, want PathExpr", resolvedCall.Callee)
	}
	if !path.Module.Equal(ident.Path{"m1"}) || path.Name != "f" {
		t.Fatalf("callee = %s::%s, want m1::f", path.Module, path.Name)
	}
	if path.Span() != span(10, 11) {
		t.Fatalf("rewritten node dropped its span: %v", path.Span())
	}
}

// S2: a private procedure accessed cross-module yields exactly one
// E-MOD-1207 at the use-site span.
func TestPrivateVisibility(t *testing.T) {
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{
		procItem("h", ast.VisPrivate, nil, span(0, 5)),
	}}

	use := &ast.QualifiedExpr{Path: ident.Path{"m1"}, Name: "h", Args: []ast.Expr{}}
	use.Sp = span(30, 38)
	body := &ast.BlockExpr{Tail: use}
	body.Sp = span(28, 40)
	m2 := ast.Module{Path: ident.Path{"m2"}, Items: []ast.Item{
		procItem("main", ast.VisPublic, body, span(20, 44)),
	}}

	res, bag := newTestResolver(t, []ast.Module{m1, m2}, ident.Path{"m2"})
	res.ResolveModule(m2)

	errs := 0
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			errs++
			if d.Code != "E-MOD-1207" {
				t.Fatalf("code = %s, want E-MOD-1207", d.Code)
			}
			if d.Primary != span(30, 38) {
				t.Fatalf("diagnostic span = %v, want the call site", d.Primary)
			}
		}
	}
	if errs != 1 {
		t.Fatalf("got %d errors, want exactly 1: %v", errs, bag.Items())
	}
}

func TestResolveStmtSeqEmpty(t *testing.T) {
	res, bag := newTestResolver(t, nil, ident.Path{"m"})
	out, ok := res.ResolveStmtSeq(nil)
	if !ok || len(out) != 0 || bag.HasErrors() {
		t.Fatalf("ResolveStmtSeq([]) = %v, %v", out, ok)
	}
}

func TestRegionAllocAlias(t *testing.T) {
	lit := &ast.LiteralExpr{Kind: ast.LitInt, Text: "42"}
	lit.Sp = span(5, 7)
	alloc := &ast.AllocExpr{RegionAlias: "r", Value: lit}
	alloc.Sp = span(3, 7)
	region := &ast.RegionExpr{Alias: "r", Body: alloc}
	region.Sp = span(0, 9)

	res, bag := newTestResolver(t, nil, ident.Path{"m"})
	if _, ok := res.ResolveExpr(region); !ok || bag.HasErrors() {
		t.Fatalf("region-aliased allocation failed: %v", bag.Items())
	}
}

func TestRegionAllocAliasMissing(t *testing.T) {
	lit := &ast.LiteralExpr{Kind: ast.LitInt, Text: "42"}
	alloc := &ast.AllocExpr{RegionAlias: "r", Value: lit}
	alloc.Sp = span(3, 7)

	res, bag := newTestResolver(t, nil, ident.Path{"m"})
	if _, ok := res.ResolveExpr(alloc); ok {
		t.Fatalf("allocation with unbound region alias resolved")
	}
	if len(bag.Items()) != 1 || bag.Items()[0].Code != "E-REG-0005" {
		t.Fatalf("diagnostics = %v, want single E-REG-0005", bag.Items())
	}
}

func TestResolveIdempotent(t *testing.T) {
	path := &ast.PathExpr{Module: ident.Path{"m1"}, Name: "f"}
	path.Sp = span(1, 2)

	res, _ := newTestResolver(t, nil, ident.Path{"m"})
	out, ok := res.ResolveExpr(path)
	if !ok {
		t.Fatalf("resolving a resolved node failed")
	}
	if out != ast.Expr(path) {
		t.Fatalf("resolving a PathExpr should be a no-op")
	}
}

func TestConstLen(t *testing.T) {
	lit := func(s string) ast.Expr {
		l := &ast.LiteralExpr{Kind: ast.LitInt, Text: s}
		return l
	}
	sum := &ast.BinaryExpr{Op: "+", Left: lit("2"), Right: lit("3")}
	if v, ok := ConstLen(sum); !ok || v != 5 {
		t.Fatalf("ConstLen(2+3) = %d, %v", v, ok)
	}
	ref := &ast.IdentExpr{Name: "n"}
	if _, ok := ConstLen(ref); ok {
		t.Fatalf("non-constant length folded")
	}
}

func TestArrayTypeNonConstLen(t *testing.T) {
	nonConst := &ast.IdentExpr{Name: "n"}
	nonConst.Sp = span(4, 5)
	arr := &ast.TypeArrayExpr{Elem: &ast.TypePrimExpr{Name: "i32"}, Length: nonConst}

	res, bag := newTestResolver(t, nil, ident.Path{"m"})
	if _, ok := res.ResolveType(arr); ok {
		t.Fatalf("array type with non-constant length resolved")
	}
	if !bag.HasErrors() {
		t.Fatalf("expected a diagnostic for the non-constant length")
	}
}

func TestShadowLet(t *testing.T) {
	inner := &ast.LetStmt{Name: "x", Value: &ast.LiteralExpr{Kind: ast.LitInt, Text: "2"}, Shadow: true}
	inner.Sp = span(10, 14)
	innerBlock := &ast.BlockExpr{Stmts: []ast.Stmt{inner}}
	innerBlock.Sp = span(9, 15)
	outer := &ast.LetStmt{Name: "x", Value: &ast.LiteralExpr{Kind: ast.LitInt, Text: "1"}}
	outer.Sp = span(0, 4)
	tailStmt := &ast.ExprStmt{Value: innerBlock}
	tailStmt.Sp = innerBlock.Sp
	block := &ast.BlockExpr{Stmts: []ast.Stmt{outer, tailStmt}}
	block.Sp = span(0, 16)

	res, bag := newTestResolver(t, nil, ident.Path{"m"})
	if _, ok := res.ResolveExpr(block); !ok || bag.HasErrors() {
		t.Fatalf("shadow let failed: %v", bag.Items())
	}
}

func TestEnumVariantDisambiguation(t *testing.T) {
	enum := &ast.EnumItem{Variants: []ast.EnumVariant{{Name: "Red"}, {Name: "Rgb", Args: []ast.TypeExpr{&ast.TypePrimExpr{Name: "u8"}}}}}
	enum.Name = "Color"
	enum.Vis = ast.VisPublic
	m1 := ast.Module{Path: ident.Path{"m1"}, Items: []ast.Item{enum}}

	use := &ast.QualifiedExpr{Path: ident.Path{"m1", "Color"}, Name: "Red"}
	use.Sp = span(3, 12)

	res, bag := newTestResolver(t, []ast.Module{m1}, ident.Path{"m2"})
	out, ok := res.ResolveExpr(use)
	if !ok || bag.HasErrors() {
		t.Fatalf("enum variant failed to resolve: %v", bag.Items())
	}
	lit, isLit := out.(*ast.EnumLiteralExpr)
	if !isLit || lit.Variant != "Red" || lit.Enum.Name != "Color" {
		t.Fatalf("resolved to %T %+v, want EnumLiteralExpr Color::Red", out, out)
	}
	if lit.Span() != span(3, 12) {
		t.Fatalf("span not preserved")
	}
}
