package ub

import (
	"testing"

	"c0/internal/ast"
)

var allPrims = []HostPrim{
	PrimParseTOML, PrimReadBytes, PrimWriteFile, PrimResolveTool,
	PrimResolveRuntimeLib, PrimInvoke, PrimAssembleIR, PrimInvokeLinker,
	PrimFSOpenRead, PrimFSOpenWrite, PrimFSOpenAppend, PrimFSReadDir,
	PrimFileReadAll, PrimFileWrite, PrimFileFlush, PrimFileClose,
	PrimDirIterNext, PrimDirIterClose,
}

// The taxonomy is total and the two categories are disjoint.
func TestHostPrimTaxonomyTotalAndDisjoint(t *testing.T) {
	for _, p := range allPrims {
		d, r := IsHostPrimDiag(p), IsHostPrimRuntime(p)
		if !MapsToDiagOrRuntime(p) {
			t.Errorf("%s: not covered by the taxonomy", p)
		}
		if d && r {
			t.Errorf("%s: in both categories", p)
		}
		if MapsToDiagOrRuntime(p) != (d || r) {
			t.Errorf("%s: MapsToDiagOrRuntime disagrees with the union", p)
		}
	}
}

func TestHostPrimFail(t *testing.T) {
	for _, p := range allPrims {
		HostPrimFail(p, true)  // covered: must not panic
		HostPrimFail(p, false) // non-failure: must not panic
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("uncovered primitive failure did not abort")
		}
	}()
	HostPrimFail(HostPrim(250), true)
}

func TestBehaviorOf(t *testing.T) {
	cases := []struct {
		name string
		op   DynamicOp
		want Behavior
	}{
		{"read valid", DynamicOp{Kind: OpRawPtrRead, AddrState: ast.PtrStateValid}, Specified},
		{"read null", DynamicOp{Kind: OpRawPtrRead, AddrState: ast.PtrStateNull}, UVB},
		{"read expired", DynamicOp{Kind: OpRawPtrRead, AddrState: ast.PtrStateExpired}, UVB},
		{"write valid mutable", DynamicOp{Kind: OpRawPtrWrite, AddrState: ast.PtrStateValid}, Specified},
		{"write valid immutable", DynamicOp{Kind: OpRawPtrWrite, AddrState: ast.PtrStateValid, Immutable: true}, UVB},
		{"write null", DynamicOp{Kind: OpRawPtrWrite, AddrState: ast.PtrStateNull}, UVB},
	}
	for _, tc := range cases {
		if got := BehaviorOf(tc.op); got != tc.want {
			t.Errorf("%s: BehaviorOf = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStaticUndefinedCode(t *testing.T) {
	if code, ok := StaticUndefinedCode("Reg-Expired-Use"); !ok || code != "E-REG-0003" {
		t.Fatalf("spec-mapped rule = %s, %v", code, ok)
	}
	if code, ok := StaticUndefinedCode("UB-RawPtr-Read"); !ok || code != "E-TYP-0900" {
		t.Fatalf("c0-fallback rule = %s, %v", code, ok)
	}
	if _, ok := StaticUndefinedCode("No-Such-Rule"); ok {
		t.Fatalf("unmapped rule returned a code")
	}
}
