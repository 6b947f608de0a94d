package host

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/project"
)

func layout() Layout {
	return Layout{Root: filepath.FromSlash("/proj"), OutDir: "build", Assembly: "app", EmitIR: project.EmitIRText}
}

func TestOutputPaths(t *testing.T) {
	l := layout()
	mod := ident.Path{"core", "io"}

	obj := l.ObjPath(mod)
	if !strings.HasPrefix(obj, l.OutputRoot()) || !strings.HasSuffix(obj, ".obj") {
		t.Fatalf("obj path = %s", obj)
	}
	ir, ok := l.IRPath(mod)
	if !ok || !strings.HasSuffix(ir, ".ll") {
		t.Fatalf("ir path = %s, %v", ir, ok)
	}
	l.EmitIR = project.EmitIRBitcode
	if ir, _ := l.IRPath(mod); !strings.HasSuffix(ir, ".bc") {
		t.Fatalf("bc path = %s", ir)
	}
	l.EmitIR = project.EmitIRNone
	if _, ok := l.IRPath(mod); ok {
		t.Fatalf("IR path produced with emission disabled")
	}
	bin, ok := l.BinPath(project.AssemblyExecutable)
	if !ok || filepath.Base(bin) != "app.exe" {
		t.Fatalf("bin path = %s", bin)
	}
	if _, ok := l.BinPath(project.AssemblyLibrary); ok {
		t.Fatalf("library assembly produced a bin path")
	}
}

func TestHygieneClean(t *testing.T) {
	bag := diag.NewBag(8)
	l := layout()
	mods := []ident.Path{{"a"}, {"b"}, {"a", "b"}}
	if !l.CheckHygiene(diag.BagReporter{Bag: bag}, project.AssemblyExecutable, mods) {
		t.Fatalf("clean layout flagged: %v", bag.Items())
	}
}

func TestMangleInjective(t *testing.T) {
	// The classic splitting collision: ["a::b"] vs ["a","b"] vs ["ab"].
	paths := []ident.Path{{"a", "b"}, {"ab"}, {"a::b"}, {"a", "b", ""}}
	seen := map[string]ident.Path{}
	for _, p := range paths {
		m := ident.ManglePath(p)
		if prev, dup := seen[m]; dup {
			t.Fatalf("mangle collision: %v and %v both map to %s", prev, p, m)
		}
		seen[m] = p
	}
}

func TestRuntimeLibMissing(t *testing.T) {
	bag := diag.NewBag(8)
	if CheckRuntimeLib(diag.BagReporter{Bag: bag}, filepath.Join(t.TempDir(), "nope.lib")) {
		t.Fatalf("missing runtime lib accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != "E-OUT-0407" {
		t.Fatalf("diagnostics = %v, want single E-OUT-0407", bag.Items())
	}
}

func TestRuntimeLibSymbols(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "cursive0_rt.lib")

	var full []byte
	for _, sym := range RequiredRuntimeSymbols {
		full = append(full, []byte(sym)...)
		full = append(full, 0)
	}
	if err := os.WriteFile(lib, full, 0o644); err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(8)
	if !CheckRuntimeLib(diag.BagReporter{Bag: bag}, lib) {
		t.Fatalf("complete runtime lib rejected: %v", bag.Items())
	}

	// Drop the first symbol: exactly its E-OUT-0408.
	partial := full[len(RequiredRuntimeSymbols[0])+1:]
	if err := os.WriteFile(lib, partial, 0o644); err != nil {
		t.Fatal(err)
	}
	bag = diag.NewBag(8)
	if CheckRuntimeLib(diag.BagReporter{Bag: bag}, lib) {
		t.Fatalf("incomplete runtime lib accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != "E-OUT-0408" {
		t.Fatalf("diagnostics = %v, want single E-OUT-0408", bag.Items())
	}
}

func TestResolveToolEnvOverride(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "llvm-as")
	if err := os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("C0_LLVM_BIN", dir)
	p, ok := ResolveTool(t.TempDir(), "llvm-as")
	if !ok || p != tool {
		t.Fatalf("ResolveTool = %s, %v; want the C0_LLVM_BIN entry", p, ok)
	}
}

func TestResolveToolMissing(t *testing.T) {
	t.Setenv("C0_LLVM_BIN", "")
	t.Setenv("PATH", t.TempDir())
	bag := diag.NewBag(8)
	if _, ok := ResolveAssembler(diag.BagReporter{Bag: bag}, t.TempDir()); ok {
		t.Fatalf("assembler resolved from an empty search space")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != "E-OUT-0403" {
		t.Fatalf("diagnostics = %v, want single E-OUT-0403", bag.Items())
	}
	bag = diag.NewBag(8)
	if _, ok := ResolveLinker(diag.BagReporter{Bag: bag}, t.TempDir()); ok {
		t.Fatalf("linker resolved from an empty search space")
	}
	if bag.Items()[0].Code != "E-OUT-0405" {
		t.Fatalf("diagnostics = %v, want E-OUT-0405", bag.Items())
	}
}
