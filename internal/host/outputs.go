// Package host holds the leaf adapters around the compiler core's
// external collaborators: output path computation, toolchain
// resolution, runtime-library validation, and child-process
// invocation. Only the contracts the core depends on are implemented
// here; code generation itself lives elsewhere.
package host

import (
	"path/filepath"
	"strings"

	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/project"
	"c0/internal/source"
)

// Layout computes every output path of one assembly build.
type Layout struct {
	Root     string
	OutDir   string
	Assembly string
	EmitIR   project.EmitIR
}

// NewLayout derives a layout from the manifest.
func NewLayout(root string, m *project.Manifest) Layout {
	emit, _ := project.ParseEmitIR(m.Build.EmitIR)
	return Layout{
		Root:     root,
		OutDir:   m.OutDir(),
		Assembly: m.Package.Name,
		EmitIR:   emit,
	}
}

// OutputRoot is the directory every produced path must stay under.
func (l Layout) OutputRoot() string {
	return filepath.Join(l.Root, l.OutDir)
}

// ObjPath is the per-module object file path.
func (l Layout) ObjPath(module ident.Path) string {
	return filepath.Join(l.OutputRoot(), "obj", ident.ManglePath(module)+".obj")
}

// IRPath is the per-module IR file path; ok is false when IR emission
// is disabled.
func (l Layout) IRPath(module ident.Path) (string, bool) {
	ext := ""
	switch l.EmitIR {
	case project.EmitIRText:
		ext = ".ll"
	case project.EmitIRBitcode:
		ext = ".bc"
	default:
		return "", false
	}
	return filepath.Join(l.OutputRoot(), "ir", ident.ManglePath(module)+ext), true
}

// BinPath is the executable output path; ok is false for library
// assemblies.
func (l Layout) BinPath(kind project.AssemblyKind) (string, bool) {
	if kind != project.AssemblyExecutable {
		return "", false
	}
	return filepath.Join(l.OutputRoot(), "bin", l.Assembly+".exe"), true
}

// AllPaths lists every output the build will produce for the given
// modules.
func (l Layout) AllPaths(kind project.AssemblyKind, modules []ident.Path) []string {
	var out []string
	for _, m := range modules {
		out = append(out, l.ObjPath(m))
		if ir, ok := l.IRPath(m); ok {
			out = append(out, ir)
		}
	}
	if bin, ok := l.BinPath(kind); ok {
		out = append(out, bin)
	}
	return out
}

// CheckHygiene validates output hygiene: every path under the output
// root and no collisions among mangled module paths. Violations are
// reported through r; the return is false when any were found.
func (l Layout) CheckHygiene(r diag.Reporter, kind project.AssemblyKind, modules []ident.Path) bool {
	ok := true
	root := filepath.Clean(l.OutputRoot()) + string(filepath.Separator)
	for _, p := range l.AllPaths(kind, modules) {
		if !strings.HasPrefix(filepath.Clean(p), root) {
			diag.ReportRule(r, diag.RuleOutHygiene, source.Span{}, map[string]string{"path": p})
			ok = false
		}
	}
	seen := map[string]ident.Path{}
	for _, m := range modules {
		mangled := ident.ManglePath(m)
		if prev, dup := seen[mangled]; dup {
			diag.ReportRule(r, diag.RuleOutMangleCollide, source.Span{}, map[string]string{
				"a": prev.String(), "b": m.String(),
			})
			ok = false
			continue
		}
		seen[mangled] = m
	}
	return ok
}
