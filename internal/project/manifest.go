package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"c0/internal/diag"
)

// AssemblyKind is the output kind declared by [package].kind.
type AssemblyKind uint8

const (
	AssemblyUnknown AssemblyKind = iota
	AssemblyExecutable
	AssemblyLibrary
)

func ParseAssemblyKind(s string) AssemblyKind {
	switch s {
	case "", "executable", "bin":
		return AssemblyExecutable
	case "library", "lib":
		return AssemblyLibrary
	default:
		return AssemblyUnknown
	}
}

// EmitIR is the --emit-ir / [build].emit_ir setting.
type EmitIR uint8

const (
	EmitIRNone EmitIR = iota
	EmitIRText        // .ll
	EmitIRBitcode     // .bc
)

func ParseEmitIR(s string) (EmitIR, bool) {
	switch s {
	case "", "none":
		return EmitIRNone, true
	case "ll":
		return EmitIRText, true
	case "bc":
		return EmitIRBitcode, true
	default:
		return EmitIRNone, false
	}
}

// Manifest is the parsed form of Cursive.toml.
type Manifest struct {
	Package struct {
		Name   string `toml:"name"`
		Kind   string `toml:"kind"`
		OutDir string `toml:"out_dir"`
	} `toml:"package"`
	Build struct {
		EmitIR string `toml:"emit_ir"`
	} `toml:"build"`
	Link struct {
		RuntimeLib string   `toml:"runtime_lib"`
		Libs       []string `toml:"libs"`
	} `toml:"link"`
}

// OutDir returns the configured output directory, defaulting to "build".
func (m *Manifest) OutDir() string {
	if m.Package.OutDir == "" {
		return "build"
	}
	return m.Package.OutDir
}

// Kind returns the assembly output kind, defaulting to executable.
func (m *Manifest) Kind() AssemblyKind {
	return ParseAssemblyKind(m.Package.Kind)
}

// RuntimeLibPath returns the configured runtime library path relative to
// root, defaulting to "runtime/cursive0_rt.lib".
func (m *Manifest) RuntimeLibPath() string {
	if m.Link.RuntimeLib != "" {
		return m.Link.RuntimeLib
	}
	return filepath.Join("runtime", "cursive0_rt.lib")
}

// ParseManifest loads and parses Cursive.toml from root. On failure it
// returns the rule id to report (RuleManifestMissing or
// RuleManifestParse) rather than an error value, so callers thread it
// through the same diagnostic path as every other fallible pass.
func ParseManifest(root string) (*Manifest, diag.RuleID, bool) {
	path := filepath.Join(root, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, diag.RuleManifestMissing, false
		}
		return nil, diag.RuleManifestParse, false
	}
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, diag.RuleManifestParse, false
	}
	if m.Package.Name == "" {
		return nil, diag.RuleManifestParse, false
	}
	if _, ok := ParseEmitIR(m.Build.EmitIR); !ok {
		return nil, diag.RuleManifestParse, false
	}
	if m.Kind() == AssemblyUnknown {
		return nil, diag.RuleManifestParse, false
	}
	return &m, "", true
}
