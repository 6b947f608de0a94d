package host

import (
	"bytes"
	"os"

	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/source"
)

var spanless = source.Span{}

// RequiredRuntimeSymbols is the fixed symbol set the runtime library
// must export for a link to succeed: panic, the region operations, the
// string/bytes builtins, the fs/heap capability methods, and context
// initialization.
var RequiredRuntimeSymbols = []string{
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "runtime"}, Name: "panic"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "runtime"}, Name: "context_init"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "region"}, Name: "create"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "region"}, Name: "alloc"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "region"}, Name: "free"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "region"}, Name: "frame_enter"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "region"}, Name: "frame_exit"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "string"}, Name: "from"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "string"}, Name: "append"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "bytes"}, Name: "from"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "bytes"}, Name: "append"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "fs"}, Name: "open_read"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "fs"}, Name: "open_write"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "fs"}, Name: "read_dir"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "heap"}, Name: "alloc"}),
	ident.Mangle(ident.QualifiedName{Module: ident.Path{"cursive", "heap"}, Name: "free"}),
}

// CheckRuntimeLib verifies the runtime library exists at path and
// exports every required symbol. A missing file is E-OUT-0407; each
// missing symbol is E-OUT-0408. The symbol scan is a byte search over
// the archive, which is exact enough for the fixed mangled names.
func CheckRuntimeLib(r diag.Reporter, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		diag.ReportRule(r, diag.RuleOutNoRuntimeLib, spanless, nil)
		return false
	}
	ok := true
	for _, sym := range RequiredRuntimeSymbols {
		if !bytes.Contains(data, []byte(sym)) {
			diag.ReportRule(r, diag.RuleOutRuntimeSymbol, spanless, map[string]string{"name": sym})
			ok = false
		}
	}
	return ok
}
