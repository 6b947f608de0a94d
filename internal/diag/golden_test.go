package diag

import (
	"strings"
	"testing"

	"c0/internal/source"
)

func goldenFixture(t *testing.T) (*source.FileSet, *Bag) {
	t.Helper()
	fs := source.NewFileSet()
	user := fs.AddVirtual("app/main.c0", []byte("proc main() {\n    frob()\n}\n"))
	std := fs.AddVirtual("stdlib/core.c0", []byte("pub proc frob()\n"))

	bag := NewBag(8)
	d1, ok := MakeDiagnostic(RuleResolveIdentErr, source.Span{File: user, Start: 18, End: 22}, map[string]string{"name": "frob"})
	if !ok {
		t.Fatalf("RuleResolveIdentErr has no code")
	}
	bag.Add(&d1)
	d2, _ := MakeDiagnostic(RuleShadowUnnecessary, source.Span{File: std, Start: 0, End: 3}, map[string]string{"name": "frob"})
	bag.Add(&d2)
	return fs, bag
}

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs, bag := goldenFixture(t)
	out := FormatGoldenDiagnostics(bag.Items(), fs, false)

	if !strings.Contains(out, "error E-MOD-1210 app/main.c0:2:5 frob is not defined") {
		t.Fatalf("golden output missing the user diagnostic:\n%s", out)
	}
	// The stdlib-file warning is filtered out of golden output.
	if strings.Contains(out, "stdlib/core.c0") {
		t.Fatalf("golden output kept a stdlib path:\n%s", out)
	}
	if strings.Count(out, "\n") > 1 {
		t.Fatalf("golden output should be one line per entry:\n%s", out)
	}
}

func TestFormatShortDiagnostics(t *testing.T) {
	fs, bag := goldenFixture(t)
	out := FormatShortDiagnostics(bag.Items(), fs, false)

	// Short output keeps stdlib paths and sorts by path.
	if !strings.Contains(out, "warning W-MOD-1306 stdlib/core.c0:1:1") {
		t.Fatalf("short output dropped the stdlib entry:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("short output = %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "error E-MOD-1210 app/main.c0") {
		t.Fatalf("entries not sorted by path:\n%s", out)
	}
}

// The rendering is deterministic: formatting the same bag twice (and a
// shuffled copy) yields identical output.
func TestFormatGoldenDeterministic(t *testing.T) {
	fs, bag := goldenFixture(t)
	first := FormatShortDiagnostics(bag.Items(), fs, false)
	second := FormatShortDiagnostics(bag.Items(), fs, false)
	if first != second {
		t.Fatalf("repeated formatting differs:\n%q\nvs\n%q", first, second)
	}

	reversed := []*Diagnostic{bag.Items()[1], bag.Items()[0]}
	if got := FormatShortDiagnostics(reversed, fs, false); got != first {
		t.Fatalf("input order leaked into output:\n%q\nvs\n%q", got, first)
	}
}

func TestFormatGoldenIncludesNotes(t *testing.T) {
	fs := source.NewFileSet()
	user := fs.AddVirtual("app/main.c0", []byte("proc main() {}\n"))

	bag := NewBag(4)
	d, _ := MakeDiagnostic(RuleAccessErr, source.Span{File: user, Start: 0, End: 4}, map[string]string{"name": "h"})
	d.Notes = append(d.Notes, Note{Span: source.Span{File: user, Start: 5, End: 9}, Msg: "declared here"})
	bag.Add(&d)

	out := FormatGoldenDiagnostics(bag.Items(), fs, true)
	if !strings.Contains(out, "note E-MOD-1207 app/main.c0:1:6 declared here") {
		t.Fatalf("note entry missing:\n%s", out)
	}
}
