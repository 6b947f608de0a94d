package builtin

import (
	"testing"

	"c0/internal/ast"
	"c0/internal/ident"
)

func TestPopulateInstallsCapabilities(t *testing.T) {
	sigma := ast.NewSigma()
	Populate(sigma)

	for _, name := range []string{
		"Region", "File", "DirIter", "DirEntry", "FileKind", "IoError",
		"AllocationError", "Context", "System", "Spawned", "Tracked",
		"CancelToken", "Async", "Sequence", "Future", "Stream", "Pipe", "Exchange",
	} {
		if _, ok := sigma.LookupType(ident.QualifiedName{Name: name}); !ok {
			t.Errorf("type %s not installed", name)
		}
	}
	for _, name := range []string{"Drop", "Bitcopy", "Clone", "ExecutionDomain", "CpuDomain", "GpuDomain", "InlineDomain"} {
		if _, ok := sigma.LookupClass(ident.QualifiedName{Name: name}); !ok {
			t.Errorf("class %s not installed", name)
		}
	}

	region, ok := sigma.LookupModal(ident.QualifiedName{Name: "Region"})
	if !ok {
		t.Fatalf("Region is not a modal")
	}
	states := map[string]bool{}
	for _, s := range region.States {
		states[s.Name] = true
	}
	for _, want := range []string{"Active", "Frozen", "Freed"} {
		if !states[want] {
			t.Errorf("Region is missing state %s", want)
		}
	}
}

func TestUniverseEntities(t *testing.T) {
	sigma := ast.NewSigma()
	Populate(sigma)
	entities := UniverseEntities(sigma)

	if e, ok := entities["File"]; !ok || e.Kind != ast.EntityBuiltin {
		t.Fatalf("File not seeded into the universe scope: %+v", e)
	}
	if e, ok := entities["string"]; !ok || e.Kind != ast.EntityModule {
		t.Fatalf("string namespace not seeded: %+v", e)
	}
}

func TestStringSigs(t *testing.T) {
	appendSig, ok := LookupStringMethodSig("append")
	if !ok || !appendSig.RequiresUnique {
		t.Fatalf("append must require a Unique receiver")
	}
	for name, sig := range map[string]bool{
		"from": true, "with_capacity": true, "from_slice": true,
		"to_managed": true, "clone_with": true,
		"as_view": false, "view": false, "as_slice": false,
		"length": false, "is_empty": false,
	} {
		s, found := LookupStringMethodSig(name)
		if !found {
			t.Errorf("string::%s missing", name)
			continue
		}
		if s.Allocating != sig {
			t.Errorf("string::%s allocating = %v, want %v", name, s.Allocating, sig)
		}
		if name != "append" && s.RequiresUnique {
			t.Errorf("string::%s should not require Unique", name)
		}
	}
	if _, ok := LookupBytesMethodSig("view_string"); !ok {
		t.Errorf("bytes::view_string missing")
	}
}

func TestFileSystemSigs(t *testing.T) {
	if _, ok := LookupFileSystemMethodSig("read_all"); !ok {
		t.Fatalf("read_all missing")
	}
	if _, ok := LookupFileSystemMethodSig("no_such"); ok {
		t.Fatalf("unknown filesystem method resolved")
	}
}

func TestCancelTokenSigs(t *testing.T) {
	if _, ok := LookupCancelTokenMethodSig("cancel", "Armed"); !ok {
		t.Fatalf("cancel missing while Armed")
	}
	if _, ok := LookupCancelTokenMethodSig("cancel", "Cancelled"); ok {
		t.Fatalf("cancel resolved in Cancelled state")
	}
	if _, ok := LookupCancelTokenMethodSig("is_cancelled", ""); !ok {
		t.Fatalf("is_cancelled missing")
	}
}

func TestTypePathPredicates(t *testing.T) {
	if !IsExecutionDomainTypePath(ident.QualifiedName{Name: "GpuDomain"}) {
		t.Errorf("GpuDomain not recognized")
	}
	if IsExecutionDomainTypePath(ident.QualifiedName{Module: ident.Path{"m"}, Name: "GpuDomain"}) {
		t.Errorf("user GpuDomain recognized as builtin")
	}
	if !IsAsyncTypePath(ident.QualifiedName{Name: "Future"}) {
		t.Errorf("Future not recognized as async")
	}
	if !IsSpawnedTypePath(ident.QualifiedName{Name: "Spawned"}) || !IsTrackedTypePath(ident.QualifiedName{Name: "Tracked"}) {
		t.Errorf("Spawned/Tracked predicates failed")
	}
	if !IsCancelTokenTypePath(ident.QualifiedName{Name: "CancelToken"}) {
		t.Errorf("CancelToken predicate failed")
	}
}
