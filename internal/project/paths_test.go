package project

import "testing"

func TestCanonNormalizeRoundTrip(t *testing.T) {
	cases := []string{"a/b/c", "./a/b", "a//b/./c", "build\\obj\\m.obj"}
	for _, p := range cases {
		n, ok := Normalize(p)
		if !ok {
			t.Fatalf("Normalize(%q) rejected", p)
		}
		c1, ok1 := Canon(n)
		c2, ok2 := Canon(p)
		if !ok1 || !ok2 || c1 != c2 {
			t.Errorf("Canon(Normalize(%q)) = %q, Canon(%q) = %q", p, c1, p, c2)
		}
	}
}

func TestCanonRejectsDotDot(t *testing.T) {
	for _, p := range []string{"..", "../a", "a/../../b", "a/.."} {
		if _, ok := Normalize(p); ok {
			t.Errorf("Normalize(%q) accepted a .. escape", p)
		}
		if _, ok := Canon(p); ok {
			t.Errorf("Canon(%q) accepted a .. escape", p)
		}
	}
}

func TestManifestDefaults(t *testing.T) {
	var m Manifest
	if m.OutDir() != "build" {
		t.Errorf("OutDir default = %q", m.OutDir())
	}
	if m.Kind() != AssemblyExecutable {
		t.Errorf("Kind default = %v", m.Kind())
	}
}
