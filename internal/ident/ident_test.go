package ident

import "testing"

func TestPathEqual(t *testing.T) {
	a := Path{"std", "io"}
	b := Path{"std", "io"}
	c := Path{"std", "net"}
	if !a.Equal(b) {
		t.Errorf("expected %v == %v", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %v != %v", a, c)
	}
}

func TestPathKeyDistinguishesSegmentation(t *testing.T) {
	// "a::b" as one segment vs ["a","b"] as two must not collide under Key().
	p1 := Path{"a::b"}
	p2 := Path{"a", "b"}
	if p1.Key() == p2.Key() {
		t.Errorf("Key() collided for %v and %v: %q", p1, p2, p1.Key())
	}
}

func TestMangleInjective(t *testing.T) {
	cases := []QualifiedName{
		{Module: Path{"a", "b"}, Name: "f"},
		{Module: Path{"a"}, Name: "bf"},
		{Module: Path{"ab"}, Name: "f"},
		{Module: nil, Name: "abf"},
	}
	seen := make(map[string]QualifiedName)
	for _, q := range cases {
		m := Mangle(q)
		if prev, ok := seen[m]; ok {
			t.Errorf("mangle collision: %v and %v both produced %q", prev, q, m)
		}
		seen[m] = q
	}
}

func TestReservedNames(t *testing.T) {
	if !IsKeyword("match") {
		t.Errorf("match should be a keyword")
	}
	if !IsPrimitiveTypeName("i32") {
		t.Errorf("i32 should be a primitive type name")
	}
	if !IsGeneratedPrefixed("gen_tmp0") {
		t.Errorf("gen_tmp0 should be flagged as compiler-generated")
	}
	if IsReservedAnywhere("my_value") {
		t.Errorf("my_value should not be reserved")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	s := "café"
	n1 := Normalize(s)
	n2 := Normalize(n1)
	if n1 != n2 {
		t.Errorf("Normalize not idempotent: %q vs %q", n1, n2)
	}
}
