package trace

import (
	"testing"

	"c0/internal/source"
)

func TestSpecSinkRecords(t *testing.T) {
	s := NewSpecSink(nil)
	s.Rule("Intro-Dup", source.Span{Start: 1, End: 2}, map[string]string{"name": "x"})
	s.Def("Lin-Fail", "§4.7.1")

	records := s.Records()
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Rule != "Intro-Dup" || records[0].Span.Start != 1 {
		t.Fatalf("rule record = %+v", records[0])
	}
	if records[1].Section != "§4.7.1" {
		t.Fatalf("def record = %+v", records[1])
	}
	if !s.Covered("Intro-Dup") || s.Covered("Never-Fired") {
		t.Fatalf("coverage predicate wrong")
	}
}

func TestSpecSinkNilSafe(t *testing.T) {
	var s *SpecSink
	s.Rule("Intro-Dup", source.Span{}, nil)
	s.Def("X", "§1")
	if s.Records() != nil || s.Covered("Intro-Dup") || s.Session() != "" {
		t.Fatalf("nil sink should record nothing")
	}
}

func TestSpecSinkSessionsDistinct(t *testing.T) {
	a, b := NewSpecSink(nil), NewSpecSink(nil)
	if a.Session() == b.Session() {
		t.Fatalf("two runs share a session id")
	}
}
