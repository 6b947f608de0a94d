package trace

import (
	"sync"

	"github.com/google/uuid"

	"c0/internal/source"
)

// SpecRecord is one rule firing (or definition reference) captured by a
// SpecSink while rule tracing is enabled.
type SpecRecord struct {
	Rule    string
	Section string // "" for rule firings; set for definition references
	Span    source.Span
	Payload map[string]string
}

// SpecSink captures per-rule instrumentation: every rule firing and
// definition reference of interest during a compilation. It is threaded
// through the analyzer context rather than living in a process global,
// so tests can scope capture to a single run. A nil sink is valid and
// records nothing.
type SpecSink struct {
	mu      sync.Mutex
	session string
	tracer  Tracer
	records []SpecRecord
}

// NewSpecSink creates a sink tagged with a fresh session identifier so
// coverage output from repeated runs never collides. The optional
// tracer additionally receives each firing as a point event.
func NewSpecSink(tracer Tracer) *SpecSink {
	if tracer == nil {
		tracer = Nop
	}
	return &SpecSink{
		session: uuid.NewString(),
		tracer:  tracer,
	}
}

// Session returns the sink's run identifier.
func (s *SpecSink) Session() string {
	if s == nil {
		return ""
	}
	return s.session
}

// Rule records the firing of a rule id at span with an optional payload.
func (s *SpecSink) Rule(id string, span source.Span, payload map[string]string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.records = append(s.records, SpecRecord{Rule: id, Span: span, Payload: payload})
	s.mu.Unlock()
	if s.tracer.Enabled() {
		s.tracer.Emit(&Event{
			Kind:  KindPoint,
			Scope: ScopeNode,
			Name:  "rule:" + id,
			Extra: payload,
		})
	}
}

// BeginPass opens a pass-scoped span on the sink's tracer; the
// analyzer wraps each of its passes in one so a streamed trace shows
// where every rule firing happened. A nil sink returns a no-op span.
func (s *SpecSink) BeginPass(name string) *Span {
	if s == nil {
		return Begin(Nop, ScopePass, name, 0)
	}
	return Begin(s.tracer, ScopePass, name, 0)
}

// Def records a definition reference: a rule id plus the spec section
// that defines it.
func (s *SpecSink) Def(id, section string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.records = append(s.records, SpecRecord{Rule: id, Section: section})
	s.mu.Unlock()
}

// Records returns a copy of everything captured so far.
func (s *SpecSink) Records() []SpecRecord {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SpecRecord(nil), s.records...)
}

// Covered reports whether the given rule id fired at least once.
func (s *SpecSink) Covered(rule string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Rule == rule {
			return true
		}
	}
	return false
}
