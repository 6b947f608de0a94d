package diag

import "c0/internal/source"

// ReportRule resolves id through DiagCodeMap and reports it if, and only
// if, the rule has a mapped code. An unmapped rule is silently dropped -
// trace-only sites with no entry in the code map must be no-ops outside
// of trace mode, never an assertion failure. It returns true when a
// diagnostic was actually reported.
func ReportRule(r Reporter, id RuleID, span source.Span, args map[string]string) bool {
	code, sev, ok := CodeForRule(id)
	if !ok || r == nil {
		return false
	}
	msg, _ := Format(id, args)
	r.Report(code, sev, span, msg, nil, nil)
	return true
}

// MakeDiagnostic resolves id to a full Diagnostic without reporting it.
// ok is false when id has no entry in DiagCodeMap.
func MakeDiagnostic(id RuleID, span source.Span, args map[string]string) (Diagnostic, bool) {
	code, sev, ok := CodeForRule(id)
	if !ok {
		return Diagnostic{}, false
	}
	msg, _ := Format(id, args)
	return Diagnostic{Severity: sev, Code: code, Message: msg, Primary: span}, true
}
