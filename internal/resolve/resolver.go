// Package resolve rewrites parsed modules into resolved ones: every
// identifier, qualified name, and type reference is bound against the
// fixed-point name table and Σ, with visibility enforced at every use.
// The rewrite is functional: input modules are never mutated; and
// span-preserving: every rewritten node carries the source span of the
// node it replaced.
package resolve

import (
	"c0/internal/ast"
	"c0/internal/collect"
	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/modal"
	"c0/internal/scope"
	"c0/internal/source"
	"c0/internal/trace"
)

// Resolver is the cursor of a single module's resolution: the scope
// stack it owns, the shared read-only tables it consults, and the
// reporter/trace sink every judgment feeds.
type Resolver struct {
	Sigma    *ast.Sigma
	Table    collect.ModuleTable
	Engine   *modal.Engine
	Scope    *scope.Context
	Reporter diag.Reporter
	Spec     *trace.SpecSink

	// Module is the path of the module currently being resolved; it is
	// the accessor side of every visibility check.
	Module ident.Path
}

// NewResolver builds a resolver for one module over shared state.
func NewResolver(sigma *ast.Sigma, table collect.ModuleTable, engine *modal.Engine, r diag.Reporter, spec *trace.SpecSink, module ident.Path) *Resolver {
	return &Resolver{
		Sigma:    sigma,
		Table:    table,
		Engine:   engine,
		Scope:    scope.NewContext(r),
		Reporter: r,
		Spec:     spec,
		Module:   module,
	}
}

// report fires the rule through the spec sink and, when the rule has a
// mapped code, emits the diagnostic.
func (r *Resolver) report(id diag.RuleID, span source.Span, args map[string]string) {
	r.Spec.Rule(string(id), span, args)
	diag.ReportRule(r.Reporter, id, span, args)
}

// reportAccessDenied emits Access-Err through a ReportBuilder so the
// diagnostic carries a note pointing at the inaccessible declaration.
func (r *Resolver) reportAccessDenied(name string, span, declSpan source.Span) {
	args := map[string]string{"name": name}
	r.Spec.Rule(string(diag.RuleAccessErr), span, args)
	d, ok := diag.MakeDiagnostic(diag.RuleAccessErr, span, args)
	if !ok {
		return
	}
	b := diag.NewReportBuilder(r.Reporter, d.Severity, d.Code, d.Primary, d.Message)
	if !declSpan.Empty() {
		b.WithNote(declSpan, "declared here")
	}
	b.Emit()
}
