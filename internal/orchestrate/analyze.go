// Package orchestrate threads diagnostics through the analysis passes
// and exposes the single entry point the CLI and tests drive:
// Analyze(project) -> (resolved modules, diagnostics, init plan).
package orchestrate

import (
	"c0/internal/ast"
	"c0/internal/builtin"
	"c0/internal/collect"
	"c0/internal/diag"
	"c0/internal/initplan"
	"c0/internal/modal"
	"c0/internal/region"
	"c0/internal/resolve"
	"c0/internal/trace"
)

// Project is the analyzer's input: a parsed module set. Parsing itself
// is an external collaborator; whatever produced the modules hands
// them in here.
type Project struct {
	Root    string
	Modules []ast.Module
}

// CompileStatus folds a diagnostic stream to its outcome.
type CompileStatus uint8

const (
	StatusOk CompileStatus = iota
	StatusFail
)

func (s CompileStatus) String() string {
	if s == StatusFail {
		return "Fail"
	}
	return "Ok"
}

// Result is everything Analyze produces.
type Result struct {
	Modules []ast.Module // resolved rewrites, one per input module
	Bag     *diag.Bag
	Plan    *initplan.Plan
	Sigma   *ast.Sigma
	Table   collect.ModuleTable
	Engine  *modal.Engine
}

// Status derives the compile status from the diagnostic stream.
func (r *Result) Status() CompileStatus {
	if r.Bag.HasErrors() {
		return StatusFail
	}
	return StatusOk
}

// Analyze runs the full middle end over a parsed project: Σ population
// (built-ins, then user declarations), the name-collection fixed
// point, per-module resolution, class linearization, region checks,
// and initialization planning. Diagnostics accumulate in the result's
// bag; no pass aborts on user errors.
func Analyze(p Project, spec *trace.SpecSink) *Result {
	bag := diag.NewBag(1024)
	reporter := diag.BagReporter{Bag: bag}

	sigma := ast.NewSigma()
	builtin.Populate(sigma)
	sigma.PopulateUser(p.Modules)

	collectSpan := spec.BeginPass("collect")
	table := collect.FixedPoint(reporter, p.Modules)
	collectSpan.End("")
	engine := modal.NewEngine(sigma, reporter)
	universe := builtin.UniverseEntities(sigma)

	result := &Result{Bag: bag, Sigma: sigma, Table: table, Engine: engine}

	resolveSpan := spec.BeginPass("resolve")
	for _, mod := range p.Modules {
		res := resolve.NewResolver(sigma, table, engine, reporter, spec, mod.Path)
		for name, e := range universe {
			res.Scope.Declare(name, e)
		}
		// Partial results still flow into later passes; on failure the
		// bag already carries the resolution errors.
		resolved, _ := res.ResolveModule(mod)
		result.Modules = append(result.Modules, resolved)
	}
	resolveSpan.End("")

	// Linearize every user class so MRO conflicts surface even when no
	// expression mentions the class, and hold implementers to the
	// classes they declare.
	classSpan := spec.BeginPass("classes")
	for _, mod := range p.Modules {
		for _, item := range mod.Items {
			switch it := item.(type) {
			case *ast.ClassItem:
				q := mod.Path.Join(it.Name)
				if _, ok := engine.LinearizeClass(q); ok {
					engine.ClassMethodTable(q)
					engine.ClassFieldTable(q)
				}
			case *ast.RecordItem, *ast.EnumItem, *ast.ModalItem:
				engine.CheckImplements(mod.Path, item)
			}
		}
	}
	classSpan.End("")

	regionSpan := spec.BeginPass("region")
	checker := region.NewChecker(reporter, spec)
	for _, mod := range result.Modules {
		checker.CheckModule(mod)
	}
	regionSpan.End("")

	planSpan := spec.BeginPass("plan")
	result.Plan = initplan.Compute(reporter, spec, result.Modules)
	planSpan.End("")
	return result
}
