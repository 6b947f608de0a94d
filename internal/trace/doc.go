// Package trace provides a tracing subsystem for the c0 compiler,
// including the spec-trace sink that records per-rule firings for the
// test harness.
//
// The trace package enables tracking of analysis passes, module
// processing, and rule firings to help diagnose behavior and verify
// rule coverage.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	c0 build --trace=- myproject
//
// # Architecture
//
// The package provides two tracer implementations:
//
//   - NopTracer: Zero-overhead no-op tracer when disabled
//   - StreamTracer: Immediate write to output (file/stderr)
//
// A SpecSink layers rule-firing capture on top of a Tracer; it is
// threaded through the analyzer explicitly so tests can scope capture
// to a single run.
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Enabled, but no scope is emitted
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Module-level events
//   - LevelDebug: Everything including AST nodes
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeDriver: Top-level CLI operations
//   - ScopePass: Analysis passes (collect, resolve, region, plan)
//   - ScopeModule: Per-module processing
//   - ScopeNode: Rule firings at individual AST nodes
//
// # Context Propagation
//
// A Tracer can be carried in a context.Context (the analysis passes do
// not do this; they reach their tracer through a SpecSink):
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "resolve", parentID)
//	defer span.End("")
package trace
