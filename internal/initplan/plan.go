package initplan

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/source"
	"c0/internal/trace"
)

// ModuleID is the interned index of a module path in a Plan.
type ModuleID uint32

// Plan is the initialization plan of one project: interned module
// indices, the three edge sets over them, and the eager topological
// order. InitOrder is empty and TopoOK false when the eager graph has
// a cycle.
type Plan struct {
	Modules    []ident.Path
	index      map[string]ModuleID
	TypeEdges  [][]ModuleID
	EagerEdges [][]ModuleID
	LazyEdges  [][]ModuleID

	TopoOK    bool
	InitOrder []ident.Path
}

// IDOf returns the interned index of a module path.
func (p *Plan) IDOf(path ident.Path) (ModuleID, bool) {
	id, ok := p.index[path.Key()]
	return id, ok
}

// Compute extracts dependencies from every module (in parallel; each
// module's extraction is independent), interns module paths to dense
// indices, validates eager acyclicity, and derives the init order.
func Compute(r diag.Reporter, spec *trace.SpecSink, modules []ast.Module) *Plan {
	p := &Plan{index: map[string]ModuleID{}}

	// Modules are interned in sorted path order so indices: and with
	// them the ready-set tie-break of the topo sort: are stable
	// across runs regardless of input order.
	sorted := append([]ast.Module(nil), modules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Path.Key() < sorted[j].Path.Key()
	})
	for _, m := range sorted {
		if _, dup := p.index[m.Path.Key()]; dup {
			continue
		}
		id, err := safecast.Conv[uint32](len(p.Modules))
		if err != nil {
			panic(fmt.Errorf("module id overflow: %w", err))
		}
		p.index[m.Path.Key()] = ModuleID(id)
		p.Modules = append(p.Modules, m.Path)
	}

	deps := make([]*ModuleDeps, len(sorted))
	var g errgroup.Group
	for i, m := range sorted {
		i, m := i, m
		g.Go(func() error {
			deps[i] = ExtractDeps(m)
			return nil
		})
	}
	_ = g.Wait() // ExtractDeps never fails; errgroup only fans out

	n := len(p.Modules)
	p.TypeEdges = make([][]ModuleID, n)
	p.EagerEdges = make([][]ModuleID, n)
	p.LazyEdges = make([][]ModuleID, n)
	for _, d := range deps {
		from := p.index[d.Path.Key()]
		p.TypeEdges[from] = p.edgeSet(d.Type)
		p.EagerEdges[from] = p.edgeSet(d.Eager)
		p.LazyEdges[from] = p.edgeSet(d.Lazy)
	}

	order, ok := p.topoEager()
	p.TopoOK = ok
	if !ok {
		cycle := p.findEagerCycle()
		spec.Rule(string(diag.RuleAcyclicEager), cycleSpan(sorted, cycle), nil)
		diag.ReportRule(r, diag.RuleAcyclicEager, cycleSpan(sorted, cycle), map[string]string{
			"cycle": cycleString(p, cycle),
		})
		return p
	}
	for _, id := range order {
		p.InitOrder = append(p.InitOrder, p.Modules[id])
	}
	return p
}

// edgeSet converts a dependency set into a sorted slice of interned
// ids, dropping targets outside the project (built-ins).
func (p *Plan) edgeSet(set map[string]ident.Path) []ModuleID {
	var out []ModuleID
	for key := range set {
		if id, ok := p.index[key]; ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// topoEager is Kahn's algorithm over the eager edges. Dependencies
// initialize before their dependents, and ready modules are emitted in
// ascending index order so the output is deterministic.
func (p *Plan) topoEager() ([]ModuleID, bool) {
	n := len(p.Modules)
	// EagerEdges[m] lists what m reads; m can initialize only after
	// all of them, so indegree counts outgoing reads and the emitted
	// order follows reverse edges.
	indegree := make([]int, n)
	dependents := make([][]ModuleID, n)
	for from, edges := range p.EagerEdges {
		indegree[from] = len(edges)
		for _, to := range edges {
			dependents[to] = append(dependents[to], ModuleID(uint32(from)))
		}
	}
	var ready []ModuleID
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, ModuleID(uint32(i)))
		}
	}
	var order []ModuleID
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	if len(order) != n {
		return nil, false
	}
	return order, true
}

// findEagerCycle walks the eager graph and returns one cycle's module
// ids, for the diagnostic message.
func (p *Plan) findEagerCycle() []ModuleID {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]uint8, len(p.Modules))
	var stack []ModuleID
	var cycle []ModuleID

	var visit func(ModuleID) bool
	visit = func(m ModuleID) bool {
		color[m] = gray
		stack = append(stack, m)
		for _, next := range p.EagerEdges[m] {
			switch color[next] {
			case gray:
				for i, s := range stack {
					if s == next {
						cycle = append([]ModuleID(nil), stack[i:]...)
						return true
					}
				}
			case white:
				if visit(next) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[m] = black
		return false
	}
	for i := range p.Modules {
		if color[i] == white && visit(ModuleID(uint32(i))) {
			break
		}
	}
	return cycle
}

func cycleString(p *Plan, cycle []ModuleID) string {
	if len(cycle) == 0 {
		return "?"
	}
	parts := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		parts = append(parts, p.Modules[id].String())
	}
	parts = append(parts, p.Modules[cycle[0]].String())
	return strings.Join(parts, " -> ")
}

func cycleSpan(modules []ast.Module, cycle []ModuleID) source.Span {
	if len(cycle) > 0 && int(cycle[0]) < len(modules) {
		return modules[cycle[0]].Span
	}
	return source.Span{}
}
