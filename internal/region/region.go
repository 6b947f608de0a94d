// Package region implements the memory/lifetime judgments: region and
// frame structuring, allocation provenance, escape analysis, and
// safe-pointer state tracking over resolved procedure bodies.
package region

import (
	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/source"
	"c0/internal/trace"
)

// prov is the provenance a value carries: the region that owns its
// storage, if any. exited marks storage whose region has already
// reached its exit point: a pointer with exited provenance is in the
// Expired state.
type prov struct {
	region int // 0 = no region constraint
	depth  int
	exited bool
}

var noProv = prov{}

// widest unifies diverging provenances: the result takes the widest
// (outermost) region of the inputs. No constraint is wider than any
// region; an exited input stays exited.
func widest(a, b prov) prov {
	if a.exited {
		return a
	}
	if b.exited {
		return b
	}
	if a.region == 0 || b.region == 0 {
		return noProv
	}
	if a.depth <= b.depth {
		return a
	}
	return b
}

type regionFrame struct {
	id      int
	depth   int
	isFrame bool
}

// Checker walks one procedure body at a time and resets its per-body
// state before each body; the orchestrator runs a single checker over
// every resolved module.
type Checker struct {
	Reporter diag.Reporter
	Spec     *trace.SpecSink

	stack    []regionFrame
	aliases  map[string]int
	bindings map[string]prov
	nextID   int
}

// NewChecker builds a checker reporting through r.
func NewChecker(r diag.Reporter, spec *trace.SpecSink) *Checker {
	return &Checker{
		Reporter: r,
		Spec:     spec,
		aliases:  map[string]int{},
		bindings: map[string]prov{},
	}
}

// CheckModule runs the region judgments over every procedure, state
// method, and transition body in the module.
func (c *Checker) CheckModule(mod ast.Module) {
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.ProcedureItem:
			c.checkBody(it.Body)
		case *ast.StaticItem:
			c.checkBody(it.Value)
		case *ast.ModalItem:
			for _, state := range it.States {
				for _, m := range state.Methods {
					c.checkBody(m.Body)
				}
				for _, t := range state.Transitions {
					c.checkBody(t.Body)
				}
			}
		case *ast.ClassItem:
			for _, m := range it.Methods {
				c.checkBody(m.Body)
			}
		}
	}
}

func (c *Checker) checkBody(body ast.Expr) {
	if body == nil {
		return
	}
	c.stack = c.stack[:0]
	c.aliases = map[string]int{}
	c.bindings = map[string]prov{}
	c.eval(body)
}

func (c *Checker) report(id diag.RuleID, span source.Span, args map[string]string) {
	c.Spec.Rule(string(id), span, args)
	diag.ReportRule(c.Reporter, id, span, args)
}

func (c *Checker) innermostRegion() (regionFrame, bool) {
	if len(c.stack) == 0 {
		return regionFrame{}, false
	}
	return c.stack[len(c.stack)-1], true
}

func (c *Checker) regionActive(id int) bool {
	for _, f := range c.stack {
		if f.id == id {
			return true
		}
	}
	return false
}

// eval computes the provenance of an expression's value, reporting
// every region violation it encounters along the way.
func (c *Checker) eval(e ast.Expr) prov {
	switch ee := e.(type) {
	case nil:
		return noProv

	case *ast.AllocExpr:
		return c.evalAlloc(ee)

	case *ast.RegionExpr:
		return c.evalRegion(ee)

	case *ast.FrameExpr:
		return c.evalFrame(ee)

	case *ast.IdentExpr:
		p := c.bindings[ee.Name]
		if p.exited {
			c.report(diag.RuleRegExpiredUse, ee.Span(), map[string]string{"name": ee.Name})
		}
		return p

	case *ast.BlockExpr:
		return c.evalBlock(ee)

	case *ast.MatchExpr:
		c.eval(ee.Scrutinee)
		result := noProv
		first := true
		for _, arm := range ee.Arms {
			c.eval(arm.Guard)
			armProv := c.eval(arm.Body)
			if first {
				result = armProv
				first = false
			} else {
				result = widest(result, armProv)
			}
		}
		return result

	case *ast.CallExpr:
		c.eval(ee.Callee)
		p := noProv
		for _, a := range ee.Args {
			p = widest(p, c.eval(a))
		}
		return p

	case *ast.MethodCallExpr:
		p := c.eval(ee.Base)
		for _, a := range ee.Args {
			c.eval(a)
		}
		return p

	case *ast.FieldAccessExpr:
		return c.eval(ee.Base)

	case *ast.IndexExpr:
		p := c.eval(ee.Base)
		c.eval(ee.Index)
		return p

	case *ast.TupleExpr:
		p := noProv
		for _, el := range ee.Elems {
			p = widest(p, c.eval(el))
		}
		return p

	case *ast.BinaryExpr:
		return widest(c.eval(ee.Left), c.eval(ee.Right))

	case *ast.UnaryExpr:
		return c.eval(ee.Operand)

	case *ast.CastExpr:
		return c.eval(ee.Value)

	case *ast.RecordExpr:
		p := noProv
		for _, f := range ee.Fields {
			p = widest(p, c.eval(f.Value))
		}
		return p

	case *ast.EnumLiteralExpr:
		p := noProv
		for _, a := range ee.Args {
			p = widest(p, c.eval(a))
		}
		for _, f := range ee.Fields {
			p = widest(p, c.eval(f.Value))
		}
		return p

	case *ast.ForInExpr:
		c.eval(ee.Iter)
		c.eval(ee.Body)
		return noProv

	default:
		return noProv
	}
}

func (c *Checker) evalAlloc(ee *ast.AllocExpr) prov {
	if ee.RegionAlias != "" {
		id, ok := c.aliases[ee.RegionAlias]
		if !ok {
			c.report(diag.RuleRegAliasNotFound, ee.Span(), map[string]string{"name": ee.RegionAlias})
			return noProv
		}
		c.eval(ee.Value)
		return prov{region: id, depth: c.depthOf(id)}
	}
	inner, ok := c.innermostRegion()
	if !ok {
		c.report(diag.RuleRegAllocOutside, ee.Span(), nil)
		c.eval(ee.Value)
		return noProv
	}
	c.eval(ee.Value)
	return prov{region: inner.id, depth: inner.depth}
}

func (c *Checker) depthOf(id int) int {
	for _, f := range c.stack {
		if f.id == id {
			return f.depth
		}
	}
	return len(c.stack)
}

func (c *Checker) evalRegion(ee *ast.RegionExpr) prov {
	c.eval(ee.Options)
	c.nextID++
	id := c.nextID
	c.stack = append(c.stack, regionFrame{id: id, depth: len(c.stack) + 1})
	if ee.Alias != "" {
		c.aliases[ee.Alias] = id
	}
	result := c.eval(ee.Body)
	c.stack = c.stack[:len(c.stack)-1]
	if ee.Alias != "" {
		delete(c.aliases, ee.Alias)
	}
	// Storage owned by the exiting region (or any frame inside it)
	// expires at the exit point; a value carrying it out is an expired
	// pointer from here on.
	if result.region != 0 && !c.regionActive(result.region) {
		result.exited = true
	}
	// Expire every binding whose storage the region owned.
	for name, p := range c.bindings {
		if p.region != 0 && !p.exited && !c.regionActive(p.region) {
			p.exited = true
			c.bindings[name] = p
		}
	}
	return result
}

func (c *Checker) evalFrame(ee *ast.FrameExpr) prov {
	if _, hasParent := c.innermostRegion(); !hasParent {
		c.report(diag.RuleRegBadNesting, ee.Span(), nil)
	}
	if ee.TargetRegion != "" {
		id, ok := c.aliases[ee.TargetRegion]
		if !ok {
			c.report(diag.RuleRegAliasNotFound, ee.Span(), map[string]string{"name": ee.TargetRegion})
		} else if !c.regionActive(id) {
			c.report(diag.RuleRegBadNesting, ee.Span(), nil)
		}
	}
	c.nextID++
	id := c.nextID
	c.stack = append(c.stack, regionFrame{id: id, depth: len(c.stack) + 1, isFrame: true})
	if ee.Alias != "" {
		c.aliases[ee.Alias] = id
	}
	result := c.eval(ee.Body)
	c.stack = c.stack[:len(c.stack)-1]
	if ee.Alias != "" {
		delete(c.aliases, ee.Alias)
	}
	if result.region != 0 && !c.regionActive(result.region) {
		result.exited = true
	}
	for name, p := range c.bindings {
		if p.region != 0 && !p.exited && !c.regionActive(p.region) {
			p.exited = true
			c.bindings[name] = p
		}
	}
	return result
}

func (c *Checker) evalBlock(ee *ast.BlockExpr) prov {
	saved := make(map[string]prov, len(c.bindings))
	for k, v := range c.bindings {
		saved[k] = v
	}
	for _, s := range ee.Stmts {
		c.stmt(s)
	}
	result := c.eval(ee.Tail)
	// Propagate expiry discovered inside the block to outer bindings,
	// then drop the block's own names.
	for k := range saved {
		if inner, ok := c.bindings[k]; ok && inner.exited {
			saved[k] = inner
		}
	}
	c.bindings = saved
	return result
}

func (c *Checker) stmt(s ast.Stmt) {
	switch ss := s.(type) {
	case *ast.ExprStmt:
		c.eval(ss.Value)

	case *ast.LetStmt:
		c.bindings[ss.Name] = c.bindValue(ss.Value)

	case *ast.VarStmt:
		c.bindings[ss.Name] = c.bindValue(ss.Value)

	case *ast.AssignStmt:
		c.eval(ss.Target)
		p := c.eval(ss.Value)
		if target, ok := ss.Target.(*ast.IdentExpr); ok {
			c.bindings[target.Name] = widest(c.bindings[target.Name], p)
		}

	case *ast.DeferStmt:
		// Region-local defers run at region exit; their bodies are
		// checked in place but produce no value to escape.
		c.eval(ss.Action)

	case *ast.ReturnStmt:
		p := c.evalQuiet(ss.Value)
		// Returning storage owned by a still-active (function-local)
		// region, or by one that already exited, escapes it outward.
		if p.exited || p.region != 0 {
			c.report(diag.RuleRegEscape, ss.Span(), nil)
		}
	}
}

// bindValue evaluates a binding initializer. Unlike a bare use, a
// binding may legitimately capture an expired-provenance value (it only
// becomes an error when used), so expiry inside the initializer's own
// region form is not re-reported here.
func (c *Checker) bindValue(e ast.Expr) prov {
	return c.eval(e)
}

// evalQuiet evaluates without the expired-use report; the caller emits
// its own judgment (return escape vs. plain expired use).
func (c *Checker) evalQuiet(e ast.Expr) prov {
	if id, ok := e.(*ast.IdentExpr); ok {
		return c.bindings[id.Name]
	}
	return c.eval(e)
}
