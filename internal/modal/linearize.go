// Package modal implements the modal/class engine: C3 linearization,
// effective method/field tables, modal state lookup, variance, and
// bitcopy classification. All queries are memoized on Σ, which is
// read-only once resolution starts.
package modal

import (
	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
)

// Engine answers modal/class queries against a populated Σ. Results
// are cached by PathKey and live for the compilation.
type Engine struct {
	Sigma    *ast.Sigma
	Reporter diag.Reporter

	linCache      map[string]linResult
	linInProgress map[string]bool
	methodCache   map[string]methodTableResult
	fieldCache    map[string]fieldTableResult
	varianceCache map[string]Variance
}

type linResult struct {
	order []ident.QualifiedName
	ok    bool
}

// NewEngine binds an engine to Σ.
func NewEngine(sigma *ast.Sigma, r diag.Reporter) *Engine {
	return &Engine{
		Sigma:         sigma,
		Reporter:      r,
		linCache:      map[string]linResult{},
		linInProgress: map[string]bool{},
		methodCache:   map[string]methodTableResult{},
		fieldCache:    map[string]fieldTableResult{},
		varianceCache: map[string]Variance{},
	}
}

// LinearizeClass computes the C3 linearization of the class at q:
// q itself, followed by the merge of its parents' linearizations and
// the parent list. ok is false when no consistent order exists
// (Lin-Fail) or the class participates in an inheritance cycle.
func (e *Engine) LinearizeClass(q ident.QualifiedName) ([]ident.QualifiedName, bool) {
	key := q.PathKey()
	if cached, ok := e.linCache[key]; ok {
		return cached.order, cached.ok
	}
	// Self-recursive entry: a class reachable from its own super list
	// has no linearization.
	if e.linInProgress[key] {
		return nil, false
	}
	e.linInProgress[key] = true
	defer delete(e.linInProgress, key)

	decl, found := e.Sigma.LookupClass(q)
	if !found {
		e.linCache[key] = linResult{}
		return nil, false
	}

	inputs := make([][]ident.QualifiedName, 0, len(decl.Item.Bases)+1)
	for _, base := range decl.Item.Bases {
		parent, parentOK := e.LinearizeClass(base)
		if !parentOK {
			e.linCache[key] = linResult{}
			return nil, false
		}
		inputs = append(inputs, parent)
	}
	if len(decl.Item.Bases) > 0 {
		inputs = append(inputs, append([]ident.QualifiedName(nil), decl.Item.Bases...))
	}

	merged, ok := Merge(inputs)
	if !ok {
		diag.ReportRule(e.Reporter, diag.RuleLinFail, decl.Item.Span(), map[string]string{"name": q.String()})
		e.linCache[key] = linResult{}
		return nil, false
	}
	order := append([]ident.QualifiedName{q}, merged...)
	e.linCache[key] = linResult{order: order, ok: true}
	return order, true
}

// Merge is the C3 merge: repeatedly select a good head: a list head
// that appears in no non-head position of any list: and remove it
// from every list. Heads are tried left to right, which makes the
// result deterministic. Merge of no lists is empty; ok is false when
// no good head exists while lists remain (ambiguous MRO).
func Merge(lists [][]ident.QualifiedName) ([]ident.QualifiedName, bool) {
	work := make([][]ident.QualifiedName, 0, len(lists))
	for _, l := range lists {
		if len(l) > 0 {
			work = append(work, append([]ident.QualifiedName(nil), l...))
		}
	}
	var out []ident.QualifiedName
	for len(work) > 0 {
		head, ok := pickGoodHead(work)
		if !ok {
			return nil, false
		}
		out = append(out, head)
		next := work[:0]
		for _, l := range work {
			l = removeName(l, head)
			if len(l) > 0 {
				next = append(next, l)
			}
		}
		work = next
	}
	return out, true
}

func pickGoodHead(lists [][]ident.QualifiedName) (ident.QualifiedName, bool) {
	for _, candidate := range lists {
		head := candidate[0]
		if isGoodHead(head, lists) {
			return head, true
		}
	}
	return ident.QualifiedName{}, false
}

func isGoodHead(head ident.QualifiedName, lists [][]ident.QualifiedName) bool {
	for _, l := range lists {
		for i := 1; i < len(l); i++ {
			if l[i].Equal(head) {
				return false
			}
		}
	}
	return true
}

func removeName(l []ident.QualifiedName, name ident.QualifiedName) []ident.QualifiedName {
	out := l[:0]
	for _, q := range l {
		if !q.Equal(name) {
			out = append(out, q)
		}
	}
	return out
}
