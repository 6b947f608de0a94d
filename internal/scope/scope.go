// Package scope implements the name-binding stack shared by name
// collection, path resolution, and the expression/statement resolver.
package scope

import (
	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
	"c0/internal/source"
)

// Level names the two conventional bottom positions of the scope
// stack; everything above them is an ordinary block/lexical scope.
type Level uint8

const (
	LevelUniverse Level = iota
	LevelModule
	LevelLexical
)

type frame struct {
	level   Level
	names   map[string]ast.Entity
}

// Context is an ordered stack of scopes: universe scope at the bottom,
// module scope above it, then zero or more nested lexical scopes.
// Every name is NFC-normalized on the way in and on lookup, so two
// canonically-equal spellings always hit the same binding.
type Context struct {
	frames   []frame
	Reporter diag.Reporter
}

// NewContext starts a fresh stack with an empty universe scope.
func NewContext(r diag.Reporter) *Context {
	c := &Context{Reporter: r}
	c.frames = append(c.frames, frame{level: LevelUniverse, names: map[string]ast.Entity{}})
	return c
}

// PushModule opens the module scope above universe scope. Must be
// called exactly once per module before any lexical scope is pushed.
func (c *Context) PushModule() {
	c.frames = append(c.frames, frame{level: LevelModule, names: map[string]ast.Entity{}})
}

// PopModule closes the module scope (and any lexical scopes still
// above it, which is a caller bug but handled defensively by
// truncating back to the module frame's index).
func (c *Context) PopModule() {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].level == LevelModule {
			c.frames = c.frames[:i]
			return
		}
	}
}

// PushLexical opens a new nested block scope.
func (c *Context) PushLexical() {
	c.frames = append(c.frames, frame{level: LevelLexical, names: map[string]ast.Entity{}})
}

// PopLexical closes the innermost lexical scope.
func (c *Context) PopLexical() {
	if n := len(c.frames); n > 0 && c.frames[n-1].level == LevelLexical {
		c.frames = c.frames[:n-1]
	}
}

func (c *Context) top() *frame {
	return &c.frames[len(c.frames)-1]
}

// InScope reports whether name is bound in the current (innermost) scope.
func (c *Context) InScope(name string) bool {
	_, ok := c.top().names[ident.Normalize(name)]
	return ok
}

// InOuter reports whether name is bound in any scope below the current one.
func (c *Context) InOuter(name string) bool {
	name = ident.Normalize(name)
	for i := len(c.frames) - 2; i >= 0; i-- {
		if _, ok := c.frames[i].names[name]; ok {
			return true
		}
	}
	return false
}

// Lookup searches from the innermost scope outward and returns the
// nearest binding.
func (c *Context) Lookup(name string) (ast.Entity, bool) {
	name = ident.Normalize(name)
	for i := len(c.frames) - 1; i >= 0; i-- {
		if e, ok := c.frames[i].names[name]; ok {
			return e, true
		}
	}
	return ast.Entity{}, false
}

func (c *Context) reserveCheck(name string, span source.Span) bool {
	if ident.IsReservedAnywhere(name) {
		diag.ReportRule(c.Reporter, diag.RuleIntroReserved, span, map[string]string{"name": name})
		return false
	}
	return true
}

// Declare binds name in the current scope without the Intro checks.
// It is for seeding scopes from maps that already went through
// collection-time validation (the universe bindings and each module's
// fixed-point name map), where re-reporting would duplicate
// diagnostics.
func (c *Context) Declare(name string, entity ast.Entity) {
	c.top().names[ident.Normalize(name)] = entity
}

// Intro binds name to entity in the current scope. It fails (and
// reports) if name is already bound in this scope, is reserved, is
// shadowing an outer binding without saying so explicitly, or is one of
// the universe-protected identifiers being reintroduced at module
// scope.
func (c *Context) Intro(name string, entity ast.Entity, span source.Span) bool {
	name = ident.Normalize(name)
	if !c.reserveCheck(name, span) {
		return false
	}
	if c.InScope(name) {
		diag.ReportRule(c.Reporter, diag.RuleIntroDup, span, map[string]string{"name": name})
		return false
	}
	if c.top().level == LevelModule && ident.IsUniverseProtected(name) {
		diag.ReportRule(c.Reporter, diag.RuleIntroUniverseGuard, span, map[string]string{"name": name})
		return false
	}
	if c.InOuter(name) {
		diag.ReportRule(c.Reporter, diag.RuleIntroShadowReq, span, map[string]string{"name": name})
		return false
	}
	c.top().names[name] = entity
	return true
}

// ShadowIntro binds name to entity in the current scope, explicitly
// permitting it to shadow an outer binding. It fails if there is in
// fact nothing to shadow.
func (c *Context) ShadowIntro(name string, entity ast.Entity, span source.Span) bool {
	name = ident.Normalize(name)
	if !c.reserveCheck(name, span) {
		return false
	}
	if c.InScope(name) {
		diag.ReportRule(c.Reporter, diag.RuleIntroDup, span, map[string]string{"name": name})
		return false
	}
	if !c.InOuter(name) {
		diag.ReportRule(c.Reporter, diag.RuleShadowUnnecessary, span, map[string]string{"name": name})
		return false
	}
	c.top().names[name] = entity
	return true
}

// ValidateModuleNames reports every module-level binding that is
// forbidden regardless of collision (keywords, primitives, special and
// async type names), using the appropriate rule id for each category.
func ValidateModuleNames(r diag.Reporter, names map[string]source.Span) {
	for name, span := range names {
		if reason, bad := ident.ValidateModuleName(name); bad {
			diag.ReportRule(r, diag.RuleReservedModule, span, map[string]string{"name": name, "reason": reason})
		}
	}
}
