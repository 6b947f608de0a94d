// Package collect computes, for every module, the fixed-point name map
// that the rest of the semantic middle end resolves paths against.
package collect

import (
	"golang.org/x/sync/errgroup"

	"c0/internal/ast"
	"c0/internal/diag"
	"c0/internal/ident"
)

// NameMap binds each top-level name of a module (by PathKey-style map
// key, here just the bare name since the map is per-module) to the
// Entity it ultimately resolves to.
type NameMap map[string]ast.Entity

// ModuleTable is the external view every module's using-clauses are
// resolved against: one NameMap per module, keyed by the module's path key.
type ModuleTable map[string]NameMap

// bindingOf returns the direct (non-using) bindings an item
// contributes to its module, per kind. Names are returned as declared;
// collectDirect passes each through ident.Normalize before using it as
// a name-map key, so keys are always the NFC form the scope engine
// compares against.
func bindingOf(mod ast.Module, item ast.Item) []ast.Entity {
	switch it := item.(type) {
	case *ast.ProcedureItem:
		return []ast.Entity{{Kind: ast.EntityProcedure, Name: it.Name, Origin: mod.Path, Target: it, Vis: it.Vis, Span: it.Sp}}
	case *ast.RecordItem:
		return []ast.Entity{{Kind: ast.EntityRecord, Name: it.Name, Origin: mod.Path, Target: it, Vis: it.Vis, Span: it.Sp}}
	case *ast.EnumItem:
		return []ast.Entity{{Kind: ast.EntityEnum, Name: it.Name, Origin: mod.Path, Target: it, Vis: it.Vis, Span: it.Sp}}
	case *ast.ModalItem:
		return []ast.Entity{{Kind: ast.EntityModal, Name: it.Name, Origin: mod.Path, Target: it, Vis: it.Vis, Span: it.Sp}}
	case *ast.ClassItem:
		return []ast.Entity{{Kind: ast.EntityClass, Name: it.Name, Origin: mod.Path, Target: it, Vis: it.Vis, Span: it.Sp}}
	case *ast.TypeAliasItem:
		return []ast.Entity{{Kind: ast.EntityTypeAlias, Name: it.Name, Origin: mod.Path, Target: it, Vis: it.Vis, Span: it.Sp}}
	case *ast.StaticItem:
		if it.Pattern == nil {
			return []ast.Entity{{Kind: ast.EntityStatic, Name: it.Name, Origin: mod.Path, Target: it, Vis: it.Vis, Span: it.Sp}}
		}
		var out []ast.Entity
		for _, name := range ast.PatNames(it.Pattern) {
			out = append(out, ast.Entity{Kind: ast.EntityStatic, Name: name, Origin: mod.Path, Target: it, Vis: it.Vis, Span: it.Sp})
		}
		return out
	case *ast.ErrorItem:
		// Error binds nothing into the module's name map.
		return nil
	default:
		return nil
	}
}

// collectDirect computes a module's name map from its own declarations
// only, ignoring using clauses. Duplicate bindings (within the item's
// own contribution, or against what's accumulated so far) report
// Collect-Dup and keep the first binding.
func collectDirect(r diag.Reporter, mod ast.Module) NameMap {
	out := NameMap{}
	for _, item := range mod.Items {
		for _, e := range bindingOf(mod, item) {
			e.Name = ident.Normalize(e.Name)
			if _, dup := out[e.Name]; dup {
				diag.ReportRule(r, diag.RuleCollectDup, e.Span, map[string]string{"name": e.Name})
				continue
			}
			out[e.Name] = e
		}
	}
	return out
}

// resolveUsingList resolves a list-form clause: each spec pulls one
// name out of the target module; a "self" spec binds the module itself
// under its alias. Duplicate spec names are Using-List-Dup; a public
// clause re-exporting a non-public item is Using-List-Public-Err.
func resolveUsingList(r diag.Reporter, u *ast.UsingItem, external ModuleTable, out NameMap) bool {
	targetMod, hasMod := external[u.TargetModule.Key()]
	if !hasMod {
		diag.ReportRule(r, diag.RuleResolveUsingNone, u.Sp, map[string]string{"path": u.TargetModule.String()})
		return false
	}
	seen := map[string]bool{}
	ok := true
	for _, spec := range u.Specs {
		if seen[spec.Name] {
			diag.ReportRule(r, diag.RuleUsingListDup, spec.Span, map[string]string{"name": spec.Name})
			ok = false
			continue
		}
		seen[spec.Name] = true

		local := ident.Normalize(spec.Alias)
		if local == "" {
			local = ident.Normalize(spec.Name)
		}
		if spec.Name == "self" {
			if len(u.TargetModule) > 0 && spec.Alias == "" {
				local = u.TargetModule[len(u.TargetModule)-1]
			}
			out[local] = ast.Entity{Kind: ast.EntityModule, Name: local, Origin: u.TargetModule, Source: ast.SourceUsing, Vis: u.Vis, Span: spec.Span}
			continue
		}
		e, found := targetMod[spec.Name]
		if !found {
			diag.ReportRule(r, diag.RuleResolveUsingNone, spec.Span, map[string]string{"path": u.TargetModule.Join(spec.Name).String()})
			ok = false
			continue
		}
		if u.Vis == ast.VisPublic && e.Vis != ast.VisPublic {
			diag.ReportRule(r, diag.RuleUsingListPublic, spec.Span, map[string]string{"name": spec.Name})
			ok = false
			continue
		}
		e.Name = local
		e.Vis = u.Vis
		e.Source = ast.SourceUsing
		out[local] = e
	}
	return ok
}

// resolveUsing resolves a single UsingItem against the external view,
// adding any names it introduces into out. external is the table from
// the previous fixed-point round (direct-only on round zero).
func resolveUsing(r diag.Reporter, mod ast.Module, u *ast.UsingItem, external ModuleTable, out NameMap) bool {
	if u.Specs != nil {
		return resolveUsingList(r, u, external, out)
	}
	targetMod, hasMod := external[u.TargetModule.Key()]
	itemEntity, hasItem := NameMap{}, false
	if u.TargetName != "" {
		if e, ok := targetMod[u.TargetName]; hasMod && ok {
			itemEntity, hasItem = NameMap{u.TargetName: e}, true
		}
	}

	switch {
	case u.TargetName == "":
		// Wildcard(module_path): classifies as a module reference.
		if !hasMod {
			diag.ReportRule(r, diag.RuleResolveUsingNone, u.Sp, map[string]string{"path": u.TargetModule.String()})
			return false
		}
		for name, e := range targetMod {
			if e.Vis != ast.VisPublic {
				continue
			}
			if _, dup := out[name]; dup {
				continue
			}
			e.Source = ast.SourceUsing
			out[name] = e
		}
		return true
	default:
		// The full path may name an item inside TargetModule, a module
		// in its own right, or (ambiguously) both.
		fullModule := append(append(ident.Path{}, u.TargetModule...), u.TargetName)
		_, isModule := external[fullModule.Key()]
		isItem := hasItem
		if isItem && isModule {
			diag.ReportRule(r, diag.RuleResolveUsingAmbig, u.Sp, map[string]string{"path": u.TargetModule.Join(u.TargetName).String()})
			return false
		}
		if !isItem && !isModule {
			diag.ReportRule(r, diag.RuleResolveUsingNone, u.Sp, map[string]string{"path": u.TargetModule.Join(u.TargetName).String()})
			return false
		}
		if isItem {
			e := itemEntity[u.TargetName]
			if u.Vis == ast.VisPublic && e.Vis != ast.VisPublic {
				diag.ReportRule(r, diag.RuleUsingPathItemPublic, u.Sp, map[string]string{"name": u.TargetName})
				return false
			}
			local := ident.Normalize(u.Alias)
			if local == "" {
				local = ident.Normalize(u.TargetName)
			}
			e.Name = local
			e.Vis = u.Vis
			e.Source = ast.SourceUsing
			out[local] = e
			return true
		}
		// isModule: bind the module itself under the alias (or the
		// path's trailing segment).
		local := ident.Normalize(u.Alias)
		if local == "" {
			local = ident.Normalize(u.TargetName)
		}
		out[local] = ast.Entity{Kind: ast.EntityModule, Name: local, Origin: fullModule, Source: ast.SourceUsing, Vis: u.Vis, Span: u.Sp}
		return true
	}
}

// CollectModule runs one fixed-point round for a single module: direct
// bindings plus every using clause resolved against external.
func CollectModule(r diag.Reporter, mod ast.Module, external ModuleTable) NameMap {
	out := collectDirect(r, mod)
	for _, item := range mod.Items {
		u, ok := item.(*ast.UsingItem)
		if !ok {
			continue
		}
		resolveUsing(r, mod, u, external, out)
	}
	return out
}

// roundOnce runs CollectModule for every module against a single frozen
// external table, in parallel. The stabilization rounds always pass a
// NopReporter here: each module only reads the frozen table and writes
// its own result slot, so with reporting off there is no shared mutable
// state. The final, diagnostic-producing round must NOT come through
// here: Bag appends are not synchronized, so that round runs
// sequentially in FixedPoint.
func roundOnce(modules []ast.Module, external ModuleTable) []NameMap {
	results := make([]NameMap, len(modules))
	var g errgroup.Group
	for i, m := range modules {
		i, m := i, m
		g.Go(func() error {
			results[i] = CollectModule(diag.NopReporter{}, m, external)
			return nil
		})
	}
	_ = g.Wait() // CollectModule never returns an error; present for the fan-out shape
	return results
}

// FixedPoint iterates CollectModule over every module until no
// module's map changes size, which bounds the number of rounds by the
// total number of declared names across all modules (every round
// either adds at least one binding somewhere or the process has
// stabilized).
func FixedPoint(r diag.Reporter, modules []ast.Module) ModuleTable {
	table := ModuleTable{}
	for _, m := range modules {
		table[m.Path.Key()] = collectDirect(diag.NopReporter{}, m)
	}
	for {
		results := roundOnce(modules, table)
		next := ModuleTable{}
		changed := false
		for i, m := range modules {
			next[m.Path.Key()] = results[i]
			if len(results[i]) != len(table[m.Path.Key()]) {
				changed = true
			}
		}
		table = next
		if !changed {
			break
		}
	}
	// Final round with the real reporter so diagnostics are only
	// emitted once the table has stabilized, not once per iteration.
	// This round runs sequentially: the shared reporter appends to one
	// stream, and module order doubles as a deterministic diagnostic
	// order.
	final := ModuleTable{}
	for _, m := range modules {
		final[m.Path.Key()] = CollectModule(r, m, table)
	}
	return final
}
