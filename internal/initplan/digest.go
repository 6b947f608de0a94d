package initplan

import (
	"crypto/sha256"

	"c0/internal/ast"
	"c0/internal/project"
)

// ContentDigest hashes the observable surface of a module for cache
// invalidation: its path and the names and spans of its items. It is
// not a semantic hash: an edit that moves, resizes or renames an item
// changes the digest, while an edit that leaves every item's name and
// span unchanged does not.
func ContentDigest(mod ast.Module) project.Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(mod.Path.Key()))
	for _, item := range mod.Items {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(item.ItemName()))
		sp := item.Span()
		_, _ = h.Write([]byte{
			byte(sp.Start), byte(sp.Start >> 8), byte(sp.Start >> 16), byte(sp.Start >> 24),
			byte(sp.End), byte(sp.End >> 8), byte(sp.End >> 16), byte(sp.End >> 24),
		})
	}
	var out project.Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ModuleDigests computes, for every module in the plan, a digest that
// combines the module's own content with the digests of everything it
// depends on through type or eager edges. A module's digest changes
// whenever anything it transitively depends on changes, which is what
// lets the planner reuse a cached graph for untouched subtrees.
func ModuleDigests(p *Plan, modules []ast.Module) map[string]project.Digest {
	content := map[string]project.Digest{}
	for _, m := range modules {
		content[m.Path.Key()] = ContentDigest(m)
	}

	memo := map[ModuleID]project.Digest{}
	visiting := map[ModuleID]bool{}

	var digestOf func(ModuleID) project.Digest
	digestOf = func(id ModuleID) project.Digest {
		if d, ok := memo[id]; ok {
			return d
		}
		own := content[p.Modules[id].Key()]
		if visiting[id] {
			// Type edges may cycle; a back edge contributes the
			// module's own content only.
			return own
		}
		visiting[id] = true
		var deps []project.Digest
		for _, to := range p.TypeEdges[id] {
			deps = append(deps, digestOf(to))
		}
		for _, to := range p.EagerEdges[id] {
			deps = append(deps, digestOf(to))
		}
		visiting[id] = false
		d := project.Combine(own, deps...)
		memo[id] = d
		return d
	}

	out := map[string]project.Digest{}
	for i := range p.Modules {
		out[p.Modules[i].Key()] = digestOf(ModuleID(uint32(i)))
	}
	return out
}

// UnchangedModules reports which modules' digests match a previous
// run's, keyed the same way ModuleDigests keys its result.
func UnchangedModules(current, previous map[string]project.Digest) map[string]bool {
	out := map[string]bool{}
	for key, d := range current {
		if prev, ok := previous[key]; ok && prev == d {
			out[key] = true
		}
	}
	return out
}
