// Package initplan computes cross-module dependency graphs from
// resolved modules and derives the initialization order: type edges,
// eager value edges (static initializers, must be acyclic), and lazy
// value edges (field inits and bodies, allowed to cycle).
package initplan

import (
	"c0/internal/ast"
	"c0/internal/ident"
)

// ModuleDeps holds the three dependency sets of one module, as sets of
// target module path keys.
type ModuleDeps struct {
	Path  ident.Path
	Type  map[string]ident.Path
	Eager map[string]ident.Path
	Lazy  map[string]ident.Path
}

func newModuleDeps(path ident.Path) *ModuleDeps {
	return &ModuleDeps{
		Path:  path,
		Type:  map[string]ident.Path{},
		Eager: map[string]ident.Path{},
		Lazy:  map[string]ident.Path{},
	}
}

func (d *ModuleDeps) add(set map[string]ident.Path, target ident.Path) {
	if len(target) == 0 || target.Equal(d.Path) {
		return
	}
	set[target.Key()] = target
}

// ExtractDeps walks one resolved module and computes its dependency
// sets. Type positions contribute type edges; static initializers
// contribute eager value edges; field inits and every body contribute
// lazy value edges.
func ExtractDeps(mod ast.Module) *ModuleDeps {
	d := newModuleDeps(mod.Path)
	for _, item := range mod.Items {
		switch it := item.(type) {
		case *ast.StaticItem:
			d.typeExpr(it.Type)
			d.valueExpr(it.Value, d.Eager)
		case *ast.ProcedureItem:
			for _, p := range it.Params {
				d.typeExpr(p.Type)
			}
			d.typeExpr(it.Ret)
			d.valueExpr(it.Body, d.Lazy)
		case *ast.RecordItem:
			for _, f := range it.Fields {
				d.typeExpr(f.Type)
			}
		case *ast.EnumItem:
			for _, v := range it.Variants {
				for _, a := range v.Args {
					d.typeExpr(a)
				}
				for _, f := range v.Fields {
					d.typeExpr(f.Type)
				}
			}
		case *ast.ModalItem:
			for _, state := range it.States {
				for _, f := range state.Fields {
					d.typeExpr(f.Type)
				}
				for _, m := range state.Methods {
					for _, p := range m.Params {
						d.typeExpr(p.Type)
					}
					d.typeExpr(m.Ret)
					d.valueExpr(m.Body, d.Lazy)
				}
				for _, t := range state.Transitions {
					for _, p := range t.Params {
						d.typeExpr(p.Type)
					}
					d.typeExpr(t.Ret)
					d.valueExpr(t.Body, d.Lazy)
				}
			}
		case *ast.ClassItem:
			for _, base := range it.Bases {
				d.add(d.Type, base.Module)
			}
			for _, f := range it.Fields {
				d.typeExpr(f.Type)
			}
			for _, m := range it.Methods {
				for _, p := range m.Params {
					d.typeExpr(p.Type)
				}
				d.typeExpr(m.Ret)
				d.valueExpr(m.Body, d.Lazy)
			}
		case *ast.TypeAliasItem:
			d.typeExpr(it.Target)
		case *ast.ErrorItem:
			for _, f := range it.Fields {
				d.typeExpr(f.Type)
			}
		}
	}
	return d
}

// typeExpr records the modules referenced from a type position.
func (d *ModuleDeps) typeExpr(t ast.TypeExpr) {
	switch tt := t.(type) {
	case nil:
	case *ast.TypePathExpr:
		d.add(d.Type, tt.Path)
		for _, a := range tt.GenericArgs {
			d.typeExpr(a)
		}
	case *ast.TypePermExpr:
		d.typeExpr(tt.Base)
	case *ast.TypeTupleExpr:
		for _, e := range tt.Elems {
			d.typeExpr(e)
		}
	case *ast.TypeArrayExpr:
		d.typeExpr(tt.Elem)
		// Length expressions are compile-time constants; any module
		// reference inside one is a type-level dependency.
		d.valueExpr(tt.Length, d.Type)
	case *ast.TypeSliceExpr:
		d.typeExpr(tt.Elem)
	case *ast.TypeUnionExpr:
		for _, m := range tt.Members {
			d.typeExpr(m)
		}
	case *ast.TypeFuncExpr:
		for _, p := range tt.Params {
			d.typeExpr(p)
		}
		d.typeExpr(tt.Ret)
	case *ast.TypePtrExpr:
		d.typeExpr(tt.Elem)
	case *ast.TypeRawPtrExpr:
		d.typeExpr(tt.Elem)
	case *ast.TypeDynamicExpr:
		d.add(d.Type, tt.ClassPath)
	case *ast.TypeModalStateExpr:
		d.add(d.Type, tt.Path)
		for _, a := range tt.GenericArgs {
			d.typeExpr(a)
		}
	}
}

// valueExpr records the modules whose values an expression reads into
// set, and every type position it mentions into the type set.
func (d *ModuleDeps) valueExpr(e ast.Expr, set map[string]ident.Path) {
	switch ee := e.(type) {
	case nil:
	case *ast.PathExpr:
		d.add(set, ee.Module)
	case *ast.QualifiedExpr:
		d.add(set, ee.Path)
		for _, a := range ee.Args {
			d.valueExpr(a, set)
		}
		for _, f := range ee.Fields {
			d.valueExpr(f.Value, set)
		}
	case *ast.CallExpr:
		d.valueExpr(ee.Callee, set)
		for _, a := range ee.Args {
			d.valueExpr(a, set)
		}
	case *ast.RecordExpr:
		d.add(d.Type, ee.Type.Module)
		for _, f := range ee.Fields {
			d.valueExpr(f.Value, set)
		}
	case *ast.EnumLiteralExpr:
		d.add(d.Type, ee.Enum.Module)
		for _, a := range ee.Args {
			d.valueExpr(a, set)
		}
		for _, f := range ee.Fields {
			d.valueExpr(f.Value, set)
		}
	case *ast.AllocExpr:
		d.valueExpr(ee.Value, set)
	case *ast.MatchExpr:
		d.valueExpr(ee.Scrutinee, set)
		for _, arm := range ee.Arms {
			d.pattern(arm.Pattern)
			d.valueExpr(arm.Guard, set)
			d.valueExpr(arm.Body, set)
		}
	case *ast.BlockExpr:
		for _, s := range ee.Stmts {
			d.stmt(s, set)
		}
		d.valueExpr(ee.Tail, set)
	case *ast.ForInExpr:
		d.pattern(ee.Pattern)
		d.valueExpr(ee.Iter, set)
		d.valueExpr(ee.Body, set)
	case *ast.RegionExpr:
		d.valueExpr(ee.Options, set)
		d.valueExpr(ee.Body, set)
	case *ast.FrameExpr:
		d.valueExpr(ee.Body, set)
	case *ast.BinaryExpr:
		d.valueExpr(ee.Left, set)
		d.valueExpr(ee.Right, set)
	case *ast.UnaryExpr:
		d.valueExpr(ee.Operand, set)
	case *ast.TupleExpr:
		for _, el := range ee.Elems {
			d.valueExpr(el, set)
		}
	case *ast.IndexExpr:
		d.valueExpr(ee.Base, set)
		d.valueExpr(ee.Index, set)
	case *ast.FieldAccessExpr:
		d.valueExpr(ee.Base, set)
	case *ast.MethodCallExpr:
		d.valueExpr(ee.Base, set)
		for _, a := range ee.Args {
			d.valueExpr(a, set)
		}
	case *ast.CastExpr:
		d.valueExpr(ee.Value, set)
		d.typeExpr(ee.Target)
	}
}

// pattern records type annotations mentioned by patterns.
func (d *ModuleDeps) pattern(p ast.Pattern) {
	switch pp := p.(type) {
	case nil:
	case *ast.TuplePattern:
		for _, e := range pp.Elems {
			d.pattern(e)
		}
	case *ast.RecordPattern:
		d.add(d.Type, pp.Type.Module)
		for _, f := range pp.Fields {
			d.pattern(f.Pattern)
		}
	case *ast.EnumPattern:
		d.add(d.Type, pp.Enum.Module)
		for _, a := range pp.Args {
			d.pattern(a)
		}
		for _, f := range pp.Fields {
			d.pattern(f.Pattern)
		}
	}
}

func (d *ModuleDeps) stmt(s ast.Stmt, set map[string]ident.Path) {
	switch ss := s.(type) {
	case *ast.ExprStmt:
		d.valueExpr(ss.Value, set)
	case *ast.LetStmt:
		d.typeExpr(ss.Type)
		d.valueExpr(ss.Value, set)
	case *ast.VarStmt:
		d.typeExpr(ss.Type)
		d.valueExpr(ss.Value, set)
	case *ast.AssignStmt:
		d.valueExpr(ss.Target, set)
		d.valueExpr(ss.Value, set)
	case *ast.DeferStmt:
		d.valueExpr(ss.Action, set)
	case *ast.ReturnStmt:
		d.valueExpr(ss.Value, set)
	}
}
