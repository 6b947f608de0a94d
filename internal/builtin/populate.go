// Package builtin installs the foundational classes and capability
// types into Σ before user declarations, and provides the signature
// tables the resolver consults for built-in namespaces.
package builtin

import (
	"c0/internal/ast"
	"c0/internal/ident"
	"c0/internal/source"
)

func builtinType(sigma *ast.Sigma, item ast.Item) {
	sigma.RegisterType(&ast.TypeDecl{Name: item.ItemName(), Item: item, Builtin: true})
}

func builtinClass(sigma *ast.Sigma, item *ast.ClassItem) {
	sigma.RegisterClass(&ast.ClassDecl{Name: item.Name, Item: item, Builtin: true})
}

func namedClass(name string, bases ...string) *ast.ClassItem {
	c := &ast.ClassItem{Vis: ast.VisPublic}
	c.Name = name
	for _, b := range bases {
		c.Bases = append(c.Bases, ident.QualifiedName{Name: b})
	}
	return c
}

func namedRecord(name string, fields ...ast.Field) *ast.RecordItem {
	r := &ast.RecordItem{Fields: fields, Vis: ast.VisPublic}
	r.Name = name
	return r
}

func namedEnum(name string, variants ...string) *ast.EnumItem {
	e := &ast.EnumItem{Vis: ast.VisPublic}
	e.Name = name
	for _, v := range variants {
		e.Variants = append(e.Variants, ast.EnumVariant{Name: v})
	}
	return e
}

func namedModal(name string, generics []string, states ...ast.ModalStateBlock) *ast.ModalItem {
	m := &ast.ModalItem{Generics: generics, States: states, Vis: ast.VisPublic}
	m.Name = name
	return m
}

func namedAlias(name string, target ast.TypeExpr) *ast.TypeAliasItem {
	a := &ast.TypeAliasItem{Target: target, Vis: ast.VisPublic}
	a.Name = name
	return a
}

func transition(name, to string) ast.Transition {
	return ast.Transition{Name: name, ToState: to, Vis: ast.VisPublic}
}

func stateMethod(name string) ast.StateMethod {
	return ast.StateMethod{Name: name, Vis: ast.VisPublic}
}

// Populate installs phase one of Σ: the foundational classes
// (Drop/Bitcopy/Clone), the Region modal, the filesystem capability
// types, and the concurrency/async types with their aliases. User
// declarations are layered on top by Sigma.PopulateUser.
func Populate(sigma *ast.Sigma) {
	builtinClass(sigma, namedClass("Drop"))
	builtinClass(sigma, namedClass("Bitcopy"))
	builtinClass(sigma, namedClass("Clone"))

	builtinType(sigma, namedModal("Region", nil,
		ast.ModalStateBlock{
			Name:    "Active",
			Methods: []ast.StateMethod{stateMethod("alloc"), stateMethod("bytes_used")},
			Transitions: []ast.Transition{
				transition("freeze", "Frozen"),
				transition("free", "Freed"),
			},
		},
		ast.ModalStateBlock{
			Name:    "Frozen",
			Methods: []ast.StateMethod{stateMethod("bytes_used")},
			Transitions: []ast.Transition{
				transition("thaw", "Active"),
				transition("free", "Freed"),
			},
		},
		ast.ModalStateBlock{Name: "Freed"},
	))

	builtinType(sigma, namedModal("File", nil,
		ast.ModalStateBlock{
			Name:        "Read",
			Methods:     []ast.StateMethod{stateMethod("read_all")},
			Transitions: []ast.Transition{transition("close", "Closed")},
		},
		ast.ModalStateBlock{
			Name:        "Write",
			Methods:     []ast.StateMethod{stateMethod("write"), stateMethod("flush")},
			Transitions: []ast.Transition{transition("close", "Closed")},
		},
		ast.ModalStateBlock{
			Name:        "Append",
			Methods:     []ast.StateMethod{stateMethod("write"), stateMethod("flush")},
			Transitions: []ast.Transition{transition("close", "Closed")},
		},
		ast.ModalStateBlock{Name: "Closed"},
	))

	builtinType(sigma, namedModal("DirIter", nil,
		ast.ModalStateBlock{
			Name:        "Open",
			Methods:     []ast.StateMethod{stateMethod("next")},
			Transitions: []ast.Transition{transition("close", "Closed")},
		},
		ast.ModalStateBlock{Name: "Closed"},
	))

	builtinType(sigma, namedRecord("DirEntry",
		ast.Field{Name: "name", Type: &ast.TypeStringExpr{State: "Managed"}, Vis: ast.VisPublic},
		ast.Field{Name: "kind", Type: &ast.TypePathExpr{Name: "FileKind"}, Vis: ast.VisPublic},
	))
	builtinType(sigma, namedEnum("FileKind", "File", "Dir", "Symlink", "Other"))
	builtinType(sigma, namedEnum("IoError",
		"NotFound", "PermissionDenied", "AlreadyExists", "Interrupted", "InvalidData", "Other"))
	builtinType(sigma, namedRecord("AllocationError",
		ast.Field{Name: "requested", Type: &ast.TypePrimExpr{Name: "usize"}, Vis: ast.VisPublic},
	))

	builtinType(sigma, namedRecord("System"))
	builtinType(sigma, namedRecord("Context",
		ast.Field{Name: "system", Type: &ast.TypePathExpr{Name: "System"}, Vis: ast.VisPublic},
	))

	// Concurrency.
	builtinType(sigma, namedRecord("Spawned"))
	builtinType(sigma, namedRecord("Tracked"))
	builtinType(sigma, namedModal("CancelToken", nil,
		ast.ModalStateBlock{
			Name:        "Armed",
			Methods:     []ast.StateMethod{stateMethod("is_cancelled")},
			Transitions: []ast.Transition{transition("cancel", "Cancelled")},
		},
		ast.ModalStateBlock{
			Name:    "Cancelled",
			Methods: []ast.StateMethod{stateMethod("is_cancelled")},
		},
	))
	builtinClass(sigma, namedClass("ExecutionDomain"))
	builtinClass(sigma, namedClass("CpuDomain", "ExecutionDomain"))
	builtinClass(sigma, namedClass("GpuDomain", "ExecutionDomain"))
	builtinClass(sigma, namedClass("InlineDomain", "ExecutionDomain"))

	async := namedModal("Async", []string{"Out", "In", "Result", "E"},
		ast.ModalStateBlock{
			Name:    "Suspended",
			Methods: []ast.StateMethod{stateMethod("resume")},
			Transitions: []ast.Transition{
				transition("complete", "Completed"),
				transition("fail", "Failed"),
			},
		},
		ast.ModalStateBlock{Name: "Completed", Methods: []ast.StateMethod{stateMethod("result")}},
		ast.ModalStateBlock{Name: "Failed", Methods: []ast.StateMethod{stateMethod("error")}},
	)
	builtinType(sigma, async)

	asyncRef := func(args ...ast.TypeExpr) ast.TypeExpr {
		return &ast.TypePathExpr{Name: "Async", GenericArgs: args}
	}
	unit := &ast.TypePrimExpr{Name: "()"}
	never := &ast.TypePrimExpr{Name: "!"}
	tvar := func(n string) ast.TypeExpr { return &ast.TypePathExpr{Name: n} }

	builtinType(sigma, namedAlias("Sequence", asyncRef(tvar("T"), unit, unit, never)))
	builtinType(sigma, namedAlias("Future", asyncRef(never, unit, tvar("T"), tvar("E"))))
	builtinType(sigma, namedAlias("Stream", asyncRef(tvar("T"), unit, unit, tvar("E"))))
	builtinType(sigma, namedAlias("Pipe", asyncRef(tvar("Out"), tvar("In"), unit, never)))
	builtinType(sigma, namedAlias("Exchange", asyncRef(tvar("T"), tvar("T"), unit, never)))
}

// UniverseEntities returns the bindings seeded into the universe scope
// before any module is resolved: one entity per built-in type and
// class, plus the string/bytes value namespaces.
func UniverseEntities(sigma *ast.Sigma) map[string]ast.Entity {
	out := map[string]ast.Entity{}
	for _, d := range sigma.Types {
		if !d.Builtin {
			continue
		}
		out[d.Name] = ast.Entity{Kind: ast.EntityBuiltin, Name: d.Name, Target: d.Item, Vis: ast.VisPublic}
	}
	for _, d := range sigma.Classes {
		if !d.Builtin {
			continue
		}
		out[d.Name] = ast.Entity{Kind: ast.EntityBuiltin, Name: d.Name, Target: d.Item, Vis: ast.VisPublic}
	}
	for _, ns := range []string{"string", "bytes"} {
		out[ns] = ast.Entity{Kind: ast.EntityModule, Name: ns, Origin: ident.Path{ns}, Vis: ast.VisPublic, Span: source.Span{}}
	}
	return out
}
