package builtin

import (
	"c0/internal/ast"
	"c0/internal/ident"
)

// MethodSig is the resolved signature of a built-in method or
// namespace function, as the resolver and checker consume it.
type MethodSig struct {
	Name   string
	Params []ast.TypeRef
	Ret    ast.TypeRef

	// RequiresUnique marks methods that need a Unique receiver.
	RequiresUnique bool

	// Allocating marks functions that take a heap allocator and return
	// `T | AllocationError`.
	Allocating bool
}

func prim(name string) ast.TypeRef { return ast.RPrim{Name: name} }

func managed(base ast.TypeRef) ast.TypeRef {
	return ast.RUnion{Members: []ast.TypeRef{base, ast.RPath{Name: "AllocationError"}}}
}

func ioResult(base ast.TypeRef) ast.TypeRef {
	return ast.RUnion{Members: []ast.TypeRef{base, ast.RPath{Name: "IoError"}}}
}

// stringSigs covers the `string` built-in value namespace; bytesSigs is
// its `bytes` counterpart. `append` is the only entry that requires a
// Unique receiver.
var stringSigs = map[string]MethodSig{
	"from":          {Name: "from", Params: []ast.TypeRef{ast.RString{State: "View"}}, Ret: managed(ast.RString{State: "Managed"}), Allocating: true},
	"with_capacity": {Name: "with_capacity", Params: []ast.TypeRef{prim("usize")}, Ret: managed(ast.RString{State: "Managed"}), Allocating: true},
	"from_slice":    {Name: "from_slice", Params: []ast.TypeRef{ast.RSlice{Elem: prim("u8")}}, Ret: managed(ast.RString{State: "Managed"}), Allocating: true},
	"to_managed":    {Name: "to_managed", Params: []ast.TypeRef{ast.RString{State: "View"}}, Ret: managed(ast.RString{State: "Managed"}), Allocating: true},
	"clone_with":    {Name: "clone_with", Params: []ast.TypeRef{ast.RString{State: "Managed"}}, Ret: managed(ast.RString{State: "Managed"}), Allocating: true},
	"append":        {Name: "append", Params: []ast.TypeRef{ast.RString{State: "View"}}, Ret: managed(prim("()")), Allocating: true, RequiresUnique: true},
	"as_view":       {Name: "as_view", Params: nil, Ret: ast.RString{State: "View"}},
	"view":          {Name: "view", Params: nil, Ret: ast.RString{State: "View"}},
	"as_slice":      {Name: "as_slice", Params: nil, Ret: ast.RSlice{Elem: prim("u8")}},
	"length":        {Name: "length", Params: nil, Ret: prim("usize")},
	"is_empty":      {Name: "is_empty", Params: nil, Ret: prim("bool")},
}

var bytesSigs = map[string]MethodSig{
	"from":          {Name: "from", Params: []ast.TypeRef{ast.RBytes{State: "View"}}, Ret: managed(ast.RBytes{State: "Managed"}), Allocating: true},
	"with_capacity": {Name: "with_capacity", Params: []ast.TypeRef{prim("usize")}, Ret: managed(ast.RBytes{State: "Managed"}), Allocating: true},
	"from_slice":    {Name: "from_slice", Params: []ast.TypeRef{ast.RSlice{Elem: prim("u8")}}, Ret: managed(ast.RBytes{State: "Managed"}), Allocating: true},
	"to_managed":    {Name: "to_managed", Params: []ast.TypeRef{ast.RBytes{State: "View"}}, Ret: managed(ast.RBytes{State: "Managed"}), Allocating: true},
	"clone_with":    {Name: "clone_with", Params: []ast.TypeRef{ast.RBytes{State: "Managed"}}, Ret: managed(ast.RBytes{State: "Managed"}), Allocating: true},
	"append":        {Name: "append", Params: []ast.TypeRef{ast.RBytes{State: "View"}}, Ret: managed(prim("()")), Allocating: true, RequiresUnique: true},
	"as_view":       {Name: "as_view", Params: nil, Ret: ast.RBytes{State: "View"}},
	"view":          {Name: "view", Params: nil, Ret: ast.RBytes{State: "View"}},
	"view_string":   {Name: "view_string", Params: nil, Ret: ast.RString{State: "View"}},
	"as_slice":      {Name: "as_slice", Params: nil, Ret: ast.RSlice{Elem: prim("u8")}},
	"length":        {Name: "length", Params: nil, Ret: prim("usize")},
	"is_empty":      {Name: "is_empty", Params: nil, Ret: prim("bool")},
}

// LookupStringMethodSig finds a `string` namespace signature by name.
func LookupStringMethodSig(name string) (MethodSig, bool) {
	s, ok := stringSigs[name]
	return s, ok
}

// LookupBytesMethodSig finds a `bytes` namespace signature by name.
func LookupBytesMethodSig(name string) (MethodSig, bool) {
	s, ok := bytesSigs[name]
	return s, ok
}

// fsSigs covers the filesystem capability surface reachable through
// System: opening files and directories plus the per-state File and
// DirIter members.
var fsSigs = map[string]MethodSig{
	"open_read":   {Name: "open_read", Params: []ast.TypeRef{ast.RString{State: "View"}}, Ret: ioResult(ast.RModalState{Modal: ident.QualifiedName{Name: "File"}, State: "Read"})},
	"open_write":  {Name: "open_write", Params: []ast.TypeRef{ast.RString{State: "View"}}, Ret: ioResult(ast.RModalState{Modal: ident.QualifiedName{Name: "File"}, State: "Write"})},
	"open_append": {Name: "open_append", Params: []ast.TypeRef{ast.RString{State: "View"}}, Ret: ioResult(ast.RModalState{Modal: ident.QualifiedName{Name: "File"}, State: "Append"})},
	"read_dir":    {Name: "read_dir", Params: []ast.TypeRef{ast.RString{State: "View"}}, Ret: ioResult(ast.RModalState{Modal: ident.QualifiedName{Name: "DirIter"}, State: "Open"})},
	"read_all":    {Name: "read_all", Params: nil, Ret: ioResult(managed(ast.RBytes{State: "Managed"}))},
	"write":       {Name: "write", Params: []ast.TypeRef{ast.RBytes{State: "View"}}, Ret: ioResult(prim("()")), RequiresUnique: true},
	"flush":       {Name: "flush", Params: nil, Ret: ioResult(prim("()")), RequiresUnique: true},
	"close":       {Name: "close", Params: nil, Ret: ast.RModalState{Modal: ident.QualifiedName{Name: "File"}, State: "Closed"}},
	"next":        {Name: "next", Params: nil, Ret: ioResult(ast.RUnion{Members: []ast.TypeRef{ast.RPath{Name: "DirEntry"}, prim("()")}}), RequiresUnique: true},
}

// LookupFileSystemMethodSig returns the typed signature of a
// filesystem capability member.
func LookupFileSystemMethodSig(name string) (MethodSig, bool) {
	s, ok := fsSigs[name]
	return s, ok
}

// LookupCancelTokenMethodSig returns a CancelToken member signature.
// state narrows the lookup: "cancel" exists only while Armed.
func LookupCancelTokenMethodSig(name, state string) (MethodSig, bool) {
	switch name {
	case "is_cancelled":
		return MethodSig{Name: "is_cancelled", Ret: prim("bool")}, true
	case "cancel":
		if state != "" && state != "Armed" {
			return MethodSig{}, false
		}
		return MethodSig{Name: "cancel", Ret: ast.RModalState{Modal: ident.QualifiedName{Name: "CancelToken"}, State: "Cancelled"}}, true
	default:
		return MethodSig{}, false
	}
}

func isBuiltinNamed(q ident.QualifiedName, name string) bool {
	return len(q.Module) == 0 && q.Name == name
}

// IsExecutionDomainTypePath reports whether q names ExecutionDomain or
// one of its built-in subclasses.
func IsExecutionDomainTypePath(q ident.QualifiedName) bool {
	if len(q.Module) != 0 {
		return false
	}
	switch q.Name {
	case "ExecutionDomain", "CpuDomain", "GpuDomain", "InlineDomain":
		return true
	default:
		return false
	}
}

// IsSpawnedTypePath reports whether q names the Spawned builtin.
func IsSpawnedTypePath(q ident.QualifiedName) bool { return isBuiltinNamed(q, "Spawned") }

// IsTrackedTypePath reports whether q names the Tracked builtin.
func IsTrackedTypePath(q ident.QualifiedName) bool { return isBuiltinNamed(q, "Tracked") }

// IsCancelTokenTypePath reports whether q names the CancelToken builtin.
func IsCancelTokenTypePath(q ident.QualifiedName) bool { return isBuiltinNamed(q, "CancelToken") }

// IsAsyncTypePath reports whether q names Async or one of its aliases.
func IsAsyncTypePath(q ident.QualifiedName) bool {
	if len(q.Module) != 0 {
		return false
	}
	switch q.Name {
	case "Async", "Sequence", "Future", "Stream", "Pipe", "Exchange":
		return true
	default:
		return false
	}
}
