// Package ub is the undefined-behavior model: the closed taxonomy of
// host primitives, the static/dynamic UB split, and the mapping from
// static-UB rule ids to diagnostic codes.
package ub

import (
	"fmt"

	"c0/internal/ast"
	"c0/internal/diag"
)

// HostPrim enumerates every host-primitive surface the compiler can
// observe a failure from. The set is closed: a failure from a surface
// outside it is a taxonomy bug, not a user error.
type HostPrim uint8

const (
	// Diagnostic-producing primitives.
	PrimParseTOML HostPrim = iota
	PrimReadBytes
	PrimWriteFile
	PrimResolveTool
	PrimResolveRuntimeLib
	PrimInvoke
	PrimAssembleIR
	PrimInvokeLinker

	// Runtime-producing primitives: the FS/File/Dir capability
	// families, whose failures surface as IoError values at runtime.
	PrimFSOpenRead
	PrimFSOpenWrite
	PrimFSOpenAppend
	PrimFSReadDir
	PrimFileReadAll
	PrimFileWrite
	PrimFileFlush
	PrimFileClose
	PrimDirIterNext
	PrimDirIterClose
)

func (p HostPrim) String() string {
	switch p {
	case PrimParseTOML:
		return "ParseTOML"
	case PrimReadBytes:
		return "ReadBytes"
	case PrimWriteFile:
		return "WriteFile"
	case PrimResolveTool:
		return "ResolveTool"
	case PrimResolveRuntimeLib:
		return "ResolveRuntimeLib"
	case PrimInvoke:
		return "Invoke"
	case PrimAssembleIR:
		return "AssembleIR"
	case PrimInvokeLinker:
		return "InvokeLinker"
	case PrimFSOpenRead:
		return "FSOpenRead"
	case PrimFSOpenWrite:
		return "FSOpenWrite"
	case PrimFSOpenAppend:
		return "FSOpenAppend"
	case PrimFSReadDir:
		return "FSReadDir"
	case PrimFileReadAll:
		return "FileReadAll"
	case PrimFileWrite:
		return "FileWrite"
	case PrimFileFlush:
		return "FileFlush"
	case PrimFileClose:
		return "FileClose"
	case PrimDirIterNext:
		return "DirIterNext"
	case PrimDirIterClose:
		return "DirIterClose"
	default:
		return "unknown"
	}
}

// IsHostPrimDiag reports whether a failure of prim maps to a
// compile-time diagnostic.
func IsHostPrimDiag(prim HostPrim) bool {
	switch prim {
	case PrimParseTOML, PrimReadBytes, PrimWriteFile, PrimResolveTool,
		PrimResolveRuntimeLib, PrimInvoke, PrimAssembleIR, PrimInvokeLinker:
		return true
	default:
		return false
	}
}

// IsHostPrimRuntime reports whether a failure of prim surfaces as a
// runtime error value.
func IsHostPrimRuntime(prim HostPrim) bool {
	switch prim {
	case PrimFSOpenRead, PrimFSOpenWrite, PrimFSOpenAppend, PrimFSReadDir,
		PrimFileReadAll, PrimFileWrite, PrimFileFlush, PrimFileClose,
		PrimDirIterNext, PrimDirIterClose:
		return true
	default:
		return false
	}
}

// MapsToDiagOrRuntime reports whether the taxonomy covers prim at all.
// It holds for every declared primitive; the two sets are disjoint.
func MapsToDiagOrRuntime(prim HostPrim) bool {
	return IsHostPrimDiag(prim) || IsHostPrimRuntime(prim)
}

// HostPrimFail is the totality assertion over failure surfaces: a
// reported failure for a primitive that maps to neither category
// aborts the compiler. Non-failures and covered primitives pass
// through.
func HostPrimFail(prim HostPrim, failed bool) {
	if !failed {
		return
	}
	if !MapsToDiagOrRuntime(prim) {
		panic(fmt.Errorf("host primitive %s failed outside the diagnostic taxonomy", prim))
	}
}

// Behavior classifies the outcome of a dynamic operation.
type Behavior uint8

const (
	Specified Behavior = iota
	UVB                // unspecified/undefined runtime behavior
)

func (b Behavior) String() string {
	if b == UVB {
		return "UVB"
	}
	return "Specified"
}

// DynamicOpKind enumerates the operations with dynamic preconditions.
type DynamicOpKind uint8

const (
	OpRawPtrRead DynamicOpKind = iota
	OpRawPtrWrite
)

// DynamicOp describes one dynamic operation instance: the operation,
// the address's pointer state as far as it is known, and, for writes,
// whether the pointer is immutable.
type DynamicOp struct {
	Kind      DynamicOpKind
	AddrState ast.PtrState
	Immutable bool
}

// BehaviorOf decides whether a dynamic operation's preconditions hold:
// reads require a Valid address; writes additionally require a mutable
// raw pointer. Anything else is UVB.
func BehaviorOf(op DynamicOp) Behavior {
	switch op.Kind {
	case OpRawPtrRead:
		if op.AddrState != ast.PtrStateValid {
			return UVB
		}
		return Specified
	case OpRawPtrWrite:
		if op.AddrState != ast.PtrStateValid || op.Immutable {
			return UVB
		}
		return Specified
	default:
		return UVB
	}
}

// c0CodeMap is the fallback table for static-UB rule ids that the main
// spec map does not carry.
var c0CodeMap = map[diag.RuleID]diag.Code{
	"UB-RawPtr-Read":  "E-TYP-0900",
	"UB-RawPtr-Write": "E-TYP-0901",
}

// StaticUndefinedCode returns the diagnostic code a static-UB rule id
// resolves to, consulting the main rule table first and the C0 map as
// fallback. ok is false when the rule has no code anywhere: callers
// treat that as a dev-time assertion site, not a user diagnostic.
func StaticUndefinedCode(id diag.RuleID) (diag.Code, bool) {
	if code, _, ok := diag.CodeForRule(id); ok {
		return code, true
	}
	code, ok := c0CodeMap[id]
	return code, ok
}
