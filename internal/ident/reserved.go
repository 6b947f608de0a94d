package ident

import "strings"

// keywords are reserved at every scope; they can never be introduced as
// a binding name regardless of kind.
var keywords = map[string]struct{}{
	"using": {}, "static": {}, "proc": {}, "record": {}, "enum": {},
	"modal": {}, "class": {}, "type": {}, "pub": {}, "priv": {},
	"protected": {}, "internal": {}, "let": {}, "var": {}, "defer": {},
	"region": {}, "frame": {}, "match": {}, "for": {}, "in": {},
	"if": {}, "else": {}, "return": {}, "state": {}, "transition": {},
	"self": {}, "Self": {}, "const": {}, "unique": {}, "shared": {},
}

// primitiveTypeNames are the built-in scalar type names.
var primitiveTypeNames = map[string]struct{}{
	"i8": {}, "i16": {}, "i32": {}, "i64": {}, "i128": {},
	"u8": {}, "u16": {}, "u32": {}, "u64": {}, "u128": {},
	"isize": {}, "usize": {},
	"f16": {}, "f32": {}, "f64": {},
	"bool": {}, "char": {},
}

// specialTypeNames are built-in non-scalar names populated into Σ before
// user resolution, reserved at module scope like primitives.
var specialTypeNames = map[string]struct{}{
	"Region": {}, "File": {}, "DirIter": {}, "DirEntry": {}, "FileKind": {},
	"IoError": {}, "AllocationError": {}, "Context": {}, "System": {},
	"Drop": {}, "Bitcopy": {}, "Clone": {}, "string": {}, "bytes": {},
}

// asyncTypeNames are the built-in async/concurrency names.
var asyncTypeNames = map[string]struct{}{
	"Spawned": {}, "Tracked": {}, "CancelToken": {}, "ExecutionDomain": {},
	"CpuDomain": {}, "GpuDomain": {}, "InlineDomain": {}, "Async": {},
	"Sequence": {}, "Future": {}, "Stream": {}, "Pipe": {}, "Exchange": {},
}

// IsKeyword reports whether name is a language keyword.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// IsPrimitiveTypeName reports whether name names a built-in scalar type.
func IsPrimitiveTypeName(name string) bool {
	_, ok := primitiveTypeNames[name]
	return ok
}

// IsSpecialTypeName reports whether name names a built-in capability type.
func IsSpecialTypeName(name string) bool {
	_, ok := specialTypeNames[name]
	return ok
}

// IsAsyncTypeName reports whether name names a built-in async/concurrency type.
func IsAsyncTypeName(name string) bool {
	_, ok := asyncTypeNames[name]
	return ok
}

// IsGeneratedPrefixed reports whether name carries a compiler-generated
// prefix ("gen_*") that user code must never introduce.
func IsGeneratedPrefixed(name string) bool {
	return strings.HasPrefix(name, "gen_")
}

// IsCursivePrefixed reports whether name starts with the "cursive"
// reserved prefix, carved out for the implementation's own namespace.
func IsCursivePrefixed(name string) bool {
	return strings.HasPrefix(name, "cursive")
}

// IsReservedAnywhere is the union check used by Intro/ShadowIntro for
// the unconditional reserved-name rule (keywords and compiler-owned
// prefixes; always forbidden, at any scope).
func IsReservedAnywhere(name string) bool {
	return IsKeyword(name) || IsGeneratedPrefixed(name) || IsCursivePrefixed(name)
}

// IsUniverseProtected reports whether name is one of the identifiers
// pre-bound in the universe scope by Σ population (primitives, special
// types, async types) and therefore may not be introduced at module
// scope.
func IsUniverseProtected(name string) bool {
	return IsPrimitiveTypeName(name) || IsSpecialTypeName(name) || IsAsyncTypeName(name)
}

// ValidateModuleName reports whether name may not appear as a
// module-level declaration: a keyword, primitive, special, or async
// type name: each forbidden for a
// distinct reason, returned for use in a diagnostic note.
func ValidateModuleName(name string) (reason string, bad bool) {
	switch {
	case IsKeyword(name):
		return "it is a keyword", true
	case IsPrimitiveTypeName(name):
		return "it names a built-in primitive type", true
	case IsSpecialTypeName(name):
		return "it names a built-in capability type", true
	case IsAsyncTypeName(name):
		return "it names a built-in async type", true
	default:
		return "", false
	}
}
