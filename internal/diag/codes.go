package diag

// Code is the externally visible diagnostic identifier. Every mapped
// code matches the pattern [EWV]-[A-Z]{3}-[0-9]{4} except the one for
// RuleImplIncomplete, which is "E-TYP-IMPL-INCOMPLETE".
type Code string

// RuleID names a decision point in the semantic middle end. Rule IDs are the
// currency every pass deals in internally; they are translated to an
// external Code (with severity and message) by the static DiagCodeMap.
// Several RuleIDs intentionally have no mapped Code: trace-only
// sites that exist purely for coverage instrumentation must stay silent
// (not assert) when fired outside of trace mode.
type RuleID string

// Rule IDs, grouped by the component that raises them; the group
// membership is reflected in the Code prefix assigned in the
// DiagCodeMap below.
const (
	// Manifest / configuration.
	RuleManifestMissing RuleID = "Manifest-Missing"
	RuleManifestParse   RuleID = "Manifest-Parse"
	RuleReservedModule  RuleID = "Reserved-Module-Name"
	RuleReservedUniv    RuleID = "Reserved-Universe-Name"

	// Scope engine.
	RuleIntroDup           RuleID = "Intro-Dup"
	RuleIntroReserved      RuleID = "Intro-Reserved"
	RuleIntroShadowReq     RuleID = "Intro-Shadow-Required"
	RuleIntroUniverseGuard RuleID = "Intro-Universe-Protected"
	RuleShadowUnnecessary  RuleID = "Shadow-Unnecessary"

	// Name collection.
	RuleCollectDup          RuleID = "Collect-Dup"
	RuleResolveUsingAmbig   RuleID = "Resolve-Using-Ambig"
	RuleResolveUsingNone    RuleID = "Resolve-Using-None"
	RuleUsingPathItemPublic RuleID = "Using-Path-Item-Public-Err"
	RuleUsingListPublic     RuleID = "Using-List-Public-Err"
	RuleUsingListDup        RuleID = "Using-List-Dup"

	// Path / visibility resolver.
	RuleAccessErr         RuleID = "Access-Err"
	RuleProtectedTopLevel RuleID = "Protected-TopLevel-Err"
	RuleResolveQualFail   RuleID = "ResolveQualified-Err"

	// Expression / statement resolver.
	RuleResolveIdentErr       RuleID = "ResolveExpr-Ident-Err"
	RuleResolvePatEnumRecord  RuleID = "ResolvePat-Enum-Record-Fallback"
	RuleResolveAllocRegion    RuleID = "ResolveExpr-Alloc-Region-Err"
	RuleResolveRegionAliasNot RuleID = "ResolveExpr-RegionAlias-Not-Found"

	// Modal / class engine.
	RuleLinFail            RuleID = "Lin-Fail"
	RuleEffMethodsConflict RuleID = "EffMethods-Conflict"
	RuleEffFieldsConflict  RuleID = "EffFields-Conflict"
	RuleImplIncomplete     RuleID = "IMPL-INCOMPLETE"
	RuleNotDispatchable    RuleID = "Dynamic-Not-Dispatchable"
	RuleModalStateUnknown  RuleID = "Modal-State-Unknown"
	RuleModalMemberUnknown RuleID = "Modal-Member-Unknown"

	// Memory / lifetime model.
	RuleRegAllocOutside  RuleID = "Reg-Alloc-Outside"
	RuleRegEscape        RuleID = "Reg-Escape"
	RuleRegExpiredUse    RuleID = "Reg-Expired-Use"
	RuleRegBadNesting    RuleID = "Reg-Bad-Nesting"
	RuleRegAliasNotFound RuleID = "Reg-Alias-Not-Found"

	// Arrays / slices / strings.
	RuleValueUseNonBitcopy RuleID = "ValueUse-NonBitcopyPlace"
	RuleIndexSliceDirect   RuleID = "Index-Slice-Direct-Err"
	RuleIndexArrayNonConst RuleID = "Index-Array-NonConst-Err"
	RuleConstLen           RuleID = "ConstLen"

	// Init planner.
	RuleAcyclicEager RuleID = "WF-Acyclic-Eager"

	// Outputs / toolchain.
	RuleOutHygiene       RuleID = "Output-Hygiene-Err"
	RuleOutMangleCollide RuleID = "Mangle-Collision"
	RuleOutNoLLVMAs      RuleID = "Tool-Missing-llvm-as"
	RuleOutNoLLDLink     RuleID = "Tool-Missing-lld-link"
	RuleOutNoRuntimeLib  RuleID = "Runtime-Lib-Missing"
	RuleOutRuntimeSymbol RuleID = "Runtime-Lib-Missing-Symbol"
)

// Severity and message template bound to a RuleID.
type codeEntry struct {
	code     Code
	severity Severity
	message  string
}

// DiagCodeMap is the static rule-id -> (code, severity, message) table.
// Rule IDs absent from this map have no external code; CodeForRule
// returns ok=false for them and callers must treat that as silence,
// not an assertion failure.
var DiagCodeMap = map[RuleID]codeEntry{
	RuleManifestMissing: {"E-PRJ-0101", SevError, "project manifest not found"},
	RuleManifestParse:   {"E-PRJ-0102", SevError, "project manifest failed to parse: {detail}"},
	RuleReservedModule:  {"E-CNF-0001", SevError, "{name} cannot be declared at module scope: {reason}"},
	RuleReservedUniv:    {"E-CNF-0002", SevError, "{name} is a reserved identifier and cannot be declared at universe scope"},

	RuleIntroDup:           {"E-MOD-1303", SevError, "{name} is already declared in this scope"},
	RuleIntroReserved:      {"E-CNF-0001", SevError, "{name} is a reserved identifier"},
	RuleIntroShadowReq:     {"E-MOD-1304", SevError, "{name} shadows an outer binding; shadowing must be explicit"},
	RuleIntroUniverseGuard: {"E-CNF-0002", SevError, "{name} cannot shadow a universe-reserved identifier"},
	RuleShadowUnnecessary:  {"W-MOD-1306", SevWarning, "{name} does not shadow anything; drop the shadow qualifier"},

	RuleCollectDup:          {"E-MOD-1302", SevError, "duplicate top-level name {name}"},
	RuleResolveUsingAmbig:   {"E-MOD-1204", SevError, "{path} is ambiguous between an item and a module"},
	RuleResolveUsingNone:    {"E-MOD-1205", SevError, "{path} does not resolve to an item or a module"},
	RuleUsingPathItemPublic: {"E-MOD-1206", SevError, "cannot re-export {name}: the referenced item is not public"},
	RuleUsingListPublic:     {"E-MOD-1207", SevError, "cannot re-export {name}: the referenced item is not public"},
	RuleUsingListDup:        {"E-MOD-1208", SevError, "duplicate using-list entry {name}"},

	RuleAccessErr:         {"E-MOD-1207", SevError, "{name} is not accessible from this module"},
	RuleProtectedTopLevel: {"E-MOD-2440", SevError, "protected visibility is not allowed on a top-level item"},
	RuleResolveQualFail:   {"E-MOD-1209", SevError, "{path}::{name} could not be resolved"},

	RuleResolveIdentErr:       {"E-MOD-1210", SevError, "{name} is not defined"},
	RuleResolveAllocRegion:    {"E-REG-0001", SevError, "allocation (^) may only appear inside a region or frame"},
	RuleResolveRegionAliasNot: {"E-REG-0005", SevError, "{name} does not resolve to an enclosing region alias"},

	RuleLinFail:            {"E-TYP-0004", SevError, "no consistent linearization exists for {name} (C3 merge failed)"},
	RuleEffMethodsConflict: {"E-TYP-0005", SevError, "conflicting inherited signatures for method {name}"},
	RuleEffFieldsConflict:  {"E-TYP-0006", SevError, "conflicting inherited field types for {name}"},
	RuleImplIncomplete:     {"E-TYP-IMPL-INCOMPLETE", SevError, "{name} does not implement all members required by {class}"},
	RuleNotDispatchable:    {"E-TYP-0007", SevError, "{name} is not dispatchable and cannot be used as Dynamic<{name}>"},
	RuleModalStateUnknown:  {"E-TYP-0008", SevError, "{name} has no state named {state}"},
	RuleModalMemberUnknown: {"E-TYP-0009", SevError, "state {state} of {name} has no member {member}"},

	RuleRegAllocOutside:  {"E-REG-0001", SevError, "allocation (^) outside of any region"},
	RuleRegEscape:        {"E-REG-0002", SevError, "pointer escapes the region that owns its storage"},
	RuleRegExpiredUse:    {"E-REG-0003", SevError, "use of a pointer whose region has already exited"},
	RuleRegBadNesting:    {"E-REG-0004", SevError, "frame is not contained within its parent region"},
	RuleRegAliasNotFound: {"E-REG-0005", SevError, "{name} does not resolve to a region alias bound by an enclosing region"},

	RuleValueUseNonBitcopy: {"E-TYP-0010", SevError, "range indexing requires a Bitcopy element type"},
	RuleIndexSliceDirect:   {"E-TYP-0011", SevError, "direct slice indexing by usize is not allowed; use a range"},
	RuleIndexArrayNonConst: {"E-TYP-0012", SevError, "array index must be a compile-time constant"},
	RuleConstLen:           {"E-TYP-0013", SevError, "array length must be a compile-time constant"},

	RuleAcyclicEager: {"E-MOD-1401", SevError, "eager initialization dependency cycle: {cycle}"},

	RuleOutHygiene:       {"E-OUT-0406", SevError, "output path {path} escapes the computed output root"},
	RuleOutMangleCollide: {"E-OUT-0406", SevError, "mangled symbol collision between {a} and {b}"},
	RuleOutNoLLVMAs:      {"E-OUT-0403", SevError, "llvm-as could not be located"},
	RuleOutNoLLDLink:     {"E-OUT-0405", SevError, "lld-link could not be located"},
	RuleOutNoRuntimeLib:  {"E-OUT-0407", SevError, "runtime/cursive0_rt.lib was not found"},
	RuleOutRuntimeSymbol: {"E-OUT-0408", SevError, "runtime/cursive0_rt.lib is missing required symbol {name}"},
}

// CodeForRule resolves a RuleID to its external Code and Severity.
// ok is false when the rule is not present in DiagCodeMap: callers must
// treat that as silence (no diagnostic, no panic).
func CodeForRule(id RuleID) (Code, Severity, bool) {
	entry, ok := DiagCodeMap[id]
	if !ok {
		return "", SevInfo, false
	}
	return entry.code, entry.severity, true
}

// substitute replaces "{name}" style placeholders in msg using args.
func substitute(msg string, args map[string]string) string {
	if len(args) == 0 {
		return msg
	}
	out := msg
	for k, v := range args {
		placeholder := "{" + k + "}"
		out = replaceAll(out, placeholder, v)
	}
	return out
}

func replaceAll(s, old, new string) string {
	if old == "" {
		return s
	}
	result := ""
	for {
		i := indexOf(s, old)
		if i < 0 {
			return result + s
		}
		result += s[:i] + new
		s = s[i+len(old):]
	}
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

func (c Code) String() string {
	return string(c)
}

// ID is the rendered form of a code in diagnostic output; identical to
// String, kept as a separate name so renderers read naturally.
func (c Code) ID() string {
	return string(c)
}

// ObsTimings tags the informational timing diagnostic the pretty
// renderer expands into a timing table.
const ObsTimings Code = "V-OBS-0001"

// Format renders the message template bound to id, substituting args.
// Returns ("", false) for an unmapped rule id.
func Format(id RuleID, args map[string]string) (string, bool) {
	entry, ok := DiagCodeMap[id]
	if !ok {
		return "", false
	}
	return substitute(entry.message, args), true
}
