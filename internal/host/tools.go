package host

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"c0/internal/diag"
)

// bundledLLVMDir is the repo-local toolchain location tried after
// $C0_LLVM_BIN and before $PATH.
const bundledLLVMDir = "llvm/llvm-21.1.8-x86_64/bin"

// ResolveTool locates a toolchain binary by name. The search order is
// $C0_LLVM_BIN, the repo-local bundled toolchain under root, then every
// $PATH entry; on Windows each candidate is also tried with an .exe
// suffix, and link.exe additionally falls back to a deep MSVC scan.
func ResolveTool(root, name string) (string, bool) {
	var dirs []string
	if env := os.Getenv("C0_LLVM_BIN"); env != "" {
		dirs = append(dirs, env)
	}
	dirs = append(dirs, filepath.Join(root, filepath.FromSlash(bundledLLVMDir)))
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, candidate := range toolCandidates(dir, name) {
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return candidate, true
			}
		}
	}
	if runtime.GOOS == "windows" && strings.EqualFold(name, "link") {
		if p, ok := findMSVCLink(); ok {
			return p, true
		}
	}
	return "", false
}

func toolCandidates(dir, name string) []string {
	out := []string{filepath.Join(dir, name)}
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		out = append(out, filepath.Join(dir, name+".exe"))
	}
	return out
}

// findMSVCLink scans the Visual Studio VC Tools layout for link.exe,
// preferring the highest tool version. The version-descending order is
// a heuristic, not a correctness property.
func findMSVCLink() (string, bool) {
	for _, programFiles := range []string{
		os.Getenv("ProgramFiles"),
		os.Getenv("ProgramFiles(x86)"),
	} {
		if programFiles == "" {
			continue
		}
		vsRoot := filepath.Join(programFiles, "Microsoft Visual Studio")
		editions, err := filepath.Glob(filepath.Join(vsRoot, "*", "*", "VC", "Tools", "MSVC", "*"))
		if err != nil || len(editions) == 0 {
			continue
		}
		sort.Sort(sort.Reverse(sort.StringSlice(editions)))
		for _, toolDir := range editions {
			candidate := filepath.Join(toolDir, "bin", "Hostx64", "x64", "link.exe")
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

// ResolveAssembler locates llvm-as; a miss is E-OUT-0403.
func ResolveAssembler(r diag.Reporter, root string) (string, bool) {
	p, ok := ResolveTool(root, "llvm-as")
	if !ok {
		diag.ReportRule(r, diag.RuleOutNoLLVMAs, spanless, nil)
	}
	return p, ok
}

// ResolveLinker locates lld-link; a miss is E-OUT-0405.
func ResolveLinker(r diag.Reporter, root string) (string, bool) {
	p, ok := ResolveTool(root, "lld-link")
	if !ok {
		diag.ReportRule(r, diag.RuleOutNoLLDLink, spanless, nil)
	}
	return p, ok
}
