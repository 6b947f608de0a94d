package project

import (
	"path"
	"strings"
)

// Normalize cleans a project-relative output path: forward slashes,
// redundant separators and "." segments removed. ok is false when the
// path contains a ".." segment: those never have a canonical form
// under the output root.
func Normalize(p string) (string, bool) {
	slashed := strings.ReplaceAll(p, "\\", "/")
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", false
		}
	}
	return path.Clean(slashed), true
}

// Canon is the canonical comparison form of a project-relative path:
// normalized and case-preserved, rooted without a leading "./". ok is
// false exactly when Normalize rejects the input.
func Canon(p string) (string, bool) {
	n, ok := Normalize(p)
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(n, "./"), true
}
