package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the filename of a Cursive project manifest.
const ManifestName = "Cursive.toml"

// findManifest walks up from startDir looking for Cursive.toml.
func findManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot ascends from inputPath looking for a directory that
// contains Cursive.toml. If none is found, it returns the starting
// directory unchanged: the caller (ParseManifest) is
// responsible for diagnosing a missing manifest at that point.
func FindProjectRoot(inputPath string) (root string, found bool, err error) {
	start := inputPath
	if fi, statErr := os.Stat(inputPath); statErr == nil && !fi.IsDir() {
		start = filepath.Dir(inputPath)
	}
	manifestPath, ok, err := findManifest(start)
	if err != nil {
		return "", false, err
	}
	if !ok {
		abs, absErr := filepath.Abs(start)
		if absErr != nil {
			abs = start
		}
		return abs, false, nil
	}
	return filepath.Dir(manifestPath), true, nil
}
