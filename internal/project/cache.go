package project

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when PlanPayload format changes.
const planCacheSchemaVersion uint16 = 1

// PlanCache persists per-project planner artifacts keyed by digest, so
// a rebuild of an unchanged module set can reuse the previous
// dependency graph instead of re-extracting it. It memoizes the
// planner only; object code is never cached here.
// Thread-safe for concurrent access.
type PlanCache struct {
	mu  sync.RWMutex
	dir string
}

// PlanPayload is the cached planner state for one project digest.
type PlanPayload struct {
	Schema uint16

	// Module paths (as path keys) in interned order and their digests.
	ModuleKeys    []string
	ModuleDigests []Digest

	// Eager topological order, as indices into ModuleKeys. Empty when
	// the cached run had an eager cycle.
	InitOrder []uint32
	TopoOK    bool
}

// OpenPlanCache initializes a plan cache rooted under dir (typically
// <out_dir>/cache inside the project's build directory).
func OpenPlanCache(dir string) (*PlanCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PlanCache{dir: dir}, nil
}

func (c *PlanCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "plan", hexKey+".mp")
}

// Put serializes and writes a payload, atomically replacing any
// previous entry for the same key.
func (c *PlanCache) Put(key Digest, payload *PlanPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = planCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload for key. ok is false when the entry is absent or
// written by an incompatible schema.
func (c *PlanCache) Get(key Digest, out *PlanPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != planCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}
