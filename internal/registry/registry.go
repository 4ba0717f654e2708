// Package registry implements the persistent path→digest store that backs
// skip and resume decisions. Keys are source-root-relative paths in
// forward-slash form; values are content digests.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"snapback/internal/hash"
)

// Registry is a synchronized mapping from relative file path to the content
// digest observed at the most recent successful processing of that path.
// All access goes through the accessor methods; callers never see the
// underlying map.
type Registry struct {
	mu      sync.Mutex
	entries map[string]hash.Digest
}

// registryFile is the serialized form. Digests are hex-encoded so the file
// round-trips exactly across processes and platforms.
type registryFile struct {
	Entries map[string]string `json:"entries"`
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]hash.Digest)}
}

// Load reads a registry from the given path. A missing file yields an empty
// registry so a first run needs no special setup. A present but malformed
// file is a hard error: silently discarding a corrupt registry would erase
// resume state invisibly.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading registry file: %w", err)
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("registry file %s is corrupt: %w", path, err)
	}

	r := New()
	for rel, hexDigest := range file.Entries {
		d, err := hash.ParseHex(hexDigest)
		if err != nil {
			return nil, fmt.Errorf("registry file %s has invalid digest for %q: %w", path, rel, err)
		}
		r.entries[rel] = d
	}
	return r, nil
}

// Save serializes the registry to path via a temp file in the same
// directory followed by a rename, so a crash mid-write never leaves a
// half-written file where the next Load expects a valid one.
// Safe to call while other goroutines are mutating the registry: the
// snapshot is taken under the lock, the file write is not.
func (r *Registry) Save(path string) error {
	file := registryFile{Entries: make(map[string]string)}

	r.mu.Lock()
	for rel, d := range r.entries {
		file.Entries[rel] = d.Hex()
	}
	r.mu.Unlock()

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".registry-*")
	if err != nil {
		return fmt.Errorf("creating temp registry file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp registry file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing registry file: %w", err)
	}
	return nil
}

// Has reports whether a digest is recorded for the given relative path.
func (r *Registry) Has(rel string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[rel]
	return ok
}

// Get returns the recorded digest for rel. The second return value is false
// when the path has no prior record, which is distinct from a recorded
// empty-content digest.
func (r *Registry) Get(rel string) (hash.Digest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.entries[rel]
	return d, ok
}

// Set records the digest for rel, overwriting any prior entry.
// Last write wins under concurrent calls.
func (r *Registry) Set(rel string, d hash.Digest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[rel] = d
}

// Len returns the number of tracked paths.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Snapshot returns a copy of the current entries.
func (r *Registry) Snapshot() map[string]hash.Digest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]hash.Digest, len(r.entries))
	for rel, d := range r.entries {
		out[rel] = d
	}
	return out
}
