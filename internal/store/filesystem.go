// Package store provides destination artifact store backends. The backup
// job writes compressed artifacts and checks artifact presence only through
// the backup.Store interface implemented here.
package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"snapback/internal/backup"
)

// FileSystemStore mirrors the source tree under a destination root:
// artifact key "a/b.txt.zst" lives at <root>/a/b.txt.zst.
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a store rooted at the given path. The root is
// created if missing.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if root == "" {
		return nil, fmt.Errorf("destination root is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating destination root: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Root returns the destination root path.
func (s *FileSystemStore) Root() string { return s.root }

// Path returns the on-disk location for an artifact key.
func (s *FileSystemStore) Path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Put writes an artifact via a temp file in the destination directory
// followed by a rename, so a crash mid-write never leaves a half-written
// artifact where Exists would find it.
func (s *FileSystemStore) Put(key string, r io.Reader) error {
	destPath := s.Path(key)
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("replacing artifact: %w", err)
	}
	success = true
	return nil
}

// Exists reports whether a stat-able regular file is present for key.
// Anything else — missing, unreadable, a directory in the way — counts as
// absent and forces reprocessing.
func (s *FileSystemStore) Exists(key string) (bool, error) {
	info, err := os.Stat(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat artifact: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// Open returns a reader over the stored artifact.
func (s *FileSystemStore) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(key))
	if err != nil {
		return nil, fmt.Errorf("opening artifact %s: %w", key, err)
	}
	return f, nil
}

// Validate verifies the destination root exists, is a directory, and is
// writable, by round-tripping a probe file.
func (s *FileSystemStore) Validate() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("destination root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination root is not a directory: %s", s.root)
	}

	probe, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("destination root not writable: %w", err)
	}
	probePath := probe.Name()
	probe.Close()
	os.Remove(probePath)
	return nil
}

// Compile-time check that FileSystemStore implements backup.Store
var _ backup.Store = (*FileSystemStore)(nil)
