// Package fs provides the source-tree enumeration and blacklist filtering
// consumed by the backup job.
package fs

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// OSWalker enumerates regular files under a root on the real filesystem.
type OSWalker struct{}

// NewOSWalker creates a walker that operates on the real filesystem.
func NewOSWalker() *OSWalker { return &OSWalker{} }

// Walk calls fn once for every regular file under root. rel is the
// source-root-relative path in forward-slash form; abs is the full path.
// Symlinks, devices and other special files are skipped; directories are
// never reported. Returning an error from fn aborts the walk.
func (w *OSWalker) Walk(root string, fn func(rel, abs string) error) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", p, err)
		}
		return fn(filepath.ToSlash(rel), p)
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}
	return nil
}
