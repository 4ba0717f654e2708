package backup

import "io"

// Store is the destination side of a backup: a keyed artifact space that
// mirrors the source tree. Keys are forward-slash relative paths with the
// codec suffix appended, so the mapping from source file to artifact is
// deterministic and stable across runs.
type Store interface {
	// Put streams an artifact into the store under key, overwriting any
	// existing artifact.
	Put(key string, r io.Reader) error

	// Exists reports whether a readable artifact is present under key.
	// An artifact that cannot be stat-ed counts as absent: the job then
	// reprocesses the file, which favors correctness over optimism.
	Exists(key string) (bool, error)

	// Open returns a reader over the artifact stored under key.
	Open(key string) (io.ReadCloser, error)

	// Validate verifies the store is usable for writing. Called once during
	// job setup; a failure here is fatal before any processing starts.
	Validate() error
}

// Walker enumerates the regular files of a source tree. Implementations
// must yield every regular file exactly once, as a source-root-relative
// forward-slash path plus its absolute path. Traversal order is
// unspecified.
type Walker interface {
	Walk(root string, fn func(rel, abs string) error) error
}

// BlacklistFunc is the exclusion predicate applied during scanning.
// It must be total and side-effect free.
type BlacklistFunc func(rel string) bool
