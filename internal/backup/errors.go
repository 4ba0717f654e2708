package backup

import (
	"errors"
	"fmt"
)

// SetupError reports a condition that makes the whole job unrunnable:
// unreadable source root, unusable destination store, or a corrupt registry
// file. Setup errors abort before Processing begins, with no registry
// mutation.
type SetupError struct {
	Reason string
	Err    error
}

func (e *SetupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("setup failed: %s", e.Reason)
	}
	return fmt.Sprintf("setup failed: %s: %v", e.Reason, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// IsSetupError reports whether err is (or wraps) a SetupError.
func IsSetupError(err error) bool {
	var se *SetupError
	return errors.As(err, &se)
}

// FileError records the failure of a single candidate. It is confined to
// the worker that produced it: the file's registry entry stays unchanged,
// so the next invocation retries the file, and the job itself carries on.
type FileError struct {
	Rel   string // source-root-relative path
	Stage string // "hash", "compress", or "store"
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Rel, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// PersistenceError reports a failed registry save at Finalizing. Individual
// files may have succeeded, but losing the registry write undermines resume
// guarantees for the whole run, so it surfaces as a job-level failure.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting registry to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
