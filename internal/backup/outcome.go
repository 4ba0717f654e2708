package backup

import "time"

// OutcomeKind classifies what happened to one candidate file.
type OutcomeKind int

const (
	// Skipped: the freshly computed digest matched the registry and the
	// destination artifact was present, so no work was needed.
	Skipped OutcomeKind = iota

	// Processed: the file was hashed, compressed into the store, and its
	// new digest recorded in the registry.
	Processed

	// Failed: hashing or compression failed; the registry entry for the
	// path was left unchanged so a later run retries it.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Skipped:
		return "skipped"
	case Processed:
		return "processed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the per-file result event emitted while a job runs. It is
// transient: nothing here is persisted beyond the registry update that a
// Processed outcome implies.
type Outcome struct {
	Rel  string
	Kind OutcomeKind
	Err  *FileError // set only for Failed
}

// Summary aggregates the outcomes of one completed job pass.
type Summary struct {
	Candidates int
	Processed  int
	Skipped    int
	Failed     int
	Failures   []*FileError

	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall-clock time the pass took.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *Summary) record(o Outcome) {
	switch o.Kind {
	case Processed:
		s.Processed++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
		s.Failures = append(s.Failures, o.Err)
	}
}
