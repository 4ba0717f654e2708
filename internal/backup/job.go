// Package backup implements the core incremental backup engine: it scans a
// source tree, decides per file between skip and reprocess using content
// digests, compresses changed files into a destination store across a
// bounded worker pool, and keeps the hash registry consistent so an
// interrupted run can resume.
package backup

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"snapback/internal/compress"
	"snapback/internal/hash"
	"snapback/internal/registry"
)

// Status names the phases of a job. A job only ever moves forward through
// them; there is no terminal failure state reachable from a single file's
// error.
type Status string

const (
	StatusInitialized         Status = "initialized"
	StatusScanning            Status = "scanning"
	StatusProcessing          Status = "processing"
	StatusFinalizing          Status = "finalizing"
	StatusCompleted           Status = "completed"
	StatusCompletedWithErrors Status = "completed_with_errors"
)

// JobConfig is the immutable configuration for one job invocation,
// validated once at construction.
type JobConfig struct {
	SourceRoot      string
	RegistryPath    string
	Workers         int // <= 0 means one per CPU
	CheckpointEvery int // processed files between mid-run registry saves; 0 disables
}

// Job orchestrates one full backup pass. It is constructed per invocation,
// runs exactly once, and is then discarded; everything durable lives in the
// registry file and the destination store.
type Job struct {
	cfg         JobConfig
	store       Store
	codec       compress.Codec
	walker      Walker
	blacklisted BlacklistFunc
	logger      Logger
	clock       Clock

	registry *Registry
	status   Status

	// onOutcome, when set, receives one event per candidate. It is invoked
	// from the collector goroutine, never concurrently with itself.
	onOutcome func(Outcome)
}

// Registry is the synchronized path→digest store the job owns for the
// duration of a run.
type Registry = registry.Registry

// candidate is one file selected during scanning.
type candidate struct {
	rel string // source-root-relative, forward slashes; registry key
	abs string
}

// NewJob creates a job. blacklisted may be nil (nothing excluded); logger
// may be nil (no logging).
func NewJob(cfg JobConfig, store Store, codec compress.Codec, walker Walker, blacklisted BlacklistFunc, logger Logger, clock Clock) (*Job, error) {
	if cfg.SourceRoot == "" {
		return nil, fmt.Errorf("source root is required")
	}
	if cfg.RegistryPath == "" {
		return nil, fmt.Errorf("registry path is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if blacklisted == nil {
		blacklisted = func(string) bool { return false }
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Job{
		cfg:         cfg,
		store:       store,
		codec:       codec,
		walker:      walker,
		blacklisted: blacklisted,
		logger:      logger,
		clock:       clock,
		status:      StatusInitialized,
	}, nil
}

// OnOutcome registers a callback that receives one event per candidate.
// Presentation (progress bars, console output) lives behind this seam.
func (j *Job) OnOutcome(fn func(Outcome)) { j.onOutcome = fn }

// Status returns the job's current phase. Not synchronized; meant for
// inspection after Run returns or from the OnOutcome callback.
func (j *Job) Status() Status { return j.status }

// Registry exposes the job's registry. Nil until Run has performed setup.
func (j *Job) Registry() *Registry { return j.registry }

// Run executes one Scanning→Processing→Finalizing pass and returns the
// aggregated summary. Resume is not a different algorithm: rerunning over a
// completed backup set yields zero Processed outcomes because the skip
// decision is idempotent.
func (j *Job) Run() (*Summary, error) {
	started := j.clock.Now()
	if err := j.setup(); err != nil {
		return nil, err
	}

	j.status = StatusScanning
	candidates, err := j.scan()
	if err != nil {
		return nil, &SetupError{Reason: "scanning source tree", Err: err}
	}
	j.logger.Info("scan complete", "candidates", len(candidates), "registry_entries", j.registry.Len())

	j.status = StatusProcessing
	summary := j.process(candidates)
	summary.StartedAt = started
	summary.FinishedAt = j.clock.Now()

	j.status = StatusFinalizing
	if err := j.registry.Save(j.cfg.RegistryPath); err != nil {
		return summary, &PersistenceError{Path: j.cfg.RegistryPath, Err: err}
	}

	if summary.Failed > 0 {
		j.status = StatusCompletedWithErrors
	} else {
		j.status = StatusCompleted
	}
	j.logger.Info("job finished",
		"status", string(j.status),
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// setup validates the source root and store and loads the registry.
// Any failure here is fatal and leaves the registry file untouched.
func (j *Job) setup() error {
	info, err := os.Stat(j.cfg.SourceRoot)
	if err != nil {
		return &SetupError{Reason: "source root not accessible", Err: err}
	}
	if !info.IsDir() {
		return &SetupError{Reason: fmt.Sprintf("source root is not a directory: %s", j.cfg.SourceRoot)}
	}

	if err := j.store.Validate(); err != nil {
		return &SetupError{Reason: "destination store not usable", Err: err}
	}

	reg, err := registry.Load(j.cfg.RegistryPath)
	if err != nil {
		return &SetupError{Reason: "loading registry", Err: err}
	}
	j.registry = reg
	return nil
}

// scan enumerates regular files under the source root and applies the
// blacklist predicate. Directories are never candidates.
func (j *Job) scan() ([]candidate, error) {
	var candidates []candidate
	err := j.walker.Walk(j.cfg.SourceRoot, func(rel, abs string) error {
		if j.blacklisted(rel) {
			j.logger.Debug("blacklisted", "path", rel)
			return nil
		}
		candidates = append(candidates, candidate{rel: rel, abs: abs})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// process distributes candidates across the worker pool and aggregates
// outcomes. It returns only after every worker has finished, so Finalizing
// never overlaps Processing.
func (j *Job) process(candidates []candidate) *Summary {
	summary := &Summary{Candidates: len(candidates)}
	if len(candidates) == 0 {
		return summary
	}

	workers := j.cfg.Workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan candidate)
	results := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				results <- j.processOne(c)
			}
		}()
	}

	go func() {
		for _, c := range candidates {
			jobs <- c
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector: aggregation, outcome events and checkpoint saves
	// all happen here, so none of them need their own locking.
	sinceCheckpoint := 0
	for o := range results {
		summary.record(o)
		switch o.Kind {
		case Processed:
			j.logger.Debug("processed", "path", o.Rel)
			sinceCheckpoint++
		case Skipped:
			j.logger.Debug("skipped", "path", o.Rel)
		case Failed:
			j.logger.Error("file failed", "path", o.Rel, "stage", o.Err.Stage, "error", o.Err.Err)
		}
		if j.onOutcome != nil {
			j.onOutcome(o)
		}

		if j.cfg.CheckpointEvery > 0 && sinceCheckpoint >= j.cfg.CheckpointEvery {
			sinceCheckpoint = 0
			if err := j.registry.Save(j.cfg.RegistryPath); err != nil {
				// A failed checkpoint costs resume granularity, not
				// correctness; the Finalizing save still decides the run.
				j.logger.Warn("registry checkpoint failed", "error", err)
			}
		}
	}
	return summary
}

// processOne decides skip/process for a single candidate and performs the
// work. The registry is only written after the artifact is safely stored,
// so a failure leaves the file eligible for retry.
func (j *Job) processOne(c candidate) Outcome {
	digest, err := hash.File(c.abs)
	if err != nil {
		return Outcome{Rel: c.rel, Kind: Failed, Err: &FileError{Rel: c.rel, Stage: "hash", Err: err}}
	}

	key := c.rel + j.codec.Suffix()

	// Being in the registry alone never licenses a skip: the content is
	// re-verified against the fresh digest, and the artifact must still be
	// present on the destination side.
	if prev, ok := j.registry.Get(c.rel); ok && prev == digest {
		exists, err := j.store.Exists(key)
		if err != nil {
			j.logger.Warn("artifact presence check failed, reprocessing", "path", c.rel, "error", err)
		}
		if err == nil && exists {
			return Outcome{Rel: c.rel, Kind: Skipped}
		}
	}

	done := make(chan error, 1)
	pr, pw := io.Pipe()
	go func() {
		err := compress.Compress(j.codec, c.abs, pw)
		pw.CloseWithError(err)
		done <- err
	}()

	putErr := j.store.Put(key, pr)
	pr.Close() // unblocks the compressor if Put stopped early
	compressErr := <-done

	if compressErr != nil {
		return Outcome{Rel: c.rel, Kind: Failed, Err: &FileError{Rel: c.rel, Stage: "compress", Err: compressErr}}
	}
	if putErr != nil {
		return Outcome{Rel: c.rel, Kind: Failed, Err: &FileError{Rel: c.rel, Stage: "store", Err: putErr}}
	}

	j.registry.Set(c.rel, digest)
	return Outcome{Rel: c.rel, Kind: Processed}
}
