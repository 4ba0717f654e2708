// Package app is the application layer between the CLI and the backup
// engine. It constructs every dependency from config, owns the run ID and
// log file, and records each invocation in the run history.
package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"snapback/internal/backup"
	"snapback/internal/compress"
	"snapback/internal/config"
	"snapback/internal/fs"
	"snapback/internal/history"
	"snapback/internal/store"
)

// App wires config into a runnable backup job and exposes the high-level
// operations the CLI calls. The caller must call Close when done.
type App struct {
	cfg       *config.Config
	codec     compress.Codec
	store     backup.Store
	blacklist *fs.Blacklist
	history   *history.DB
	logger    backup.Logger
	runID     string
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config. A history
// database that cannot be opened is logged and skipped: losing run history
// never blocks a backup.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	codec, err := compress.New(cfg.Compression.Type, cfg.Compression.Level)
	if err != nil {
		return nil, fmt.Errorf("creating codec: %w", err)
	}

	st, err := store.FromConfig(cfg.Store, cfg.DestinationPath)
	if err != nil {
		return nil, fmt.Errorf("creating destination store: %w", err)
	}

	runID := backup.UUIDGenerator{}.New()
	slogger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	hist, err := history.FromConfig(cfg.History)
	if err != nil {
		logger.Warn("history database unavailable, runs will not be recorded", "error", err)
		hist = nil
	}

	return &App{
		cfg:       cfg,
		codec:     codec,
		store:     st,
		blacklist: fs.NewBlacklist(cfg.Blacklist),
		history:   hist,
		logger:    logger,
		runID:     runID,
		logFile:   logFile,
	}, nil
}

// RunID returns the identifier assigned to this invocation.
func (a *App) RunID() string { return a.runID }

// Run executes a backup pass over the configured source tree. onOutcome,
// when non-nil, receives one event per candidate file as it completes.
func (a *App) Run(onOutcome func(backup.Outcome)) (*backup.Summary, error) {
	return a.execute("run", onOutcome)
}

// Resume is a rerun after an interrupted pass. It is the same algorithm as
// Run: files already backed up hash to the same digest and are skipped, so
// only the remainder is processed.
func (a *App) Resume(onOutcome func(backup.Outcome)) (*backup.Summary, error) {
	return a.execute("resume", onOutcome)
}

func (a *App) execute(operation string, onOutcome func(backup.Outcome)) (*backup.Summary, error) {
	job, err := backup.NewJob(
		backup.JobConfig{
			SourceRoot:      a.cfg.SourcePath,
			RegistryPath:    a.cfg.RegistryPath,
			Workers:         a.cfg.Workers,
			CheckpointEvery: a.cfg.CheckpointEvery,
		},
		a.store, a.codec, fs.NewOSWalker(), a.blacklist.Match, a.logger, backup.RealClock{},
	)
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}
	if onOutcome != nil {
		job.OnOutcome(onOutcome)
	}

	histID := a.recordStart(operation)
	a.logger.Info("starting", "operation", operation, "source", a.cfg.SourcePath)

	summary, runErr := job.Run()
	a.recordFinish(histID, job, summary, runErr)
	return summary, runErr
}

// recordStart inserts the history row for a run and returns its ID, or 0
// when history is unavailable or the insert fails.
func (a *App) recordStart(operation string) int64 {
	if a.history == nil {
		return 0
	}
	id, err := a.history.Start(a.runID, operation, time.Now().UTC())
	if err != nil {
		a.logger.Warn("recording run start failed", "error", err)
		return 0
	}
	return id
}

func (a *App) recordFinish(histID int64, job *backup.Job, summary *backup.Summary, runErr error) {
	if a.history == nil || histID == 0 {
		return
	}
	status := string(job.Status())
	if runErr != nil {
		status = "failed"
	}
	var processed, skipped, failed int
	if summary != nil {
		processed, skipped, failed = summary.Processed, summary.Skipped, summary.Failed
	}
	if err := a.history.Finish(histID, status, time.Now().UTC(), processed, skipped, failed); err != nil {
		a.logger.Warn("recording run finish failed", "error", err)
	}
}

// Decompress restores a single artifact to a plain file. The codec is
// picked from codecName when given, otherwise inferred from the artifact's
// suffix. outputPath defaults to the artifact path with the codec suffix
// stripped.
func (a *App) Decompress(artifactPath, outputPath, codecName string) (string, error) {
	var codec compress.Codec
	var err error
	if codecName != "" {
		codec, err = compress.New(codecName, compress.DefaultLevel)
	} else {
		codec, err = compress.BySuffix(artifactPath)
	}
	if err != nil {
		return "", err
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(artifactPath, codec.Suffix())
		if outputPath == artifactPath {
			return "", fmt.Errorf("cannot derive output path: %s does not end in %s", artifactPath, codec.Suffix())
		}
	}

	if err := compress.DecompressFile(codec, artifactPath, outputPath); err != nil {
		return "", err
	}
	a.logger.Info("decompressed", "artifact", artifactPath, "output", outputPath)
	return outputPath, nil
}

// History returns the most recent recorded runs, newest first.
func (a *App) History(limit int) ([]*history.Run, error) {
	if a.history == nil {
		return nil, fmt.Errorf("history database unavailable")
	}
	return a.history.Recent(limit)
}

// Close releases the history database and the log file.
func (a *App) Close() error {
	var firstErr error
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			firstErr = fmt.Errorf("closing history database: %w", err)
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
