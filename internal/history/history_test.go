package history

import (
	"path/filepath"
	"testing"
	"time"

	"snapback/internal/config"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStartFinish(t *testing.T) {
	db := openMemory(t)
	started := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	id, err := db.Start("run-uuid-1", "run", started)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if id == 0 {
		t.Fatal("Start() returned id 0")
	}

	if err := db.Finish(id, "completed", started.Add(time.Minute), 10, 5, 0); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	runs, err := db.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Recent() returned %d runs, want 1", len(runs))
	}

	r := runs[0]
	if r.RunID != "run-uuid-1" {
		t.Errorf("RunID = %q, want %q", r.RunID, "run-uuid-1")
	}
	if r.Operation != "run" {
		t.Errorf("Operation = %q, want %q", r.Operation, "run")
	}
	if r.Status != "completed" {
		t.Errorf("Status = %q, want %q", r.Status, "completed")
	}
	if !r.FinishedAt.Valid {
		t.Error("FinishedAt not set after Finish")
	}
	if r.Processed != 10 || r.Skipped != 5 || r.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 10/5/0", r.Processed, r.Skipped, r.Failed)
	}
}

func TestRecent_OrderAndLimit(t *testing.T) {
	db := openMemory(t)
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		if _, err := db.Start("id", "run", base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	}

	runs, err := db.Recent(3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Recent(3) returned %d runs", len(runs))
	}
	// Newest first.
	if runs[0].ID <= runs[1].ID || runs[1].ID <= runs[2].ID {
		t.Errorf("runs not ordered newest first: %d, %d, %d", runs[0].ID, runs[1].ID, runs[2].ID)
	}
}

func TestRecent_UnfinishedRun(t *testing.T) {
	db := openMemory(t)
	if _, err := db.Start("id", "resume", time.Now()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	runs, err := db.Recent(1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if runs[0].Status != "running" {
		t.Errorf("Status = %q, want %q", runs[0].Status, "running")
	}
	if runs[0].FinishedAt.Valid {
		t.Error("FinishedAt set for unfinished run")
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := db.Start("persisted", "run", time.Now()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db2.Close()

	runs, err := db2.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "persisted" {
		t.Errorf("runs after reopen = %+v", runs)
	}
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.HistoryConfig
		wantErr bool
	}{
		{name: "memory", cfg: config.HistoryConfig{Type: "memory"}},
		{name: "sqlite", cfg: config.HistoryConfig{Type: "sqlite", DataDir: ""}, wantErr: true},
		{name: "unknown", cfg: config.HistoryConfig{Type: "postgres"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := FromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("FromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if db != nil {
				db.Close()
			}
		})
	}
}

func TestFromConfig_SQLiteDataDir(t *testing.T) {
	dir := t.TempDir()
	db, err := FromConfig(config.HistoryConfig{Type: "sqlite", DataDir: dir})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	db.Close()
}
