package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	cfg := NewConfig("/data/photos", "/mnt/backup/photos", "/home/u/.local/share/snapback")
	cfg.Workers = 8
	cfg.CheckpointEvery = 100
	cfg.Compression = CompressionConfig{Type: "lz4", Level: 4}
	cfg.Store = StoreConfig{
		Type:     "s3",
		S3Bucket: "backups",
		S3Prefix: "photos/",
		S3Region: "eu-central-1",
	}

	m := &Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.SourcePath != cfg.SourcePath {
		t.Errorf("SourcePath = %q, want %q", got.SourcePath, cfg.SourcePath)
	}
	if got.Workers != 8 {
		t.Errorf("Workers = %d, want 8", got.Workers)
	}
	if got.CheckpointEvery != 100 {
		t.Errorf("CheckpointEvery = %d, want 100", got.CheckpointEvery)
	}
	if got.Compression.Type != "lz4" || got.Compression.Level != 4 {
		t.Errorf("Compression = %+v, want lz4 level 4", got.Compression)
	}
	if got.Store.S3Bucket != "backups" {
		t.Errorf("Store.S3Bucket = %q, want %q", got.Store.S3Bucket, "backups")
	}
	if len(got.Blacklist.Dirs) != len(cfg.Blacklist.Dirs) {
		t.Errorf("Blacklist.Dirs = %v, want %v", got.Blacklist.Dirs, cfg.Blacklist.Dirs)
	}
}

func TestManager_Read_Invalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("this is [not valid toml")); err == nil {
		t.Error("Read() on invalid toml: expected error, got nil")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("/src", "/dst", "/base")

	if cfg.RegistryPath != filepath.Join("/base", "registry.json") {
		t.Errorf("RegistryPath = %q", cfg.RegistryPath)
	}
	if cfg.Compression.Type != "zstd" {
		t.Errorf("Compression.Type = %q, want zstd", cfg.Compression.Type)
	}
	if cfg.Store.Type != "filesystem" {
		t.Errorf("Store.Type = %q, want filesystem", cfg.Store.Type)
	}

	hasDir := func(name string) bool {
		for _, d := range cfg.Blacklist.Dirs {
			if d == name {
				return true
			}
		}
		return false
	}
	for _, want := range []string{"node_modules", ".git"} {
		if !hasDir(want) {
			t.Errorf("default blacklist missing %q", want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing source", mutate: func(c *Config) { c.SourcePath = "" }, wantErr: true},
		{name: "missing destination", mutate: func(c *Config) { c.DestinationPath = "" }, wantErr: true},
		{name: "s3 store needs no destination path", mutate: func(c *Config) {
			c.DestinationPath = ""
			c.Store.Type = "s3"
		}},
		{name: "missing registry", mutate: func(c *Config) { c.RegistryPath = "" }, wantErr: true},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }, wantErr: true},
		{name: "negative checkpoint", mutate: func(c *Config) { c.CheckpointEvery = -5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("/src", "/dst", "/base")
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadFromFile_And_Init(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "snapback.toml")
	cfg := NewConfig("/src", "/dst", dir)

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	// Init must refuse to overwrite.
	if err := Init(path, cfg); err == nil {
		t.Error("second Init() succeeded, want error")
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.SourcePath != "/src" {
		t.Errorf("SourcePath = %q, want %q", got.SourcePath, "/src")
	}
}

func TestReadFromFile_Missing(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("ReadFromFile() on missing file: expected error, got nil")
	}
}

func TestReadFromFile_PartialConfig(t *testing.T) {
	// A minimal hand-written config file must decode with zero values for
	// everything omitted.
	path := filepath.Join(t.TempDir(), "snapback.toml")
	content := `
source_path = "/data"
destination_path = "/backup"
registry_path = "/state/registry.json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
	if cfg.Compression.Type != "" {
		t.Errorf("Compression.Type = %q, want empty", cfg.Compression.Type)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
