package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for snapback.
type Config struct {
	SourcePath      string `toml:"source_path"`
	DestinationPath string `toml:"destination_path"`
	RegistryPath    string `toml:"registry_path"`
	Workers         int    `toml:"workers"`          // 0 means one worker per CPU
	CheckpointEvery int    `toml:"checkpoint_every"` // registry save interval in processed files; 0 disables
	LogDir          string `toml:"log_dir"`

	Blacklist   BlacklistConfig   `toml:"blacklist"`
	Compression CompressionConfig `toml:"compression"`
	Store       StoreConfig       `toml:"store"`
	History     HistoryConfig     `toml:"history"`
}

// BlacklistConfig lists what the scanner must never pick up.
type BlacklistConfig struct {
	// Dirs are directory names excluded wherever they appear in the tree.
	Dirs []string `toml:"dirs"`
	// Extensions are file extensions (without the dot) to exclude.
	Extensions []string `toml:"extensions"`
	// Patterns are glob patterns matched against the relative path.
	Patterns []string `toml:"patterns"`
}

// CompressionConfig selects the codec for destination artifacts.
type CompressionConfig struct {
	Type  string `toml:"type"`  // "zstd" (default), "lz4", or "gzip"
	Level int    `toml:"level"` // codec-specific; 0 means the codec default
}

// StoreConfig represents configuration for the destination artifact store.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "filesystem" (default), "s3", or "memory"

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3AccessKey string `toml:"s3_access_key,omitempty"`
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// HistoryConfig represents configuration for the run-history database.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type HistoryConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a Config with the provided paths and default blacklists.
func NewConfig(sourcePath, destinationPath, baseDir string) *Config {
	return &Config{
		SourcePath:      sourcePath,
		DestinationPath: destinationPath,
		RegistryPath:    filepath.Join(baseDir, "registry.json"),
		LogDir:          filepath.Join(baseDir, "log"),
		Blacklist: BlacklistConfig{
			Dirs:       []string{"node_modules", "target", "dist", ".git"},
			Extensions: []string{"exe", "dll", "obj"},
		},
		Compression: CompressionConfig{Type: "zstd"},
		Store:       StoreConfig{Type: "filesystem"},
		History: HistoryConfig{
			Type:    "sqlite",
			DataDir: baseDir,
		},
	}
}

// Validate checks that the fields required to run a backup are present.
func (c *Config) Validate() error {
	if c.SourcePath == "" {
		return fmt.Errorf("source_path is required")
	}
	if c.DestinationPath == "" && c.Store.Type != "s3" && c.Store.Type != "memory" {
		return fmt.Errorf("destination_path is required")
	}
	if c.RegistryPath == "" {
		return fmt.Errorf("registry_path is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.CheckpointEvery < 0 {
		return fmt.Errorf("checkpoint_every must not be negative")
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
