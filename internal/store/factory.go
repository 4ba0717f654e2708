package store

import (
	"fmt"

	"snapback/internal/backup"
	"snapback/internal/config"
)

// FromConfig creates a Store implementation based on the store config type.
// destinationPath is the filesystem root used by the default backend.
func FromConfig(cfg config.StoreConfig, destinationPath string) (backup.Store, error) {
	switch cfg.Type {
	case "filesystem", "":
		return NewFileSystemStore(destinationPath)
	case "s3":
		return NewS3Store(cfg)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
