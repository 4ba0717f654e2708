package history

import (
	"fmt"
	"path/filepath"

	"snapback/internal/config"
)

// FromConfig creates a history DB based on the history config type.
func FromConfig(cfg config.HistoryConfig) (*DB, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite history")
		}
		return Open(filepath.Join(cfg.DataDir, "history.db"))
	case "memory":
		return Open(":memory:")
	default:
		return nil, fmt.Errorf("unknown history type: %s", cfg.Type)
	}
}
