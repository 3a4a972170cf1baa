package database

import (
	"fmt"
	"path/filepath"

	"petmed-go/internal/config"
)

// NewRecordStoreFromConfig creates an (unopened) RecordStore based on the
// database config type.
func NewRecordStoreFromConfig(cfg config.DatabaseConfig) (*RecordStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		return NewRecordStore(filepath.Join(cfg.DataDir, "petmed.db")), nil
	case "memory":
		return NewRecordStore(":memory:"), nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
