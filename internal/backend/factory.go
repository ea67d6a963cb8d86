// Package backend selects and constructs the key-value store backend.
package backend

import (
	"fmt"
	"log/slog"

	"feira/internal/kv"
	"feira/internal/storage"
)

// Type identifies a store backend.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) IsValid() bool {
	return t == MemoryBackend || t == SQLiteBackend
}

// Config carries what the factory needs to build a store.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Result is a constructed store plus its cleanup, nil when none is needed.
type Result struct {
	Store   kv.Store
	Cleanup func() error
}

// Factory builds kv.Store instances from configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the configured backend.
func (f *Factory) CreateStore(config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil
	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: kv.NewMemory(), Cleanup: nil}, nil
	}
}
