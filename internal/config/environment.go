package config

import (
	"fmt"
	"os"
	"path/filepath"

	"mileage-logbook/internal/storage"
	"mileage-logbook/internal/storage/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment reads LB_ENV. Unknown or empty values mean production.
func GetEnvironment() Environment {
	switch Environment(os.Getenv("LB_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// StoreFactory creates stores based on environment
type StoreFactory struct {
	env    Environment
	config *Config
}

// NewStoreFactory creates a new store factory for the given environment
func NewStoreFactory(env Environment, config *Config) *StoreFactory {
	return &StoreFactory{env: env, config: config}
}

// CreateStore creates a store instance based on the current environment
func (f *StoreFactory) CreateStore() (storage.Store, error) {
	switch f.env {
	case Testing:
		return storage.NewMemoryStore(), nil
	case Development:
		return f.openSQLite(filepath.Join(".", f.config.Database.Filename), "development")
	default:
		return f.openSQLite(f.config.GetDatabasePath(), "production")
	}
}

func (f *StoreFactory) openSQLite(path, label string) (storage.Store, error) {
	store, err := sqlite.Open(path, sqlite.Options{
		QueryTimeout:   f.config.Database.QueryTimeout,
		WriteTimeout:   f.config.Database.WriteTimeout,
		DirPermissions: os.FileMode(f.config.Database.DirPermissions),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database: %w", label, err)
	}
	return store, nil
}
