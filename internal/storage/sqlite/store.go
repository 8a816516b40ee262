// Package sqlite persists the logbook's key-value store in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"mileage-logbook/internal/storage"
)

// Options tunes the store. Zero timeouts fall back to the defaults.
type Options struct {
	QueryTimeout   time.Duration
	WriteTimeout   time.Duration
	DirPermissions os.FileMode
}

const (
	defaultQueryTimeout = 10 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

// Store implements storage.Store on a single kv table
type Store struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
	writeTimeout time.Duration
	now          func() time.Time
}

var _ storage.Store = (*Store)(nil)

// Open creates the database directory if needed, runs migrations and opens the store.
func Open(dbPath string, opts Options) (*Store, error) {
	perms := opts.DirPermissions
	if perms == 0 {
		perms = 0o755
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), perms); err != nil {
		return nil, HandleDatabaseError("create database directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, HandleDatabaseError("open database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, HandleDatabaseError("ping database", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, HandleDatabaseError("run migrations", err)
	}

	s := &Store{
		db:           db,
		path:         dbPath,
		queryTimeout: opts.QueryTimeout,
		writeTimeout: opts.WriteTimeout,
		now:          time.Now,
	}
	if s.queryTimeout <= 0 {
		s.queryTimeout = defaultQueryTimeout
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = defaultWriteTimeout
	}
	return s, nil
}

// Path returns the database file backing the store
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetInt returns the integer stored under key
func (s *Store) GetInt(ctx context.Context, key string) (int, bool, error) {
	entry, err := s.get(ctx, key)
	if err != nil || entry == nil {
		return 0, false, err
	}
	return storage.DecodeInt(key, entry.Value)
}

// SetInt stores an integer under key
func (s *Store) SetInt(ctx context.Context, key string, value int) error {
	return s.put(ctx, key, storage.EncodeInt(value))
}

// GetJSON decodes the document stored under key into dst
func (s *Store) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	entry, err := s.get(ctx, key)
	if err != nil || entry == nil {
		return false, err
	}
	if err := storage.DecodeJSON(key, entry.Value, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON encodes value and stores it under key
func (s *Store) SetJSON(ctx context.Context, key string, value any) error {
	raw, err := storage.EncodeJSON(key, value)
	if err != nil {
		return err
	}
	return s.put(ctx, key, raw)
}

// Remove deletes key; removing a missing key is a no-op
func (s *Store) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	query := `DELETE FROM kv WHERE key = ?`
	return ExecuteWrite(ctx, s.db, "remove "+key, query, key)
}

// Clear deletes every key
func (s *Store) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	return ExecuteWrite(ctx, s.db, "clear store", `DELETE FROM kv`)
}

func (s *Store) get(ctx context.Context, key string) (*Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := `
	SELECT key, value, updated_at
	FROM kv
	WHERE key = ?`

	return QuerySingle(ctx, s.db, fmt.Sprintf("read %s", key), query, ScanEntry, key)
}

func (s *Store) put(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	query := `
	INSERT INTO kv (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	return ExecuteWrite(ctx, s.db, "write "+key, query, key, value, FormatTimeForDB(s.now()))
}
