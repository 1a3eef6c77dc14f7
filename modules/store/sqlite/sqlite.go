// Package sqlite implements persistent fact, journal, and session snapshot
// storage backed by modernc.org/sqlite (pure Go, no CGO) with WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/solacelabs/solace/internal/recall"

	_ "modernc.org/sqlite" // SQLite driver registration
)

const defaultBusyTimeout = 5000 // milliseconds

// Config configures the store.
type Config struct {
	// Path is the database file. Parent directories are created.
	Path string

	// MaxFacts caps the fact table; the oldest facts are evicted beyond
	// it. 0 uses recall.DefaultMaxFacts.
	MaxFacts int

	// BusyTimeout is the SQLite busy_timeout in milliseconds.
	BusyTimeout int
}

func (cfg Config) withDefaults() Config {
	if cfg.MaxFacts == 0 {
		cfg.MaxFacts = recall.DefaultMaxFacts
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = defaultBusyTimeout
	}
	return cfg
}

// Store owns the database handle and hands out the typed store views.
type Store struct {
	db        *sql.DB
	facts     *factStore
	journal   *journalStore
	snapshots *SnapshotStore
}

// Open opens (creating if needed) the database at cfg.Path and migrates
// the schema.
//
// The database uses WAL mode, a busy timeout, and a single connection
// (SQLite serialises writes).
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}
	cfg = cfg.withDefaults()

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}

	db.SetMaxOpenConns(1)

	ctx := context.TODO()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.BusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: set busy_timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:        db,
		facts:     &factStore{db: db, maxFacts: cfg.MaxFacts},
		journal:   &journalStore{db: db},
		snapshots: &SnapshotStore{db: db},
	}, nil
}

// Facts returns the persistent fact store.
func (s *Store) Facts() recall.FactStore { return s.facts }

// Journal returns the persistent journal store.
func (s *Store) Journal() recall.JournalStore { return s.journal }

// Snapshots returns the session snapshot store.
func (s *Store) Snapshots() *SnapshotStore { return s.snapshots }

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
