// Package store holds the key-value side of persistence: a BadgerDB
// instance with a generic indexed entity layer, used for auth sessions.
// Site content lives in the SQLite store under store/sqlite.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/elisereads/elisereads-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Sessions *Entity[domain.Session]
}

// New opens (or creates) the Badger database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Badger's internal logging is noisy
	opts.SyncWrites = true       // Sessions must survive a crash
	opts.CompactL0OnClose = true // Faster next startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{db: db, logger: logger}
	s.initSessions()

	logger.Info("session store opened", "path", path)
	return s, nil
}

// Close gracefully closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger db: %w", err)
	}
	return nil
}

// Ping reports whether the database is open and accepting transactions.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return fmt.Errorf("badger db is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}
