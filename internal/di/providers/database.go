package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/elisereads/elisereads-server/internal/config"
	"github.com/elisereads/elisereads-server/internal/logger"
	"github.com/elisereads/elisereads-server/internal/store"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
)

// DatabaseHandle wraps the SQLite content store with shutdown capability.
type DatabaseHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *DatabaseHandle) Shutdown() error {
	return h.Close()
}

// ProvideDatabase opens the SQLite database holding all content.
func ProvideDatabase(i do.Injector) (*DatabaseHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Data.BasePath, "elisereads.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Info("Database opened", "path", dbPath)

	return &DatabaseHandle{Store: db}, nil
}

// SessionStoreHandle wraps the Badger session store with shutdown capability.
type SessionStoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *SessionStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideSessionStore opens the Badger store holding refresh-token sessions.
func ProvideSessionStore(i do.Injector) (*SessionStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	sessionsPath := filepath.Join(cfg.Data.BasePath, "sessions")
	sessions, err := store.New(sessionsPath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	return &SessionStoreHandle{Store: sessions}, nil
}
