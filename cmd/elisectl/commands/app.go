package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/config"
	"github.com/elisereads/elisereads-server/internal/logger"
	"github.com/elisereads/elisereads-server/internal/search"
	"github.com/elisereads/elisereads-server/internal/service"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// app holds the stores and services a command works with.
type app struct {
	cfg   *config.Config
	db    *sqlite.Store
	index *search.Index
	blobs blob.Store
	log   *slog.Logger

	search     *service.SearchService
	books      *service.BookService
	artworks   *service.ArtworkService
	goals      *service.GoalService
	settings   *service.SettingsService
	migrations *service.MigrationService
}

// openApp loads configuration and opens the data directory. Only the
// --data-path flag is forwarded; everything else comes from the environment.
func openApp(ctx context.Context) (*app, error) {
	var args []string
	if dataPath != "" {
		args = append(args, "-data-path", dataPath)
	}
	cfg, err := config.Load(args)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg)
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		log = logger.New(logger.Config{
			Writer:      os.Stderr,
			Level:       logger.ParseLevel("debug"),
			Environment: cfg.App.Environment,
		}).Logger
	}

	dbPath := filepath.Join(cfg.Data.BasePath, "elisereads.db")
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no database at %s: %w", dbPath, err)
	}

	db, err := sqlite.Open(dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	index, err := search.Open(search.Options{DataPath: cfg.Data.BasePath, Logger: log})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open search index: %w", err)
	}

	var blobs blob.Store
	if cfg.Storage.Driver == config.StorageDriverS3 {
		blobs, err = blob.NewS3(ctx, blob.S3Config{
			Bucket:          cfg.Storage.S3.Bucket,
			Region:          cfg.Storage.S3.Region,
			Endpoint:        cfg.Storage.S3.Endpoint,
			AccessKeyID:     cfg.Storage.S3.AccessKeyID,
			SecretAccessKey: cfg.Storage.S3.SecretAccessKey,
		})
	} else {
		blobs, err = blob.NewFilesystem(filepath.Join(cfg.Data.BasePath, "uploads"))
	}
	if err != nil {
		_ = index.Close()
		_ = db.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	v := validation.New()
	searchService := service.NewSearchService(index, db, log)

	return &app{
		cfg:        cfg,
		db:         db,
		index:      index,
		blobs:      blobs,
		log:        log,
		search:     searchService,
		books:      service.NewBookService(db, blobs, searchService, v, log),
		artworks:   service.NewArtworkService(db, blobs, cfg.Storage.PublicURL, searchService, v, log),
		goals:      service.NewGoalService(db, v, log),
		settings:   service.NewSettingsService(db, cfg.Storage.PublicURL, v, log),
		migrations: service.NewMigrationService(db, log),
	}, nil
}

// Close releases the index and the database.
func (a *app) Close() error {
	return errors.Join(a.index.Close(), a.db.Close())
}
