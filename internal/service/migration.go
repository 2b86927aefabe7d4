package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
)

// MigrationService finds and reassigns content attributed to accounts
// other than the owner, such as records imported from an older install.
type MigrationService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewMigrationService creates a new migration service.
func NewMigrationService(store *sqlite.Store, logger *slog.Logger) *MigrationService {
	return &MigrationService{store: store, logger: discardLogger(logger)}
}

// CheckOrphans reports the books, artworks and series not attributed to userID.
func (s *MigrationService) CheckOrphans(ctx context.Context, userID string) (*domain.OrphanReport, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	report, err := s.store.OrphanReport(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("orphan report: %w", err)
	}
	return report, nil
}

// ClaimOrphans reassigns every orphaned record to userID in one transaction.
func (s *MigrationService) ClaimOrphans(ctx context.Context, userID string) (*domain.ClaimResult, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	result, err := s.store.ClaimOrphans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("claim orphans: %w", err)
	}

	s.logger.Info("claimed orphaned data",
		"user_id", userID,
		"books", result.BooksUpdated,
		"artworks", result.ArtworksUpdated,
		"series", result.SeriesUpdated,
	)
	return result, nil
}

func (s *MigrationService) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return domainerrors.Validation("user id is required")
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if isNotFound(err) {
			return domainerrors.NotFoundf("user %s not found", userID)
		}
		return fmt.Errorf("get user: %w", err)
	}
	return nil
}
