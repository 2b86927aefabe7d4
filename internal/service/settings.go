package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// SettingsService reads and writes the public site copy.
type SettingsService struct {
	store     *sqlite.Store
	publicURL string
	validator *validation.Validator
	logger    *slog.Logger
	now       clock
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store *sqlite.Store, publicURL string, validator *validation.Validator, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:     store,
		publicURL: publicURL,
		validator: validator,
		logger:    discardLogger(logger),
		now:       time.Now,
	}
}

// UpdateSettingsRequest patches the site settings.
type UpdateSettingsRequest struct {
	SiteName           *string `json:"siteName,omitempty" validate:"omitempty,max=100"`
	HeroTitle          *string `json:"heroTitle,omitempty" validate:"omitempty,max=200"`
	HeroSubtitle       *string `json:"heroSubtitle,omitempty" validate:"omitempty,max=200"`
	HeroDescription    *string `json:"heroDescription,omitempty" validate:"omitempty,max=2000"`
	HeroImageURL       *string `json:"heroImageUrl,omitempty" validate:"omitempty,max=2048"`
	HeroImageStorageID *string `json:"heroImageStorageId,omitempty" validate:"omitempty,max=64"`
}

// Get returns the site settings with defaults filled in.
func (s *SettingsService) Get(ctx context.Context) (*domain.SiteSettings, error) {
	stored, err := s.store.GetSiteSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get site settings: %w", err)
	}
	return stored.WithDefaults(), nil
}

// Update patches and saves the settings. Setting a hero storage ID without
// a hero URL points the URL at the uploaded image.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*domain.SiteSettings, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	stored, err := s.store.GetSiteSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get site settings: %w", err)
	}
	if stored == nil {
		stored = &domain.SiteSettings{}
	}

	patch := domain.SiteSettingsPatch{
		SiteName:           req.SiteName,
		HeroTitle:          req.HeroTitle,
		HeroSubtitle:       req.HeroSubtitle,
		HeroDescription:    req.HeroDescription,
		HeroImageURL:       req.HeroImageURL,
		HeroImageStorageID: req.HeroImageStorageID,
	}
	if req.HeroImageStorageID != nil && *req.HeroImageStorageID != "" && req.HeroImageURL == nil {
		u := blob.URL(s.publicURL, *req.HeroImageStorageID)
		patch.HeroImageURL = &u
	}
	patch.Apply(stored)
	stored.UpdatedAt = s.now()

	if err := s.store.SaveSiteSettings(ctx, stored); err != nil {
		return nil, fmt.Errorf("save site settings: %w", err)
	}
	s.logger.Info("site settings updated")
	return stored.WithDefaults(), nil
}
