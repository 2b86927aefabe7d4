package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/id"
	"github.com/elisereads/elisereads-server/internal/media/images"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// ArtworkService manages the gallery and its art series.
type ArtworkService struct {
	store     *sqlite.Store
	blobs     blob.Store
	publicURL string
	search    *SearchService
	validator *validation.Validator
	logger    *slog.Logger
	now       clock
}

// NewArtworkService creates a new artwork service. publicURL is the prefix
// uploaded blobs are served under.
func NewArtworkService(
	store *sqlite.Store,
	blobs blob.Store,
	publicURL string,
	searchService *SearchService,
	validator *validation.Validator,
	logger *slog.Logger,
) *ArtworkService {
	return &ArtworkService{
		store:     store,
		blobs:     blobs,
		publicURL: publicURL,
		search:    searchService,
		validator: validator,
		logger:    discardLogger(logger),
		now:       time.Now,
	}
}

// CreateArtworkRequest is the input of Create. Either ImageURL or
// StorageID must be given.
type CreateArtworkRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=200"`
	Description string   `json:"description,omitempty" validate:"max=5000"`
	ImageURL    string   `json:"imageUrl,omitempty" validate:"max=2048"`
	StorageID   string   `json:"storageId,omitempty" validate:"max=64"`
	Style       string   `json:"style,omitempty" validate:"max=100"`
	Medium      string   `json:"medium,omitempty" validate:"max=100"`
	SeriesID    string   `json:"seriesId,omitempty" validate:"max=64"`
	Tags        []string `json:"tags,omitempty" validate:"max=30,dive,notblank,max=50"`
	IsPublished bool     `json:"isPublished" required:"false"`
}

// UpdateArtworkRequest patches an artwork.
type UpdateArtworkRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	ImageURL    *string   `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	StorageID   *string   `json:"storageId,omitempty" validate:"omitempty,max=64"`
	Style       *string   `json:"style,omitempty" validate:"omitempty,max=100"`
	Medium      *string   `json:"medium,omitempty" validate:"omitempty,max=100"`
	SeriesID    *string   `json:"seriesId,omitempty" validate:"omitempty,max=64"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=30,dive,notblank,max=50"`
	IsPublished *bool     `json:"isPublished,omitempty"`
}

// CreateSeriesRequest is the input of CreateSeries.
type CreateSeriesRequest struct {
	Title         string `json:"title" validate:"required,notblank,max=200"`
	Description   string `json:"description,omitempty" validate:"max=5000"`
	CoverImageURL string `json:"coverImageUrl,omitempty" validate:"max=2048"`
}

// UpdateSeriesRequest patches a series.
type UpdateSeriesRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	CoverImageURL *string `json:"coverImageUrl,omitempty" validate:"omitempty,max=2048"`
	IsComplete    *bool   `json:"isComplete,omitempty"`
}

// ListPublished returns published artworks, newest first. A limit <= 0
// returns all of them.
func (s *ArtworkService) ListPublished(ctx context.Context, limit int) ([]*domain.Artwork, error) {
	return s.list(ctx, sqlite.ArtworkFilter{PublishedOnly: true, Limit: limit})
}

// ListAll returns every artwork, newest first.
func (s *ArtworkService) ListAll(ctx context.Context) ([]*domain.Artwork, error) {
	return s.list(ctx, sqlite.ArtworkFilter{})
}

// ListBySeries returns the artworks of one series, newest first.
func (s *ArtworkService) ListBySeries(ctx context.Context, seriesID string) ([]*domain.Artwork, error) {
	return s.list(ctx, sqlite.ArtworkFilter{SeriesID: seriesID})
}

func (s *ArtworkService) list(ctx context.Context, f sqlite.ArtworkFilter) ([]*domain.Artwork, error) {
	artworks, err := s.store.ListArtworks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list artworks: %w", err)
	}
	return artworks, nil
}

// Get returns one artwork.
func (s *ArtworkService) Get(ctx context.Context, artworkID string) (*domain.Artwork, error) {
	return s.store.GetArtwork(ctx, artworkID)
}

// Create adds an artwork with zero likes. An uploaded image fills in the
// image URL when none was given, and its BlurHash is stored.
func (s *ArtworkService) Create(ctx context.Context, userID string, req CreateArtworkRequest) (*domain.Artwork, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.ImageURL == "" && req.StorageID == "" {
		return nil, domainerrors.ValidationWithDetails("imageUrl or storageId is required",
			map[string]string{"imageUrl": "is required when storageId is empty"})
	}
	if err := s.checkSeries(ctx, req.SeriesID); err != nil {
		return nil, err
	}

	artworkID, err := id.Generate(id.PrefixArtwork)
	if err != nil {
		return nil, fmt.Errorf("generate artwork ID: %w", err)
	}

	artwork := &domain.Artwork{
		ID:          artworkID,
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StorageID:   req.StorageID,
		Style:       req.Style,
		Medium:      req.Medium,
		SeriesID:    req.SeriesID,
		Tags:        cleanTags(req.Tags),
		IsPublished: req.IsPublished,
		Likes:       0,
		CreatedAt:   s.now(),
	}
	if artwork.StorageID != "" {
		if err := s.attachImage(ctx, artwork, req.ImageURL == ""); err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateArtwork(ctx, artwork); err != nil {
		return nil, fmt.Errorf("create artwork: %w", err)
	}
	s.search.IndexArtwork(artwork)

	s.logger.Info("artwork created", "artwork_id", artwork.ID, "published", artwork.IsPublished)
	return artwork, nil
}

// Update patches an artwork. A new storage ID refreshes the BlurHash and,
// unless an image URL is given alongside it, the image URL.
func (s *ArtworkService) Update(ctx context.Context, artworkID string, req UpdateArtworkRequest) (*domain.Artwork, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	artwork, err := s.store.GetArtwork(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if req.SeriesID != nil {
		if err := s.checkSeries(ctx, *req.SeriesID); err != nil {
			return nil, err
		}
	}

	previousStorageID := artwork.StorageID
	patch := domain.ArtworkPatch{
		Title:       trimmed(req.Title),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StorageID:   req.StorageID,
		Style:       req.Style,
		Medium:      req.Medium,
		SeriesID:    req.SeriesID,
		IsPublished: req.IsPublished,
	}
	if req.Tags != nil {
		tags := cleanTags(*req.Tags)
		patch.Tags = &tags
	}
	patch.Apply(artwork)

	switch {
	case artwork.StorageID == "":
		artwork.BlurHash = ""
	case artwork.StorageID != previousStorageID:
		if err := s.attachImage(ctx, artwork, req.ImageURL == nil); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateArtwork(ctx, artwork); err != nil {
		return nil, err
	}
	s.search.IndexArtwork(artwork)
	return artwork, nil
}

// Remove deletes an artwork's uploaded image, then the artwork. A blob
// that is already gone does not stop the removal.
func (s *ArtworkService) Remove(ctx context.Context, artworkID string) error {
	artwork, err := s.store.GetArtwork(ctx, artworkID)
	if err != nil {
		return err
	}

	if artwork.StorageID != "" {
		if err := s.blobs.Delete(ctx, artwork.StorageID); err != nil && !errors.Is(err, blob.ErrInvalidKey) {
			return fmt.Errorf("delete artwork image: %w", err)
		}
	}
	if err := s.store.DeleteArtwork(ctx, artworkID); err != nil {
		return err
	}
	s.search.Remove(artworkID)

	s.logger.Info("artwork removed", "artwork_id", artworkID)
	return nil
}

// Like increments the like counter and returns the new count.
func (s *ArtworkService) Like(ctx context.Context, artworkID string) (int, error) {
	return s.store.LikeArtwork(ctx, artworkID)
}

// ListSeries returns every art series, newest first.
func (s *ArtworkService) ListSeries(ctx context.Context) ([]*domain.ArtSeries, error) {
	series, err := s.store.ListSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	return series, nil
}

// GetSeries returns one art series.
func (s *ArtworkService) GetSeries(ctx context.Context, seriesID string) (*domain.ArtSeries, error) {
	return s.store.GetSeries(ctx, seriesID)
}

// CreateSeries adds an open (incomplete) series.
func (s *ArtworkService) CreateSeries(ctx context.Context, userID string, req CreateSeriesRequest) (*domain.ArtSeries, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	seriesID, err := id.Generate(id.PrefixSeries)
	if err != nil {
		return nil, fmt.Errorf("generate series ID: %w", err)
	}
	series := &domain.ArtSeries{
		ID:            seriesID,
		UserID:        userID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		IsComplete:    false,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateSeries(ctx, series); err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	s.search.IndexSeries(series)
	return series, nil
}

// UpdateSeries patches a series.
func (s *ArtworkService) UpdateSeries(ctx context.Context, seriesID string, req UpdateSeriesRequest) (*domain.ArtSeries, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	series, err := s.store.GetSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	patch := domain.ArtSeriesPatch{
		Title:         trimmed(req.Title),
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		IsComplete:    req.IsComplete,
	}
	patch.Apply(series)

	if err := s.store.UpdateSeries(ctx, series); err != nil {
		return nil, err
	}
	s.search.IndexSeries(series)
	return series, nil
}

// RemoveSeries deletes a series. Its artworks stay in the gallery without
// a series.
func (s *ArtworkService) RemoveSeries(ctx context.Context, seriesID string) error {
	detached, err := s.store.DeleteSeries(ctx, seriesID)
	if err != nil {
		return err
	}
	s.search.Remove(seriesID)

	for _, artworkID := range detached {
		artwork, err := s.store.GetArtwork(ctx, artworkID)
		if err != nil {
			s.logger.Warn("failed to reload detached artwork", "artwork_id", artworkID, "error", err)
			continue
		}
		s.search.IndexArtwork(artwork)
	}

	s.logger.Info("series removed", "series_id", seriesID, "detached_artworks", len(detached))
	return nil
}

func (s *ArtworkService) checkSeries(ctx context.Context, seriesID string) error {
	if seriesID == "" {
		return nil
	}
	if _, err := s.store.GetSeries(ctx, seriesID); err != nil {
		if isNotFound(err) {
			return domainerrors.ValidationWithDetails("Series not found",
				map[string]string{"seriesId": "does not reference an existing series"})
		}
		return err
	}
	return nil
}

// attachImage loads the uploaded blob behind a.StorageID, stores its
// BlurHash and, when setURL is true, points ImageURL at it.
func (s *ArtworkService) attachImage(ctx context.Context, a *domain.Artwork, setURL bool) error {
	obj, err := s.blobs.Get(ctx, a.StorageID)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidKey) {
			return domainerrors.ValidationWithDetails("storageId does not reference an uploaded image",
				map[string]string{"storageId": "is unknown"})
		}
		return fmt.Errorf("load artwork image: %w", err)
	}

	info, err := images.Inspect(obj.Data)
	if err != nil {
		s.logger.Warn("stored artwork image could not be decoded", "storage_id", a.StorageID, "error", err)
		a.BlurHash = ""
	} else {
		a.BlurHash = info.BlurHash
	}

	if setURL {
		a.ImageURL = blob.URL(s.publicURL, a.StorageID)
	}
	return nil
}

func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
