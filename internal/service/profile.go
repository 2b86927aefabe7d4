package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/id"
	"github.com/elisereads/elisereads-server/internal/normalize"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// ProfileService manages per-user profiles and reading stats.
type ProfileService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       clock
}

// NewProfileService creates a new profile service.
func NewProfileService(store *sqlite.Store, validator *validation.Validator, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:     store,
		validator: validator,
		logger:    discardLogger(logger),
		now:       time.Now,
	}
}

// CurrentUser is the signed-in account and its profile, if one exists.
type CurrentUser struct {
	User    *domain.User        `json:"user"`
	Profile *domain.UserProfile `json:"profile"`
}

// CreateProfileRequest is the input of CreateProfile.
type CreateProfileRequest struct {
	Name           string       `json:"name" validate:"required,notblank,max=100"`
	Username       string       `json:"username,omitempty" validate:"omitempty,username"`
	IsParent       bool         `json:"isParent" required:"false"`
	Theme          domain.Theme `json:"theme,omitempty" validate:"omitempty,oneof=light dark kawaii"`
	YearlyBookGoal *int         `json:"yearlyBookGoal,omitempty" validate:"omitempty,gte=1,lte=1000"`
	Notifications  *bool        `json:"notifications,omitempty"`
}

// UpdateProfileRequest patches a profile.
type UpdateProfileRequest struct {
	Name           *string       `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Username       *string       `json:"username,omitempty" validate:"omitempty,username"`
	AvatarURL      *string       `json:"avatarUrl,omitempty" validate:"omitempty,max=2048"`
	Bio            *string       `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Theme          *domain.Theme `json:"theme,omitempty" validate:"omitempty,oneof=light dark kawaii"`
	YearlyBookGoal *int          `json:"yearlyBookGoal,omitempty" validate:"omitempty,gte=1,lte=1000"`
	Notifications  *bool         `json:"notifications,omitempty"`
}

// GetCurrentUser returns the caller and their profile. An anonymous caller
// gets nil.
func (s *ProfileService) GetCurrentUser(ctx context.Context, userID string) (*CurrentUser, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CurrentUser{User: user, Profile: profile}, nil
}

// GetProfile returns the caller's profile, or nil when there is none.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		return nil, nil
	}
	profile, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// CreateProfile creates the caller's profile. A caller who already has one
// gets it back unchanged.
func (s *ProfileService) CreateProfile(ctx context.Context, userID string, req CreateProfileRequest) (*domain.UserProfile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	username, err := s.claimUsername(ctx, userID, req.Username)
	if err != nil {
		return nil, err
	}

	profileID, err := id.Generate(id.PrefixProfile)
	if err != nil {
		return nil, fmt.Errorf("generate profile ID: %w", err)
	}
	now := s.now()
	profile := &domain.UserProfile{
		ID:             profileID,
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Username:       username,
		IsParent:       req.IsParent,
		Theme:          req.Theme,
		YearlyBookGoal: req.YearlyBookGoal,
		Notifications:  req.Notifications,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		if isAlreadyExists(err) {
			return nil, domainerrors.AlreadyExists("username is already taken")
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("profile created", "user_id", userID, "profile_id", profile.ID)
	return profile, nil
}

// UpdateProfile patches the caller's profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.UserProfile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch := domain.ProfilePatch{
		Name:           trimmed(req.Name),
		AvatarURL:      req.AvatarURL,
		Bio:            req.Bio,
		Theme:          req.Theme,
		YearlyBookGoal: req.YearlyBookGoal,
		Notifications:  req.Notifications,
	}
	if req.Username != nil {
		username, err := s.claimUsername(ctx, userID, *req.Username)
		if err != nil {
			return nil, err
		}
		patch.Username = &username
	}
	patch.Apply(profile)
	profile.UpdatedAt = s.now()

	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		if isAlreadyExists(err) {
			return nil, domainerrors.AlreadyExists("username is already taken")
		}
		return nil, err
	}
	return profile, nil
}

// GetStats counts the books and artworks attributed to the caller.
func (s *ProfileService) GetStats(ctx context.Context, userID string) (*domain.Stats, error) {
	var (
		stats               *domain.Stats
		artworks, published int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.store.BookCounts(gctx, userID)
		if err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		artworks, published, err = s.store.ArtworkCounts(gctx, userID)
		if err != nil {
			return fmt.Errorf("count artworks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.TotalArtworks = artworks
	stats.PublishedArtworks = published
	return stats, nil
}

// claimUsername slugs raw and checks no other user holds it. An empty raw
// clears the username.
func (s *ProfileService) claimUsername(ctx context.Context, userID, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	username := normalize.Slug(raw)
	if username == "" {
		return "", domainerrors.ValidationWithDetails("username must contain letters or numbers",
			map[string]string{"username": "must contain letters or numbers"})
	}

	holder, err := s.store.GetProfileByUsername(ctx, username)
	switch {
	case err == nil && holder.UserID != userID:
		return "", domainerrors.AlreadyExists("username is already taken")
	case err != nil && !isNotFound(err):
		return "", fmt.Errorf("check username: %w", err)
	}
	return username, nil
}
