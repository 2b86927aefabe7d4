package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the caller and their profile, or null data for anonymous callers",
		Tags:        []string{"Users"},
		Security:    bearer,
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMyProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/profile",
		Summary:     "Get my profile",
		Description: "Returns the caller's profile, or null data when there is none",
		Tags:        []string{"Users"},
		Security:    bearer,
	}, s.handleGetMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "createMyProfile",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/me/profile",
		Summary:     "Create my profile",
		Description: "Creates the caller's profile. Returns the existing one if it was already created.",
		Tags:        []string{"Users"},
		Security:    bearer,
	}, s.handleCreateMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMyProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/users/me/profile",
		Summary:     "Update my profile",
		Tags:        []string{"Users"},
		Security:    bearer,
	}, s.handleUpdateMyProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMyStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me/stats",
		Summary:     "Get my stats",
		Description: "Counts the books and artworks attributed to the caller",
		Tags:        []string{"Users"},
		Security:    bearer,
	}, s.handleGetMyStats)
}

// === DTOs ===

// NullableOutput carries a body that may be null data.
type NullableOutput struct {
	Body any
}

// CreateProfileInput wraps the create profile request for Huma.
type CreateProfileInput struct {
	Body service.CreateProfileRequest
}

// UpdateProfileInput wraps the update profile request for Huma.
type UpdateProfileInput struct {
	Body service.UpdateProfileRequest
}

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Body *domain.UserProfile
}

// StatsOutput wraps the caller's stats for Huma.
type StatsOutput struct {
	Body *domain.Stats
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*NullableOutput, error) {
	current, err := s.services.Profile.GetCurrentUser(ctx, optionalUserID(ctx))
	if err != nil {
		return nil, err
	}
	return &NullableOutput{Body: nullable(current)}, nil
}

func (s *Server) handleGetMyProfile(ctx context.Context, _ *struct{}) (*NullableOutput, error) {
	profile, err := s.services.Profile.GetProfile(ctx, optionalUserID(ctx))
	if err != nil {
		return nil, err
	}
	return &NullableOutput{Body: nullable(profile)}, nil
}

func (s *Server) handleCreateMyProfile(ctx context.Context, input *CreateProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.CreateProfile(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleUpdateMyProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.UpdateProfile(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleGetMyStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Profile.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Body: stats}, nil
}
