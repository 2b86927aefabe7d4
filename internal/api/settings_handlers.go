package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSiteSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/site-settings",
		Summary:     "Get site settings",
		Description: "Returns the site name and hero copy, with defaults for anything unset",
		Tags:        []string{"Settings"},
	}, s.handleGetSiteSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSiteSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/site-settings",
		Summary:     "Update site settings",
		Tags:        []string{"Settings"},
		Security:    bearer,
	}, s.handleUpdateSiteSettings)
}

// SiteSettingsOutput wraps the site settings for Huma.
type SiteSettingsOutput struct {
	Body *domain.SiteSettings
}

// UpdateSiteSettingsInput wraps the settings patch for Huma.
type UpdateSiteSettingsInput struct {
	Body service.UpdateSettingsRequest
}

func (s *Server) handleGetSiteSettings(ctx context.Context, _ *struct{}) (*SiteSettingsOutput, error) {
	settings, err := s.services.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &SiteSettingsOutput{Body: settings}, nil
}

func (s *Server) handleUpdateSiteSettings(ctx context.Context, input *UpdateSiteSettingsInput) (*SiteSettingsOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.Update(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &SiteSettingsOutput{Body: settings}, nil
}
