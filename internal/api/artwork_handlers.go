package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/service"
)

func (s *Server) registerArtworkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPublishedArtworks",
		Method:      http.MethodGet,
		Path:        "/api/v1/artworks/published",
		Summary:     "List published artworks",
		Description: "Returns published artworks newest first. A limit of zero or less returns all.",
		Tags:        []string{"Artworks"},
	}, s.handleListPublishedArtworks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listArtworks",
		Method:      http.MethodGet,
		Path:        "/api/v1/artworks",
		Summary:     "List artworks",
		Description: "Returns every artwork, published or not, newest first",
		Tags:        []string{"Artworks"},
	}, s.handleListArtworks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getArtwork",
		Method:      http.MethodGet,
		Path:        "/api/v1/artworks/{id}",
		Summary:     "Get artwork",
		Tags:        []string{"Artworks"},
	}, s.handleGetArtwork)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createArtwork",
		Method:        http.MethodPost,
		Path:          "/api/v1/artworks",
		Summary:       "Create artwork",
		Description:   "Creates an artwork from an image URL or an uploaded storage ID",
		Tags:          []string{"Artworks"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateArtwork)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateArtwork",
		Method:      http.MethodPatch,
		Path:        "/api/v1/artworks/{id}",
		Summary:     "Update artwork",
		Tags:        []string{"Artworks"},
		Security:    bearer,
	}, s.handleUpdateArtwork)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeArtwork",
		Method:        http.MethodDelete,
		Path:          "/api/v1/artworks/{id}",
		Summary:       "Remove artwork",
		Description:   "Deletes the artwork and its uploaded image",
		Tags:          []string{"Artworks"},
		Security:      bearer,
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveArtwork)

	huma.Register(s.api, huma.Operation{
		OperationID: "likeArtwork",
		Method:      http.MethodPost,
		Path:        "/api/v1/artworks/{id}/like",
		Summary:     "Like artwork",
		Description: "Adds one like and returns the new count",
		Tags:        []string{"Artworks"},
		Middlewares: huma.Middlewares{s.rateLimit(s.limiters.Public)},
	}, s.handleLikeArtwork)
}

func (s *Server) registerSeriesRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSeries",
		Method:      http.MethodGet,
		Path:        "/api/v1/series",
		Summary:     "List art series",
		Tags:        []string{"Series"},
	}, s.handleListSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSeries",
		Method:      http.MethodGet,
		Path:        "/api/v1/series/{id}",
		Summary:     "Get art series",
		Tags:        []string{"Series"},
	}, s.handleGetSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSeriesArtworks",
		Method:      http.MethodGet,
		Path:        "/api/v1/series/{id}/artworks",
		Summary:     "List series artworks",
		Tags:        []string{"Series"},
	}, s.handleListSeriesArtworks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createSeries",
		Method:        http.MethodPost,
		Path:          "/api/v1/series",
		Summary:       "Create art series",
		Tags:          []string{"Series"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSeries)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSeries",
		Method:      http.MethodPatch,
		Path:        "/api/v1/series/{id}",
		Summary:     "Update art series",
		Tags:        []string{"Series"},
		Security:    bearer,
	}, s.handleUpdateSeries)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeSeries",
		Method:        http.MethodDelete,
		Path:          "/api/v1/series/{id}",
		Summary:       "Remove art series",
		Description:   "Deletes the series. Its artworks are kept and detached.",
		Tags:          []string{"Series"},
		Security:      bearer,
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveSeries)
}

// === DTOs ===

// ListPublishedInput caps the published list.
type ListPublishedInput struct {
	Limit int `query:"limit" doc:"Maximum number of artworks, 0 for all"`
}

// ArtworkIDInput addresses one artwork.
type ArtworkIDInput struct {
	ID string `path:"id" doc:"Artwork ID"`
}

// ArtworksOutput wraps a list of artworks for Huma.
type ArtworksOutput struct {
	Body []*domain.Artwork
}

// ArtworkOutput wraps an artwork for Huma.
type ArtworkOutput struct {
	Body *domain.Artwork
}

// CreateArtworkInput wraps the create artwork request for Huma.
type CreateArtworkInput struct {
	Body service.CreateArtworkRequest
}

// UpdateArtworkInput wraps the update artwork request for Huma.
type UpdateArtworkInput struct {
	ID   string `path:"id" doc:"Artwork ID"`
	Body service.UpdateArtworkRequest
}

// LikesResponse carries the like count after a like.
type LikesResponse struct {
	Likes int `json:"likes"`
}

// LikesOutput wraps the like count for Huma.
type LikesOutput struct {
	Body LikesResponse
}

// SeriesIDInput addresses one art series.
type SeriesIDInput struct {
	ID string `path:"id" doc:"Series ID"`
}

// SeriesListOutput wraps a list of series for Huma.
type SeriesListOutput struct {
	Body []*domain.ArtSeries
}

// SeriesOutput wraps a series for Huma.
type SeriesOutput struct {
	Body *domain.ArtSeries
}

// CreateSeriesInput wraps the create series request for Huma.
type CreateSeriesInput struct {
	Body service.CreateSeriesRequest
}

// UpdateSeriesInput wraps the update series request for Huma.
type UpdateSeriesInput struct {
	ID   string `path:"id" doc:"Series ID"`
	Body service.UpdateSeriesRequest
}

// === Handlers ===

func (s *Server) handleListPublishedArtworks(ctx context.Context, input *ListPublishedInput) (*ArtworksOutput, error) {
	artworks, err := s.services.Artwork.ListPublished(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &ArtworksOutput{Body: artworks}, nil
}

func (s *Server) handleListArtworks(ctx context.Context, _ *struct{}) (*ArtworksOutput, error) {
	artworks, err := s.services.Artwork.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &ArtworksOutput{Body: artworks}, nil
}

func (s *Server) handleGetArtwork(ctx context.Context, input *ArtworkIDInput) (*ArtworkOutput, error) {
	artwork, err := s.services.Artwork.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ArtworkOutput{Body: artwork}, nil
}

func (s *Server) handleCreateArtwork(ctx context.Context, input *CreateArtworkInput) (*ArtworkOutput, error) {
	userID, err := RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	artwork, err := s.services.Artwork.Create(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ArtworkOutput{Body: artwork}, nil
}

func (s *Server) handleUpdateArtwork(ctx context.Context, input *UpdateArtworkInput) (*ArtworkOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	artwork, err := s.services.Artwork.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &ArtworkOutput{Body: artwork}, nil
}

func (s *Server) handleRemoveArtwork(ctx context.Context, input *ArtworkIDInput) (*struct{}, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Artwork.Remove(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleLikeArtwork(ctx context.Context, input *ArtworkIDInput) (*LikesOutput, error) {
	likes, err := s.services.Artwork.Like(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LikesOutput{Body: LikesResponse{Likes: likes}}, nil
}

func (s *Server) handleListSeries(ctx context.Context, _ *struct{}) (*SeriesListOutput, error) {
	series, err := s.services.Artwork.ListSeries(ctx)
	if err != nil {
		return nil, err
	}
	return &SeriesListOutput{Body: series}, nil
}

func (s *Server) handleGetSeries(ctx context.Context, input *SeriesIDInput) (*SeriesOutput, error) {
	series, err := s.services.Artwork.GetSeries(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SeriesOutput{Body: series}, nil
}

func (s *Server) handleListSeriesArtworks(ctx context.Context, input *SeriesIDInput) (*ArtworksOutput, error) {
	artworks, err := s.services.Artwork.ListBySeries(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ArtworksOutput{Body: artworks}, nil
}

func (s *Server) handleCreateSeries(ctx context.Context, input *CreateSeriesInput) (*SeriesOutput, error) {
	userID, err := RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	series, err := s.services.Artwork.CreateSeries(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &SeriesOutput{Body: series}, nil
}

func (s *Server) handleUpdateSeries(ctx context.Context, input *UpdateSeriesInput) (*SeriesOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	series, err := s.services.Artwork.UpdateSeries(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &SeriesOutput{Body: series}, nil
}

func (s *Server) handleRemoveSeries(ctx context.Context, input *SeriesIDInput) (*struct{}, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Artwork.RemoveSeries(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
