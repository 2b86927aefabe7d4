package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/search"
	"github.com/elisereads/elisereads-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search",
		Description: "Full-text search across books, published artworks and art series",
		Tags:        []string{"Search"},
		Middlewares: huma.Middlewares{s.rateLimit(s.limiters.Public)},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching the site.
type SearchInput struct {
	Query  string `query:"q" maxLength:"200" doc:"Search query. Empty lists everything, newest first."`
	Types  string `query:"types" maxLength:"100" doc:"Comma-separated types to search (book,artwork,series). Omit for all."`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset int    `query:"offset" minimum:"0" doc:"Pagination offset (default 0)"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.Result
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	result, err := s.services.Search.Query(ctx, service.QueryRequest{
		Query:  input.Query,
		Types:  input.Types,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: result}, nil
}
