package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/service"
)

func (s *Server) registerSuggestionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions",
		Summary:     "List suggestions",
		Tags:        []string{"Suggestions"},
		Security:    bearer,
	}, s.handleListSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPendingSuggestions",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions/pending",
		Summary:     "List pending suggestions",
		Tags:        []string{"Suggestions"},
		Security:    bearer,
	}, s.handleListPendingSuggestions)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkSuggestion",
		Method:      http.MethodGet,
		Path:        "/api/v1/suggestions/check",
		Summary:     "Check for duplicates",
		Description: "Reports whether a book is already on the shelf or already suggested",
		Tags:        []string{"Suggestions"},
	}, s.handleCheckSuggestion)

	huma.Register(s.api, huma.Operation{
		OperationID:   "submitSuggestion",
		Method:        http.MethodPost,
		Path:          "/api/v1/suggestions",
		Summary:       "Suggest a book",
		Tags:          []string{"Suggestions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.rateLimit(s.limiters.Public)},
	}, s.handleSubmitSuggestion)

	huma.Register(s.api, huma.Operation{
		OperationID: "approveSuggestion",
		Method:      http.MethodPost,
		Path:        "/api/v1/suggestions/{id}/approve",
		Summary:     "Approve suggestion",
		Tags:        []string{"Suggestions"},
		Security:    bearer,
	}, s.handleApproveSuggestion)

	huma.Register(s.api, huma.Operation{
		OperationID: "rejectSuggestion",
		Method:      http.MethodPost,
		Path:        "/api/v1/suggestions/{id}/reject",
		Summary:     "Reject suggestion",
		Tags:        []string{"Suggestions"},
		Security:    bearer,
	}, s.handleRejectSuggestion)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeSuggestion",
		Method:        http.MethodDelete,
		Path:          "/api/v1/suggestions/{id}",
		Summary:       "Remove suggestion",
		Tags:          []string{"Suggestions"},
		Security:      bearer,
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveSuggestion)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addSuggestionToBooks",
		Method:        http.MethodPost,
		Path:          "/api/v1/suggestions/{id}/add-to-books",
		Summary:       "Add suggestion to wishlist",
		Description:   "Creates a wishlist book from the suggestion and approves it",
		Tags:          []string{"Suggestions"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddSuggestionToBooks)
}

// === DTOs ===

// SuggestionsOutput wraps a list of suggestions for Huma.
type SuggestionsOutput struct {
	Body []*domain.BookSuggestion
}

// SuggestionOutput wraps a suggestion for Huma.
type SuggestionOutput struct {
	Body *domain.BookSuggestion
}

// CheckSuggestionInput names the book to look for.
type CheckSuggestionInput struct {
	Title  string `query:"title" doc:"Book title"`
	Author string `query:"author" doc:"Book author"`
}

// DuplicateCheckOutput wraps the duplicate check for Huma.
type DuplicateCheckOutput struct {
	Body *domain.DuplicateCheck
}

// SubmitSuggestionInput wraps a visitor's suggestion for Huma.
type SubmitSuggestionInput struct {
	Body service.SubmitSuggestionRequest
}

// SuggestionIDInput addresses one suggestion.
type SuggestionIDInput struct {
	ID string `path:"id" doc:"Suggestion ID"`
}

// === Handlers ===

func (s *Server) handleListSuggestions(ctx context.Context, _ *struct{}) (*SuggestionsOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	suggestions, err := s.services.Suggestion.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &SuggestionsOutput{Body: suggestions}, nil
}

func (s *Server) handleListPendingSuggestions(ctx context.Context, _ *struct{}) (*SuggestionsOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	suggestions, err := s.services.Suggestion.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return &SuggestionsOutput{Body: suggestions}, nil
}

func (s *Server) handleCheckSuggestion(ctx context.Context, input *CheckSuggestionInput) (*DuplicateCheckOutput, error) {
	check, err := s.services.Suggestion.CheckDuplicate(ctx, input.Title, input.Author)
	if err != nil {
		return nil, err
	}
	return &DuplicateCheckOutput{Body: check}, nil
}

func (s *Server) handleSubmitSuggestion(ctx context.Context, input *SubmitSuggestionInput) (*SuggestionOutput, error) {
	suggestion, err := s.services.Suggestion.Submit(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &SuggestionOutput{Body: suggestion}, nil
}

func (s *Server) handleApproveSuggestion(ctx context.Context, input *SuggestionIDInput) (*SuggestionOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	suggestion, err := s.services.Suggestion.Approve(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SuggestionOutput{Body: suggestion}, nil
}

func (s *Server) handleRejectSuggestion(ctx context.Context, input *SuggestionIDInput) (*SuggestionOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	suggestion, err := s.services.Suggestion.Reject(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &SuggestionOutput{Body: suggestion}, nil
}

func (s *Server) handleRemoveSuggestion(ctx context.Context, input *SuggestionIDInput) (*struct{}, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Suggestion.Remove(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleAddSuggestionToBooks(ctx context.Context, input *SuggestionIDInput) (*BookOutput, error) {
	userID, err := RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Suggestion.AddToBooks(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}
