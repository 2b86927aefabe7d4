package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/id"
	"github.com/elisereads/elisereads-server/internal/normalize"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// SuggestionService handles visitor book suggestions and their moderation.
type SuggestionService struct {
	store     *sqlite.Store
	search    *SearchService
	validator *validation.Validator
	logger    *slog.Logger
	now       clock
}

// NewSuggestionService creates a new suggestion service.
func NewSuggestionService(store *sqlite.Store, searchService *SearchService, validator *validation.Validator, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{
		store:     store,
		search:    searchService,
		validator: validator,
		logger:    discardLogger(logger),
		now:       time.Now,
	}
}

// SubmitSuggestionRequest is what a visitor sends.
type SubmitSuggestionRequest struct {
	Title            string `json:"title" validate:"required,notblank,max=300"`
	Author           string `json:"author" validate:"required,notblank,max=200"`
	CoverURL         string `json:"coverUrl,omitempty" validate:"max=2048"`
	SuggestedBy      string `json:"suggestedBy" validate:"required,notblank,max=100"`
	SuggestedByEmail string `json:"suggestedByEmail,omitempty" validate:"omitempty,email,max=254"`
	Reason           string `json:"reason,omitempty" validate:"max=2000"`
	Genre            string `json:"genre,omitempty" validate:"max=100"`
}

// visitorShelfMessage tells a visitor the book is already on the shelf.
func visitorShelfMessage(status domain.BookStatus) string {
	switch status {
	case domain.BookStatusRead:
		return "I've already read this book!"
	case domain.BookStatusReading:
		return "I'm currently reading this book!"
	default:
		return "This book is already on my wishlist!"
	}
}

// ListAll returns every suggestion, newest first.
func (s *SuggestionService) ListAll(ctx context.Context) ([]*domain.BookSuggestion, error) {
	return s.list(ctx, "")
}

// ListPending returns suggestions awaiting review, newest first.
func (s *SuggestionService) ListPending(ctx context.Context) ([]*domain.BookSuggestion, error) {
	return s.list(ctx, domain.SuggestionPending)
}

func (s *SuggestionService) list(ctx context.Context, status domain.SuggestionStatus) ([]*domain.BookSuggestion, error) {
	suggestions, err := s.store.ListSuggestions(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return suggestions, nil
}

// CheckDuplicate looks for the book on the shelf first, then among pending
// suggestions.
func (s *SuggestionService) CheckDuplicate(ctx context.Context, title, author string) (*domain.DuplicateCheck, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(author) == "" {
		return nil, domainerrors.Validation("title and author are required")
	}

	book, err := s.store.FindBookByKey(ctx, title, author)
	if err != nil {
		return nil, fmt.Errorf("check books: %w", err)
	}
	if book != nil {
		return &domain.DuplicateCheck{Exists: true, Location: domain.ShelfLocation(book.Status), Book: book}, nil
	}

	pending, err := s.store.FindPendingSuggestionByKey(ctx, title, author)
	if err != nil {
		return nil, fmt.Errorf("check suggestions: %w", err)
	}
	if pending != nil {
		return &domain.DuplicateCheck{Exists: true, Location: domain.LocationSuggested, Suggestion: pending}, nil
	}
	return &domain.DuplicateCheck{Exists: false}, nil
}

// Submit records a visitor suggestion as pending, unless the book is
// already shelved or already suggested.
func (s *SuggestionService) Submit(ctx context.Context, req SubmitSuggestionRequest) (*domain.BookSuggestion, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	suggestionID, err := id.Generate(id.PrefixSuggestion)
	if err != nil {
		return nil, fmt.Errorf("generate suggestion ID: %w", err)
	}
	suggestion := &domain.BookSuggestion{
		ID:               suggestionID,
		Title:            strings.TrimSpace(req.Title),
		Author:           strings.TrimSpace(req.Author),
		CoverURL:         req.CoverURL,
		SuggestedBy:      strings.TrimSpace(req.SuggestedBy),
		SuggestedByEmail: req.SuggestedByEmail,
		Reason:           normalize.PlainText(req.Reason),
		Genre:            req.Genre,
		Status:           domain.SuggestionPending,
		CreatedAt:        s.now(),
	}
	check, err := s.store.CreateSuggestionIfAbsent(ctx, suggestion)
	if err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}
	if check.Exists {
		if check.Book != nil {
			return nil, domainerrors.AlreadyExists(visitorShelfMessage(check.Book.Status))
		}
		return nil, domainerrors.AlreadyExists("This book has already been suggested!")
	}

	s.logger.Info("suggestion submitted", "suggestion_id", suggestion.ID, "title", suggestion.Title)
	return suggestion, nil
}

// Approve marks a suggestion approved.
func (s *SuggestionService) Approve(ctx context.Context, suggestionID string) (*domain.BookSuggestion, error) {
	return s.review(ctx, suggestionID, domain.SuggestionApproved)
}

// Reject marks a suggestion rejected.
func (s *SuggestionService) Reject(ctx context.Context, suggestionID string) (*domain.BookSuggestion, error) {
	return s.review(ctx, suggestionID, domain.SuggestionRejected)
}

func (s *SuggestionService) review(ctx context.Context, suggestionID string, status domain.SuggestionStatus) (*domain.BookSuggestion, error) {
	if err := s.store.SetSuggestionStatus(ctx, suggestionID, status, s.now()); err != nil {
		return nil, err
	}
	return s.store.GetSuggestion(ctx, suggestionID)
}

// Remove deletes a suggestion.
func (s *SuggestionService) Remove(ctx context.Context, suggestionID string) error {
	return s.store.DeleteSuggestion(ctx, suggestionID)
}

// AddToBooks puts the suggested book on the wishlist, credited to the
// visitor, and approves the suggestion in the same transaction.
func (s *SuggestionService) AddToBooks(ctx context.Context, userID, suggestionID string) (*domain.Book, error) {
	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := s.now()
	book, err := s.store.AddSuggestionToBooks(ctx, suggestionID, now, func(sg *domain.BookSuggestion) *domain.Book {
		return &domain.Book{
			ID:         bookID,
			UserID:     userID,
			Title:      sg.Title,
			Author:     sg.Author,
			CoverURL:   sg.CoverURL,
			Genre:      sg.Genre,
			GiftedBy:   sg.SuggestedBy,
			Status:     domain.BookStatusWishlist,
			IsFavorite: false,
			CreatedAt:  now,
		}
	})
	if err != nil {
		return nil, err
	}
	s.search.IndexBook(book)

	s.logger.Info("suggestion added to wishlist", "suggestion_id", suggestionID, "book_id", book.ID)
	return book, nil
}
