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
	"github.com/elisereads/elisereads-server/internal/normalize"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// BookService manages the reading shelf.
type BookService struct {
	store     *sqlite.Store
	blobs     blob.Store
	search    *SearchService
	validator *validation.Validator
	logger    *slog.Logger
	now       clock
}

// NewBookService creates a new book service.
func NewBookService(
	store *sqlite.Store,
	blobs blob.Store,
	searchService *SearchService,
	validator *validation.Validator,
	logger *slog.Logger,
) *BookService {
	return &BookService{
		store:     store,
		blobs:     blobs,
		search:    searchService,
		validator: validator,
		logger:    discardLogger(logger),
		now:       time.Now,
	}
}

// AddBookRequest is the input of Add.
type AddBookRequest struct {
	Title          string            `json:"title" validate:"required,notblank,max=300"`
	Author         string            `json:"author" validate:"required,notblank,max=200"`
	CoverURL       string            `json:"coverUrl,omitempty" validate:"max=2048"`
	CoverStorageID string            `json:"coverStorageId,omitempty" validate:"max=64"`
	ISBN           string            `json:"isbn,omitempty" validate:"max=20"`
	Genre          string            `json:"genre,omitempty" validate:"max=100"`
	Series         string            `json:"series,omitempty" validate:"max=200"`
	PageCount      *int              `json:"pageCount,omitempty" validate:"omitempty,gte=0,lte=100000"`
	PagesRead      *int              `json:"pagesRead,omitempty" validate:"omitempty,gte=0,lte=100000"`
	Description    string            `json:"description,omitempty" validate:"max=20000"`
	Status         domain.BookStatus `json:"status" validate:"required,oneof=reading read wishlist"`
	Rating         *int              `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Review         string            `json:"review,omitempty" validate:"max=20000"`
	IsFavorite     *bool             `json:"isFavorite,omitempty"`
	GiftedBy       string            `json:"giftedBy,omitempty" validate:"max=200"`
}

// UpdateBookRequest patches a book. Omitted fields are left unchanged.
type UpdateBookRequest struct {
	Title          *string            `json:"title,omitempty" validate:"omitempty,notblank,max=300"`
	Author         *string            `json:"author,omitempty" validate:"omitempty,notblank,max=200"`
	CoverURL       *string            `json:"coverUrl,omitempty" validate:"omitempty,max=2048"`
	CoverStorageID *string            `json:"coverStorageId,omitempty" validate:"omitempty,max=64"`
	ISBN           *string            `json:"isbn,omitempty" validate:"omitempty,max=20"`
	Genre          *string            `json:"genre,omitempty" validate:"omitempty,max=100"`
	Series         *string            `json:"series,omitempty" validate:"omitempty,max=200"`
	PageCount      *int               `json:"pageCount,omitempty" validate:"omitempty,gte=0,lte=100000"`
	PagesRead      *int               `json:"pagesRead,omitempty" validate:"omitempty,gte=0,lte=100000"`
	Description    *string            `json:"description,omitempty" validate:"omitempty,max=20000"`
	Status         *domain.BookStatus `json:"status,omitempty" validate:"omitempty,oneof=reading read wishlist"`
	Rating         *int               `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Review         *string            `json:"review,omitempty" validate:"omitempty,max=20000"`
	IsFavorite     *bool              `json:"isFavorite,omitempty"`
	GiftedBy       *string            `json:"giftedBy,omitempty" validate:"omitempty,max=200"`
}

func (r *UpdateBookRequest) patch() *domain.BookPatch {
	p := &domain.BookPatch{
		Title:          trimmed(r.Title),
		Author:         trimmed(r.Author),
		CoverURL:       r.CoverURL,
		CoverStorageID: r.CoverStorageID,
		ISBN:           r.ISBN,
		Genre:          r.Genre,
		Series:         r.Series,
		PageCount:      r.PageCount,
		PagesRead:      r.PagesRead,
		Status:         r.Status,
		Rating:         r.Rating,
		Review:         r.Review,
		IsFavorite:     r.IsFavorite,
		GiftedBy:       r.GiftedBy,
	}
	if r.Description != nil {
		md := normalize.Markdown(*r.Description)
		p.Description = &md
	}
	return p
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// alreadyOnShelf is the message for adding a book that is already shelved
// under the same status.
func alreadyOnShelf(status domain.BookStatus) string {
	switch status {
	case domain.BookStatusRead:
		return "You've already read this book!"
	case domain.BookStatusReading:
		return "You're already reading this book!"
	default:
		return "This book is already on your wishlist!"
	}
}

// List returns every book, newest first, optionally narrowed to one status.
func (s *BookService) List(ctx context.Context, status string) ([]*domain.Book, error) {
	if status != "" && !domain.BookStatus(status).Valid() {
		return nil, domainerrors.Validationf("invalid status %q", status)
	}
	return s.list(ctx, sqlite.BookFilter{Status: domain.BookStatus(status)})
}

// ListRead returns books with status read.
func (s *BookService) ListRead(ctx context.Context) ([]*domain.Book, error) {
	return s.list(ctx, sqlite.BookFilter{Status: domain.BookStatusRead})
}

// ListWishlist returns books with status wishlist.
func (s *BookService) ListWishlist(ctx context.Context) ([]*domain.Book, error) {
	return s.list(ctx, sqlite.BookFilter{Status: domain.BookStatusWishlist})
}

// ListFavorites returns books marked favorite.
func (s *BookService) ListFavorites(ctx context.Context) ([]*domain.Book, error) {
	return s.list(ctx, sqlite.BookFilter{FavoritesOnly: true})
}

func (s *BookService) list(ctx context.Context, f sqlite.BookFilter) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Get returns one book.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// Add shelves a new book. A book with the same normalized title and author
// is rejected: ALREADY_EXISTS when it already has the requested status,
// DUPLICATE (naming the existing book) when it sits elsewhere.
func (s *BookService) Add(ctx context.Context, userID string, req AddBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := s.now()
	book := &domain.Book{
		ID:             bookID,
		UserID:         userID,
		Title:          strings.TrimSpace(req.Title),
		Author:         strings.TrimSpace(req.Author),
		CoverURL:       req.CoverURL,
		CoverStorageID: req.CoverStorageID,
		ISBN:           req.ISBN,
		Genre:          req.Genre,
		Series:         req.Series,
		PageCount:      req.PageCount,
		PagesRead:      req.PagesRead,
		Description:    normalize.Markdown(req.Description),
		Status:         req.Status,
		Rating:         req.Rating,
		Review:         req.Review,
		IsFavorite:     req.IsFavorite != nil && *req.IsFavorite,
		GiftedBy:       req.GiftedBy,
		CreatedAt:      now,
	}
	book.StampInitialStatus(now)

	existing, err := s.store.CreateBookIfAbsent(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	if existing != nil {
		if existing.Status == req.Status {
			return nil, domainerrors.AlreadyExists(alreadyOnShelf(req.Status))
		}
		return nil, domainerrors.Duplicate(existing.ID, string(existing.Status))
	}
	s.search.IndexBook(book)

	s.logger.Info("book added", "book_id", book.ID, "title", book.Title, "status", book.Status)
	return book, nil
}

// Update patches a book. Moving into read stamps finishedAt; moving into
// reading stamps startedAt once.
func (s *BookService) Update(ctx context.Context, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	req.patch().Apply(book, s.now())

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	s.search.IndexBook(book)
	return book, nil
}

// Remove deletes a book and its uploaded cover, if any.
func (s *BookService) Remove(ctx context.Context, bookID string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}
	s.search.Remove(bookID)

	if book.CoverStorageID != "" && s.blobs != nil {
		if err := s.blobs.Delete(ctx, book.CoverStorageID); err != nil && !errors.Is(err, blob.ErrInvalidKey) {
			s.logger.Warn("failed to delete book cover", "book_id", bookID, "storage_id", book.CoverStorageID, "error", err)
		}
	}

	s.logger.Info("book removed", "book_id", bookID)
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *BookService) ToggleFavorite(ctx context.Context, bookID string) (bool, error) {
	return s.store.ToggleFavorite(ctx, bookID)
}
