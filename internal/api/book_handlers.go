package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns all books newest first, optionally filtered by status",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReadBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/read",
		Summary:     "List read books",
		Tags:        []string{"Books"},
	}, s.handleListReadBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFavoriteBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/favorites",
		Summary:     "List favorite books",
		Tags:        []string{"Books"},
	}, s.handleListFavoriteBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listWishlist",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/wishlist",
		Summary:     "List wishlist",
		Tags:        []string{"Books"},
	}, s.handleListWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Add book",
		Description:   "Adds a book to the shelf. Rejects books already on it.",
		Tags:          []string{"Books"},
		Security:      bearer,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Patches the given fields. Moving into read stamps finishedAt.",
		Tags:        []string{"Books"},
		Security:    bearer,
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeBook",
		Method:        http.MethodDelete,
		Path:          "/api/v1/books/{id}",
		Summary:       "Remove book",
		Tags:          []string{"Books"},
		Security:      bearer,
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavoriteBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/favorite",
		Summary:     "Toggle favorite",
		Description: "Flips the favorite flag and returns the new value",
		Tags:        []string{"Books"},
		Security:    bearer,
	}, s.handleToggleFavorite)
}

// === DTOs ===

// ListBooksInput filters the book list.
type ListBooksInput struct {
	Status string `query:"status" enum:"reading,read,wishlist" required:"false" doc:"Only books with this status"`
}

// BookIDInput addresses one book.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BooksOutput wraps a list of books for Huma.
type BooksOutput struct {
	Body []*domain.Book
}

// BookOutput wraps a book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// AddBookInput wraps the add book request for Huma.
type AddBookInput struct {
	Body service.AddBookRequest
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body service.UpdateBookRequest
}

// FavoriteResponse carries the favorite flag after a toggle.
type FavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// FavoriteOutput wraps the toggle result for Huma.
type FavoriteOutput struct {
	Body FavoriteResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BooksOutput, error) {
	books, err := s.services.Book.List(ctx, input.Status)
	if err != nil {
		return nil, err
	}
	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleListReadBooks(ctx context.Context, _ *struct{}) (*BooksOutput, error) {
	books, err := s.services.Book.ListRead(ctx)
	if err != nil {
		return nil, err
	}
	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleListFavoriteBooks(ctx context.Context, _ *struct{}) (*BooksOutput, error) {
	books, err := s.services.Book.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleListWishlist(ctx context.Context, _ *struct{}) (*BooksOutput, error) {
	books, err := s.services.Book.ListWishlist(ctx)
	if err != nil {
		return nil, err
	}
	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.services.Book.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*BookOutput, error) {
	userID, err := RequireOwner(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.Add(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	book, err := s.services.Book.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleRemoveBook(ctx context.Context, input *BookIDInput) (*struct{}, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Book.Remove(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *BookIDInput) (*FavoriteOutput, error) {
	if _, err := RequireOwner(ctx); err != nil {
		return nil, err
	}

	favorite, err := s.services.Book.ToggleFavorite(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &FavoriteOutput{Body: FavoriteResponse{IsFavorite: favorite}}, nil
}
