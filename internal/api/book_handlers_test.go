package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elisereads/elisereads-server/internal/domain"
)

func addBook(t *testing.T, ts *testServer, token string, body map[string]any) *domain.Book {
	t.Helper()
	resp := ts.api.Post("/api/v1/books", bearerHeader(token), body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[*domain.Book](t, resp).Data
}

func TestAddBook_Success(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)

	book := addBook(t, ts, token, map[string]any{
		"title":     "  Piranesi ",
		"author":    "Susanna Clarke",
		"status":    "reading",
		"pageCount": 272,
	})

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Piranesi", book.Title)
	assert.Equal(t, domain.BookStatusReading, book.Status)
	assert.NotNil(t, book.StartedAt)
	assert.Nil(t, book.FinishedAt)
	assert.False(t, book.IsFavorite)
}

func TestAddBook_RequiresOwner(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupOwner(t)
	member := ts.registerMember(t, "reader@example.com")

	body := map[string]any{"title": "Piranesi", "author": "Susanna Clarke", "status": "read"}

	resp := ts.api.Post("/api/v1/books", body)
	requireError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED")

	resp = ts.api.Post("/api/v1/books", bearerHeader(member), body)
	requireError(t, resp, http.StatusForbidden, "FORBIDDEN")
}

func TestAddBook_InvalidStatus(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)

	resp := ts.api.Post("/api/v1/books", bearerHeader(token), map[string]any{
		"title":  "Piranesi",
		"author": "Susanna Clarke",
		"status": "abandoned",
	})
	requireError(t, resp, http.StatusBadRequest, "VALIDATION")
}

func TestAddBook_Duplicates(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)

	existing := addBook(t, ts, token, map[string]any{
		"title": "Piranesi", "author": "Susanna Clarke", "status": "read",
	})

	t.Run("same status", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/books", bearerHeader(token), map[string]any{
			"title": "piranesi", "author": "SUSANNA CLARKE", "status": "read",
		})
		requireError(t, resp, http.StatusConflict, "ALREADY_EXISTS")
		assert.Equal(t, "You've already read this book!", decode[any](t, resp).Error.Message)
	})

	t.Run("different status", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/books", bearerHeader(token), map[string]any{
			"title": "Piranesi", "author": "Susanna Clarke", "status": "wishlist",
		})
		requireError(t, resp, http.StatusConflict, "DUPLICATE")
		assert.Equal(t, "DUPLICATE:"+existing.ID+":read", decode[any](t, resp).Error.Message)
	})
}

func TestListBooks_ByStatus(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)

	addBook(t, ts, token, map[string]any{"title": "Piranesi", "author": "Susanna Clarke", "status": "read"})
	addBook(t, ts, token, map[string]any{"title": "Circe", "author": "Madeline Miller", "status": "wishlist"})
	addBook(t, ts, token, map[string]any{"title": "Middlemarch", "author": "George Eliot", "status": "reading"})

	resp := ts.api.Get("/api/v1/books")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]*domain.Book](t, resp).Data, 3)

	resp = ts.api.Get("/api/v1/books?status=wishlist")
	require.Equal(t, http.StatusOK, resp.Code)
	wishlist := decode[[]*domain.Book](t, resp).Data
	require.Len(t, wishlist, 1)
	assert.Equal(t, "Circe", wishlist[0].Title)

	resp = ts.api.Get("/api/v1/books/read")
	require.Equal(t, http.StatusOK, resp.Code)
	read := decode[[]*domain.Book](t, resp).Data
	require.Len(t, read, 1)
	assert.Equal(t, "Piranesi", read[0].Title)

	resp = ts.api.Get("/api/v1/books?status=lost")
	requireError(t, resp, http.StatusBadRequest, "VALIDATION")
}

func TestListBooks_EmptyIsArray(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/books/favorites")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"v":1,"success":true,"data":[]}`, resp.Body.String())
}

func TestUpdateBook_MoveToRead(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)
	book := addBook(t, ts, token, map[string]any{"title": "Piranesi", "author": "Susanna Clarke", "status": "reading"})

	resp := ts.api.Patch("/api/v1/books/"+book.ID, bearerHeader(token), map[string]any{
		"status": "read",
		"rating": 5,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[*domain.Book](t, resp).Data
	assert.Equal(t, domain.BookStatusRead, updated.Status)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 5, *updated.Rating)
	assert.NotNil(t, updated.FinishedAt)
	assert.Equal(t, "Piranesi", updated.Title)
}

func TestUpdateBook_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)

	resp := ts.api.Patch("/api/v1/books/book-missing", bearerHeader(token), map[string]any{"review": "lovely"})
	requireError(t, resp, http.StatusNotFound, "NOT_FOUND")
}

func TestUpdateBook_RatingOutOfRange(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)
	book := addBook(t, ts, token, map[string]any{"title": "Circe", "author": "Madeline Miller", "status": "read"})

	resp := ts.api.Patch("/api/v1/books/"+book.ID, bearerHeader(token), map[string]any{"rating": 9})
	requireError(t, resp, http.StatusBadRequest, "VALIDATION")
}

func TestToggleFavorite(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)
	book := addBook(t, ts, token, map[string]any{"title": "Circe", "author": "Madeline Miller", "status": "read"})

	resp := ts.api.Post("/api/v1/books/"+book.ID+"/favorite", bearerHeader(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.True(t, decode[FavoriteResponse](t, resp).Data.IsFavorite)

	resp = ts.api.Get("/api/v1/books/favorites")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]*domain.Book](t, resp).Data, 1)

	resp = ts.api.Post("/api/v1/books/"+book.ID+"/favorite", bearerHeader(token))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decode[FavoriteResponse](t, resp).Data.IsFavorite)
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)
	book := addBook(t, ts, token, map[string]any{"title": "Circe", "author": "Madeline Miller", "status": "read"})

	resp := ts.api.Delete("/api/v1/books/"+book.ID, bearerHeader(token))
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/books/" + book.ID)
	requireError(t, resp, http.StatusNotFound, "NOT_FOUND")

	resp = ts.api.Delete("/api/v1/books/"+book.ID, bearerHeader(token))
	requireError(t, resp, http.StatusNotFound, "NOT_FOUND")
}
