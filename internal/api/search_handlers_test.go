package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elisereads/elisereads-server/internal/search"
)

func TestSearch_AcrossTypes(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)

	addBook(t, ts, token, map[string]any{"title": "The Sea of Tranquility", "author": "Emily St. John Mandel", "status": "read"})
	createArtwork(t, ts, token, map[string]any{"title": "Sea Study", "imageUrl": "https://img.example/sea.png", "isPublished": true})
	createArtwork(t, ts, token, map[string]any{"title": "Sea Draft", "imageUrl": "https://img.example/draft.png"})
	createSeries(t, ts, token, "Sea Series")

	resp := ts.api.Get("/api/v1/search?q=sea")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decode[search.Result](t, resp).Data
	assert.EqualValues(t, 3, result.Total)

	types := map[search.DocType]int{}
	for _, hit := range result.Hits {
		types[hit.Type]++
		assert.NotEqual(t, "Sea Draft", hit.Title)
	}
	assert.Equal(t, map[search.DocType]int{search.DocTypeBook: 1, search.DocTypeArtwork: 1, search.DocTypeSeries: 1}, types)

	resp = ts.api.Get("/api/v1/search?q=sea&types=book")
	require.Equal(t, http.StatusOK, resp.Code)
	books := decode[search.Result](t, resp).Data
	require.Len(t, books.Hits, 1)
	assert.Equal(t, "Emily St. John Mandel", books.Hits[0].Author)
}

func TestSearch_UnknownType(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search?q=sea&types=podcast")
	requireError(t, resp, http.StatusBadRequest, "VALIDATION")
}

func TestSearch_RemovedBookDisappears(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setupOwner(t)
	book := addBook(t, ts, token, map[string]any{"title": "Circe", "author": "Madeline Miller", "status": "read"})

	resp := ts.api.Delete("/api/v1/books/"+book.ID, bearerHeader(token))
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/search?q=circe")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[search.Result](t, resp).Data.Hits)
}
