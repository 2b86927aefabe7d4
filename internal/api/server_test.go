package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elisereads/elisereads-server/internal/auth"
	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/search"
	"github.com/elisereads/elisereads-server/internal/service"
	"github.com/elisereads/elisereads-server/internal/store"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

const (
	testOwnerEmail    = "owner@example.com"
	testOwnerPassword = "SecurePassword123!"
	testMaxUpload     = 1 << 20
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

// testServer is a fully wired server backed by temporary stores.
type testServer struct {
	server *Server
	api    humatest.TestAPI
	db     *sqlite.Store
	blobs  *blob.Filesystem
	tokens *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithLimiters(t, nil)
}

func setupTestServerWithLimiters(t *testing.T, limiters *RateLimiters) *testServer {
	t.Helper()
	return setupTestServerWithOptions(t, limiters, Options{Version: "test"})
}

func setupTestServerWithOptions(t *testing.T, limiters *RateLimiters, opts Options) *testServer {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	db, err := sqlite.Open(filepath.Join(dir, "elisereads.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sessions, err := store.New(filepath.Join(dir, "sessions"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	blobs, err := blob.NewFilesystem(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	index, err := search.Open(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{3}, 32), 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	const publicURL = "/api/v1/uploads"
	v := validation.New()
	searchService := service.NewSearchService(index, db, logger)
	sessionService := service.NewSessionService(sessions, db, tokens, logger)
	services := &Services{
		Auth:       service.NewAuthService(db, tokens, sessionService, v, true, logger),
		Book:       service.NewBookService(db, blobs, searchService, v, logger),
		Artwork:    service.NewArtworkService(db, blobs, publicURL, searchService, v, logger),
		Suggestion: service.NewSuggestionService(db, searchService, v, logger),
		Profile:    service.NewProfileService(db, v, logger),
		Goal:       service.NewGoalService(db, v, logger),
		Settings:   service.NewSettingsService(db, publicURL, v, logger),
		Migration:  service.NewMigrationService(db, logger),
		Upload:     service.NewUploadService(blobs, publicURL, testMaxUpload, logger),
		Search:     searchService,
	}

	srv := NewServer(db, sessions, blobs, services, limiters, opts, logger)
	return &testServer{
		server: srv,
		api:    humatest.Wrap(t, srv.API()),
		db:     db,
		blobs:  blobs,
		tokens: tokens,
	}
}

// setupOwner runs first-time setup and returns the owner's access token.
func (ts *testServer) setupOwner(t *testing.T) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        testOwnerEmail,
		"password":     testOwnerPassword,
		"display_name": "Elise",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[service.AuthResponse](t, resp)
	return env.Data.AccessToken
}

// registerMember creates a non-owner account and returns its access token.
func (ts *testServer) registerMember(t *testing.T, email string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     testOwnerPassword,
		"display_name": "Reader",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decode[service.AuthResponse](t, resp)
	return env.Data.AccessToken
}

func bearerHeader(token string) string {
	return "Authorization: Bearer " + token
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	return env
}

// requireError asserts an error envelope with the given status and code.
func requireError(t *testing.T, resp *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, resp.Code, resp.Body.String())
	env := decode[any](t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, EnvelopeVersion, env.Version)
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
	assert.NotEmpty(t, env.Error.Message)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := range 8 {
		for y := range 6 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: 90, B: uint8(y * 40), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestServer_UnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", http.NoBody)
	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_OpenAPIDocumentsBearerScheme(t *testing.T) {
	ts := setupTestServer(t)

	openapi := ts.server.API().OpenAPI()
	require.NotNil(t, openapi.Components)
	scheme, ok := openapi.Components.SecuritySchemes["bearer"]
	require.True(t, ok)
	assert.Equal(t, "PASETO", scheme.BearerFormat)
	assert.Equal(t, "test", openapi.Info.Version)
}

func TestServer_InvalidTokenIsRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me/stats", bearerHeader("v4.local.garbage"))
	requireError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED")
}
