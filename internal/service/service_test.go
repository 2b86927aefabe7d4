package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/elisereads/elisereads-server/internal/auth"
	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/search"
	"github.com/elisereads/elisereads-server/internal/store"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

const testPublicURL = "/api/v1/uploads"

// testEnv wires every service against temporary stores and an in-memory index.
type testEnv struct {
	db       *sqlite.Store
	sessions *store.Store
	blobs    *blob.Filesystem
	index    *search.Index
	tokens   *auth.TokenService

	Auth        *AuthService
	Session     *SessionService
	Search      *SearchService
	Books       *BookService
	Artworks    *ArtworkService
	Suggestions *SuggestionService
	Profiles    *ProfileService
	Goals       *GoalService
	Settings    *SettingsService
	Migrations  *MigrationService
	Uploads     *UploadService
}

func newTestEnv(t *testing.T) *testEnv {
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

	key := bytes.Repeat([]byte{7}, 32)
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	v := validation.New()
	env := &testEnv{db: db, sessions: sessions, blobs: blobs, index: index, tokens: tokens}
	env.Search = NewSearchService(index, db, logger)
	env.Session = NewSessionService(sessions, db, tokens, logger)
	env.Auth = NewAuthService(db, tokens, env.Session, v, true, logger)
	env.Books = NewBookService(db, blobs, env.Search, v, logger)
	env.Artworks = NewArtworkService(db, blobs, testPublicURL, env.Search, v, logger)
	env.Suggestions = NewSuggestionService(db, env.Search, v, logger)
	env.Profiles = NewProfileService(db, v, logger)
	env.Goals = NewGoalService(db, v, logger)
	env.Settings = NewSettingsService(db, testPublicURL, v, logger)
	env.Migrations = NewMigrationService(db, logger)
	env.Uploads = NewUploadService(blobs, testPublicURL, 1<<20, logger)
	return env
}

// owner creates the site owner through Setup and returns it.
func (e *testEnv) owner(t *testing.T) *domain.User {
	t.Helper()
	resp, err := e.Auth.Setup(context.Background(), SetupRequest{
		Email:       "elise@example.com",
		Password:    "correct horse battery",
		DisplayName: "Elise",
	}, ClientInfo{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	return resp.User
}

// fixedClock returns a clock stuck at t.
func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// requireCode asserts err is a domain error with the given code and returns it.
func requireCode(t *testing.T, err error, code domainerrors.Code) *domainerrors.Error {
	t.Helper()
	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, code, de.Code, de.Message)
	return de
}
