package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elisereads/elisereads-server/cmd/elisectl/output"
	"github.com/elisereads/elisereads-server/internal/config"
	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
)

const seedYAML = `
books:
  - title: Piranesi
    author: Susanna Clarke
    status: read
    rating: 5
    favorite: true
  - title: The Hobbit
    author: J.R.R. Tolkien
    status: wishlist
    gifted_by: Grandma
series:
  - title: Harbour Studies
    artworks:
      - title: Low Tide
        image_url: https://example.com/low-tide.jpg
        tags: [sea, ink]
        published: true
artworks:
  - title: Draft
    image_url: https://example.com/draft.jpg
goals:
  - year: 2026
    target_books: 24
`

func setupTestApp(t *testing.T) (*app, string) {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlite.Open(filepath.Join(dir, "elisereads.db"), nil)
	require.NoError(t, err)
	now := time.Now()
	owner := &domain.User{
		ID:          "usr-owner",
		Email:       "elise@example.com",
		Role:        domain.RoleAdmin,
		DisplayName: "Elise",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.CreateFirstUser(context.Background(), owner))
	require.NoError(t, db.Close())

	cfg := &config.Config{
		App:     config.AppConfig{Environment: "development"},
		Data:    config.DataConfig{BasePath: dir},
		Storage: config.StorageConfig{Driver: config.StorageDriverFilesystem, PublicURL: "/api/v1/uploads", MaxUploadBytes: 1 << 20},
	}
	a, err := newApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return a, dir
}

func writeSeedFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewApp_MissingDatabase(t *testing.T) {
	cfg := &config.Config{
		Data:    config.DataConfig{BasePath: t.TempDir()},
		Storage: config.StorageConfig{Driver: config.StorageDriverFilesystem},
	}
	_, err := newApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeedFile(t, t.TempDir(), seedYAML)

	data, err := loadSeedFile(path)
	require.NoError(t, err)

	require.Len(t, data.Books, 2)
	assert.Equal(t, "Piranesi", data.Books[0].Title)
	require.NotNil(t, data.Books[0].Rating)
	assert.Equal(t, 5, *data.Books[0].Rating)
	assert.True(t, data.Books[0].Favorite)
	assert.Equal(t, "Grandma", data.Books[1].GiftedBy)

	require.Len(t, data.Series, 1)
	require.Len(t, data.Series[0].Artworks, 1)
	assert.Equal(t, []string{"sea", "ink"}, data.Series[0].Artworks[0].Tags)
	assert.Equal(t, 24, data.Goals[0].TargetBooks)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	_, err := loadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := writeSeedFile(t, t.TempDir(), "books: [unclosed")
	_, err = loadSeedFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse seed file")
}

func TestSeed(t *testing.T) {
	a, dir := setupTestApp(t)
	ctx := context.Background()

	data, err := loadSeedFile(writeSeedFile(t, dir, seedYAML))
	require.NoError(t, err)

	userID, err := a.seedOwner(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "usr-owner", userID)

	summary, err := a.seed(ctx, userID, data)
	require.NoError(t, err)
	assert.Equal(t, &seedSummary{Books: 2, Series: 1, Artworks: 2, Goals: 1}, summary)

	books, err := a.books.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, books, 2)

	series, err := a.artworks.ListSeries(ctx)
	require.NoError(t, err)
	require.Len(t, series, 1)
	inSeries, err := a.artworks.ListBySeries(ctx, series[0].ID)
	require.NoError(t, err)
	assert.Len(t, inSeries, 1)

	// Books are skipped on the second run.
	again, err := a.seed(ctx, userID, &seedData{Books: data.Books})
	require.NoError(t, err)
	assert.Zero(t, again.Books)
	assert.Equal(t, []string{"book Piranesi", "book The Hobbit"}, again.Skipped)
}

func TestSeed_ValidationStops(t *testing.T) {
	a, _ := setupTestApp(t)

	_, err := a.seed(context.Background(), "usr-owner", &seedData{
		Books: []seedBook{{Title: "No Status", Author: "Anon", Status: "shelved"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `book "No Status"`)
}

func TestSeedOwner(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()

	id, err := a.seedOwner(ctx, "usr-owner")
	require.NoError(t, err)
	assert.Equal(t, "usr-owner", id)

	_, err = a.seedOwner(ctx, "usr-nobody")
	require.Error(t, err)
}

func TestSearchReindexAfterSeed(t *testing.T) {
	a, dir := setupTestApp(t)
	ctx := context.Background()

	data, err := loadSeedFile(writeSeedFile(t, dir, seedYAML))
	require.NoError(t, err)
	_, err = a.seed(ctx, "usr-owner", data)
	require.NoError(t, err)

	// Two books, one series and one published artwork.
	count, err := a.search.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	prev := output.Writer
	output.Writer = &buf
	t.Cleanup(func() { output.Writer = prev })

	require.NoError(t, output.JSON(&seedSummary{Books: 1}))
	assert.JSONEq(t, `{"books":1,"series":0,"artworks":0,"goals":0}`, buf.String())
}
