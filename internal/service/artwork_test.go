package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/store"
)

func TestArtworkService_CreateFromUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	upload, err := env.Uploads.Store(ctx, "image/png", testPNG(t, 64, 48))
	require.NoError(t, err)

	art, err := env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{
		Title:       "Sunflowers",
		StorageID:   upload.StorageID,
		Tags:        []string{"flowers", " Flowers ", "yellow"},
		IsPublished: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, art.Likes)
	assert.Equal(t, testPublicURL+"/"+upload.StorageID, art.ImageURL)
	assert.Equal(t, upload.BlurHash, art.BlurHash)
	assert.Equal(t, []string{"flowers", "yellow"}, art.Tags)
}

func TestArtworkService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{Title: "No image"})
	requireCode(t, err, domainerrors.CodeValidation)

	_, err = env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{
		Title:     "Ghost",
		StorageID: "00000000-0000-0000-0000-000000000000",
	})
	requireCode(t, err, domainerrors.CodeValidation)

	_, err = env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{
		Title:    "Orphan",
		ImageURL: "https://example.com/a.png",
		SeriesID: "series-missing",
	})
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestArtworkService_RemoveDeletesBlob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	upload, err := env.Uploads.Store(ctx, "image/png", testPNG(t, 16, 16))
	require.NoError(t, err)
	art, err := env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{Title: "Moon", StorageID: upload.StorageID})
	require.NoError(t, err)

	require.NoError(t, env.Artworks.Remove(ctx, art.ID))

	exists, err := env.blobs.Exists(ctx, upload.StorageID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = env.Artworks.Get(ctx, art.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = env.Artworks.Remove(ctx, art.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "Artwork not found")
}

func TestArtworkService_RemoveWithMissingBlob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	upload, err := env.Uploads.Store(ctx, "image/png", testPNG(t, 16, 16))
	require.NoError(t, err)
	art, err := env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{Title: "Stars", StorageID: upload.StorageID})
	require.NoError(t, err)

	require.NoError(t, env.blobs.Delete(ctx, upload.StorageID))
	require.NoError(t, env.Artworks.Remove(ctx, art.ID))
}

func TestArtworkService_PublishedListAndSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	var published []string
	for i, pub := range []bool{true, false, true, true} {
		env.Artworks.now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		art, err := env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{
			Title:       "Watercolor fox",
			ImageURL:    "https://example.com/fox.png",
			IsPublished: pub,
		})
		require.NoError(t, err)
		if pub {
			published = append([]string{art.ID}, published...)
		}
	}

	top, err := env.Artworks.ListPublished(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, published[:2], artworkIDs(top))

	all, err := env.Artworks.ListPublished(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	everything, err := env.Artworks.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, everything, 4)

	res, err := env.Search.Query(ctx, QueryRequest{Query: "fox", Types: "artwork"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total, "unpublished artworks stay out of search")

	// Unpublishing drops the artwork from results.
	_, err = env.Artworks.Update(ctx, published[0], UpdateArtworkRequest{IsPublished: boolPtr(false)})
	require.NoError(t, err)
	res, err = env.Search.Query(ctx, QueryRequest{Query: "fox", Types: "artwork"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
}

func TestArtworkService_Like(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	art, err := env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{Title: "Cat", ImageURL: "https://example.com/cat.png"})
	require.NoError(t, err)

	for want := 1; want <= 3; want++ {
		got, err := env.Artworks.Like(ctx, art.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = env.Artworks.Like(ctx, "art-missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "Artwork not found")
}

func TestArtworkService_LikeConcurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	art, err := env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{Title: "Busy", ImageURL: "https://example.com/busy.png"})
	require.NoError(t, err)

	const visitors = 50
	errs := make(chan error, visitors)
	var wg sync.WaitGroup
	for range visitors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Artworks.Like(ctx, art.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := env.Artworks.Get(ctx, art.ID)
	require.NoError(t, err)
	assert.Equal(t, visitors, got.Likes)
}

func TestArtworkService_Series(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	series, err := env.Artworks.CreateSeries(ctx, "user-owner", CreateSeriesRequest{Title: "Seasons"})
	require.NoError(t, err)
	assert.False(t, series.IsComplete)

	art, err := env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{
		Title: "Winter", ImageURL: "https://example.com/w.png", SeriesID: series.ID, IsPublished: true,
	})
	require.NoError(t, err)

	inSeries, err := env.Artworks.ListBySeries(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{art.ID}, artworkIDs(inSeries))

	updated, err := env.Artworks.UpdateSeries(ctx, series.ID, UpdateSeriesRequest{IsComplete: boolPtr(true), Description: strPtr("Four paintings")})
	require.NoError(t, err)
	assert.True(t, updated.IsComplete)
	assert.Equal(t, "Four paintings", updated.Description)

	require.NoError(t, env.Artworks.RemoveSeries(ctx, series.ID))

	detached, err := env.Artworks.Get(ctx, art.ID)
	require.NoError(t, err)
	assert.Empty(t, detached.SeriesID)

	list, err := env.Artworks.ListSeries(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = env.Artworks.RemoveSeries(ctx, series.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "Series not found")
}

func artworkIDs(artworks []*domain.Artwork) []string {
	out := make([]string, len(artworks))
	for i, a := range artworks {
		out[i] = a.ID
	}
	return out
}
