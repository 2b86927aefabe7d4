package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func seed(t *testing.T, idx *Index) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []*Document{
		BookDocument(&domain.Book{ID: "book-1", Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", Status: domain.BookStatusRead, CreatedAt: base}),
		BookDocument(&domain.Book{ID: "book-2", Title: "Matilda", Author: "Roald Dahl", Series: "Dahl Classics", Status: domain.BookStatusWishlist, CreatedAt: base.Add(time.Hour)}),
		ArtworkDocument(&domain.Artwork{ID: "art-1", Title: "Sleepy Cat", Description: "a cat by the window", Medium: "Watercolor", Tags: []string{"cats", "cozy"}, IsPublished: true, CreatedAt: base.Add(2 * time.Hour)}),
		SeriesDocument(&domain.ArtSeries{ID: "series-1", Title: "Hobbit Sketches", Description: "drawings of hobbits", CreatedAt: base.Add(3 * time.Hour)}),
	}
	require.NoError(t, idx.PutAll(docs))
}

func hitIDs(r *Result) []string {
	ids := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		ids[i] = h.ID
	}
	return ids
}

func TestIndex_PutAndCount(t *testing.T) {
	idx := setupTestIndex(t)
	seed(t, idx)

	n, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)

	require.NoError(t, idx.Delete("book-1"))
	require.NoError(t, idx.Delete("book-1"))

	n, err = idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
}

func TestSearch_MatchesAcrossTypes(t *testing.T) {
	idx := setupTestIndex(t)
	seed(t, idx)

	res, err := idx.Search(context.Background(), Params{Query: "hobbit"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"book-1", "series-1"}, hitIDs(res))
	assert.Len(t, res.Facets, 2)
}

func TestSearch_BookFields(t *testing.T) {
	idx := setupTestIndex(t)
	seed(t, idx)
	ctx := context.Background()

	byAuthor, err := idx.Search(ctx, Params{Query: "dahl"})
	require.NoError(t, err)
	require.NotEmpty(t, byAuthor.Hits)
	assert.Equal(t, "book-2", byAuthor.Hits[0].ID)
	assert.Equal(t, "Roald Dahl", byAuthor.Hits[0].Author)
	assert.Equal(t, "wishlist", byAuthor.Hits[0].Status)

	byGenre, err := idx.Search(ctx, Params{Query: "fantasy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"book-1"}, hitIDs(byGenre))
}

func TestSearch_ArtworkFields(t *testing.T) {
	idx := setupTestIndex(t)
	seed(t, idx)
	ctx := context.Background()

	for _, q := range []string{"cats", "watercolor", "window"} {
		res, err := idx.Search(ctx, Params{Query: q})
		require.NoError(t, err)
		assert.Contains(t, hitIDs(res), "art-1", q)
	}
}

func TestSearch_TypeFilter(t *testing.T) {
	idx := setupTestIndex(t)
	seed(t, idx)

	res, err := idx.Search(context.Background(), Params{Query: "hobbit", Types: []DocType{DocTypeSeries}})
	require.NoError(t, err)
	assert.Equal(t, []string{"series-1"}, hitIDs(res))
	assert.Equal(t, DocTypeSeries, res.Hits[0].Type)
}

func TestSearch_EmptyQueryNewestFirst(t *testing.T) {
	idx := setupTestIndex(t)
	seed(t, idx)

	res, err := idx.Search(context.Background(), Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), res.Total)
	assert.Equal(t, []string{"series-1", "art-1"}, hitIDs(res))

	page2, err := idx.Search(context.Background(), Params{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"book-2", "book-1"}, hitIDs(page2))
}

func TestParams_Normalize(t *testing.T) {
	p := Params{Query: "  cat ", Limit: 0, Offset: -3}.normalize()
	assert.Equal(t, "cat", p.Query)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	assert.Equal(t, MaxLimit, Params{Limit: 5000}.normalize().Limit)
}

func TestIndexable(t *testing.T) {
	assert.True(t, Indexable(&domain.Artwork{IsPublished: true}))
	assert.False(t, Indexable(&domain.Artwork{}))
}

func TestRebuild(t *testing.T) {
	idx := setupTestIndex(t)
	seed(t, idx)

	require.NoError(t, idx.Rebuild([]*Document{
		BookDocument(&domain.Book{ID: "book-9", Title: "Only One", Author: "A", CreatedAt: time.Now()}),
	}))

	n, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	assert.False(t, idx.NeedsReindex())
}

func TestOpen_OnDiskVersioning(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	assert.True(t, first.NeedsReindex(), "new index starts empty")
	require.NoError(t, first.Put(BookDocument(&domain.Book{ID: "book-1", Title: "Kept", CreatedAt: time.Now()})))
	require.NoError(t, first.Close())

	reopened, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	assert.False(t, reopened.NeedsReindex())
	n, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	require.NoError(t, reopened.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "search.version"), []byte("0"), 0o644))

	bumped, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	defer bumped.Close()
	assert.True(t, bumped.NeedsReindex())
	n, err = bumped.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
