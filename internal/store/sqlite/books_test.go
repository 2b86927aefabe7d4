package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBook(id, title, author string, status domain.BookStatus, created time.Time) *domain.Book {
	return &domain.Book{
		ID:        id,
		UserID:    "user-owner",
		Title:     title,
		Author:    author,
		Status:    status,
		CreatedAt: created,
	}
}

func createBook(t *testing.T, s *Store, b *domain.Book) {
	t.Helper()
	existing, err := s.CreateBookIfAbsent(context.Background(), b)
	require.NoError(t, err)
	require.Nil(t, existing, "book %s collides with an existing one", b.ID)
}

func TestBooks_CreateGetUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)

	pages := 320
	rating := 0
	b := makeBook("book-1", "Matilda", "Roald Dahl", domain.BookStatusRead, now)
	b.PageCount = &pages
	b.Rating = &rating
	b.FinishedAt = &now
	b.Genre = "Children"
	createBook(t, s, b)

	got, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Matilda", got.Title)
	assert.Equal(t, 320, *got.PageCount)
	require.NotNil(t, got.Rating, "zero rating is stored, not dropped")
	assert.Equal(t, 0, *got.Rating)
	assert.Nil(t, got.PagesRead)
	assert.True(t, got.FinishedAt.Equal(now))
	assert.Nil(t, got.StartedAt)
	assert.Equal(t, "Children", got.Genre)

	got.Review = "Loved it"
	got.Genre = ""
	require.NoError(t, s.UpdateBook(ctx, got))

	again, err := s.GetBook(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Loved it", again.Review)
	assert.Empty(t, again.Genre)

	_, err = s.GetBook(ctx, "book-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.EqualError(t, err, "Book not found")

	err = s.UpdateBook(ctx, makeBook("book-missing", "x", "y", domain.BookStatusRead, now))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBooks_ListFiltersAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	createBook(t, s, makeBook("b1", "One", "A", domain.BookStatusRead, base))
	createBook(t, s, makeBook("b2", "Two", "A", domain.BookStatusWishlist, base.Add(time.Hour)))
	fav := makeBook("b3", "Three", "A", domain.BookStatusRead, base.Add(2*time.Hour))
	fav.IsFavorite = true
	createBook(t, s, fav)

	all, err := s.ListBooks(ctx, BookFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b3", "b2", "b1"}, bookIDs(all))

	read, err := s.ListBooks(ctx, BookFilter{Status: domain.BookStatusRead})
	require.NoError(t, err)
	assert.Equal(t, []string{"b3", "b1"}, bookIDs(read))

	favs, err := s.ListBooks(ctx, BookFilter{FavoritesOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"b3"}, bookIDs(favs))
}

func TestBooks_FindByKeyNormalizes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createBook(t, s, makeBook("b1", "The Hobbit", "J.R.R. Tolkien", domain.BookStatusReading, time.Now()))

	found, err := s.FindBookByKey(ctx, "  the HOBBIT ", "j.r.r. tolkien ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "b1", found.ID)

	missing, err := s.FindBookByKey(ctx, "The Hobbit", "Someone Else")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBooks_ToggleFavoriteAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createBook(t, s, makeBook("b1", "One", "A", domain.BookStatusRead, time.Now()))

	fav, err := s.ToggleFavorite(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = s.ToggleFavorite(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, fav)

	_, err = s.ToggleFavorite(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteBook(ctx, "b1"))
	assert.ErrorIs(t, s.DeleteBook(ctx, "b1"), store.ErrNotFound)
}

func TestBooks_FinishedBetween(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	out := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)

	b1 := makeBook("b1", "In", "A", domain.BookStatusRead, in)
	b1.FinishedAt = &in
	b2 := makeBook("b2", "Out", "A", domain.BookStatusRead, out)
	b2.FinishedAt = &out
	b3 := makeBook("b3", "Reading", "A", domain.BookStatusReading, in)
	b3.FinishedAt = &in
	for _, b := range []*domain.Book{b1, b2, b3} {
		createBook(t, s, b)
	}

	books, err := s.ListBooksFinishedBetween(ctx,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, bookIDs(books))
}

func TestBooks_Counts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	p := func(n int) *int { return &n }
	books := []*domain.Book{
		{ID: "b1", UserID: "u1", Title: "A", Author: "X", Status: domain.BookStatusRead, PageCount: p(100), IsFavorite: true, CreatedAt: now},
		{ID: "b2", UserID: "u1", Title: "B", Author: "X", Status: domain.BookStatusRead, CreatedAt: now},
		{ID: "b3", UserID: "u1", Title: "C", Author: "X", Status: domain.BookStatusReading, PageCount: p(999), CreatedAt: now},
		{ID: "b4", UserID: "u1", Title: "D", Author: "X", Status: domain.BookStatusWishlist, CreatedAt: now},
		{ID: "b5", UserID: "u2", Title: "E", Author: "X", Status: domain.BookStatusRead, PageCount: p(50), CreatedAt: now},
	}
	for _, b := range books {
		createBook(t, s, b)
	}

	st, err := s.BookCounts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{
		BooksRead: 2, BooksReading: 1, BooksWishlist: 1, TotalBooks: 4, TotalPages: 100, Favorites: 1,
	}, *st)

	empty, err := s.BookCounts(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, *empty)
}

func bookIDs(books []*domain.Book) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func TestBooks_CreateIfAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	createBook(t, s, makeBook("b1", "The Hobbit", "J.R.R. Tolkien", domain.BookStatusRead, now))

	existing, err := s.CreateBookIfAbsent(ctx, makeBook("b2", " the hobbit", "J.R.R. TOLKIEN", domain.BookStatusWishlist, now))
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "b1", existing.ID)

	_, err = s.GetBook(ctx, "b2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBooks_CreateIfAbsentConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	const writers = 16
	created := make(chan bool, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			existing, err := s.CreateBookIfAbsent(ctx, makeBook(fmt.Sprintf("b%d", i), "Dune", "Frank Herbert", domain.BookStatusRead, now))
			assert.NoError(t, err)
			created <- err == nil && existing == nil
		}()
	}
	wg.Wait()
	close(created)

	wins := 0
	for ok := range created {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)

	all, err := s.ListBooks(ctx, BookFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
