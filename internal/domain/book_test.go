package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookStatus_Valid(t *testing.T) {
	assert.True(t, BookStatusReading.Valid())
	assert.True(t, BookStatusRead.Valid())
	assert.True(t, BookStatusWishlist.Valid())
	assert.False(t, BookStatus("abandoned").Valid())
	assert.False(t, BookStatus("").Valid())
}

func TestBook_StampInitialStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		status       BookStatus
		wantStarted  bool
		wantFinished bool
	}{
		{BookStatusReading, true, false},
		{BookStatusRead, false, true},
		{BookStatusWishlist, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Book{Status: tt.status}
			b.StampInitialStatus(now)
			assert.Equal(t, tt.wantStarted, b.StartedAt != nil)
			assert.Equal(t, tt.wantFinished, b.FinishedAt != nil)
		})
	}
}

func TestBook_MoveTo(t *testing.T) {
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	t.Run("entering read stamps finishedAt", func(t *testing.T) {
		b := &Book{Status: BookStatusReading}
		b.MoveTo(BookStatusRead, first)
		require.NotNil(t, b.FinishedAt)
		assert.Equal(t, first, *b.FinishedAt)
		assert.Equal(t, BookStatusRead, b.Status)
	})

	t.Run("repeating read keeps the original stamp", func(t *testing.T) {
		b := &Book{Status: BookStatusReading}
		b.MoveTo(BookStatusRead, first)
		b.MoveTo(BookStatusRead, later)
		assert.Equal(t, first, *b.FinishedAt)
	})

	t.Run("entering reading keeps an existing startedAt", func(t *testing.T) {
		started := first
		b := &Book{Status: BookStatusWishlist, StartedAt: &started}
		b.MoveTo(BookStatusReading, later)
		assert.Equal(t, first, *b.StartedAt)
	})

	t.Run("entering reading stamps a missing startedAt", func(t *testing.T) {
		b := &Book{Status: BookStatusWishlist}
		b.MoveTo(BookStatusReading, later)
		require.NotNil(t, b.StartedAt)
		assert.Equal(t, later, *b.StartedAt)
	})
}

func TestBookPatch_Apply(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	b := &Book{Title: "Old", Author: "Someone", Status: BookStatusReading, Genre: "Fantasy"}

	title := "New"
	rating := 0
	status := BookStatusRead
	fav := true
	patch := BookPatch{Title: &title, Rating: &rating, Status: &status, IsFavorite: &fav}
	patch.Apply(b, now)

	assert.Equal(t, "New", b.Title)
	assert.Equal(t, "Someone", b.Author)
	assert.Equal(t, "Fantasy", b.Genre)
	require.NotNil(t, b.Rating)
	assert.Equal(t, 0, *b.Rating)
	assert.True(t, b.IsFavorite)
	assert.Equal(t, BookStatusRead, b.Status)
	assert.Equal(t, now, *b.FinishedAt)
}

func TestShelfLocation(t *testing.T) {
	assert.Equal(t, "already read", ShelfLocation(BookStatusRead))
	assert.Equal(t, "currently reading", ShelfLocation(BookStatusReading))
	assert.Equal(t, "already on wishlist", ShelfLocation(BookStatusWishlist))
}
