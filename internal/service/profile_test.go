package service

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/store"
)

func TestProfileService_AnonymousCaller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	current, err := env.Profiles.GetCurrentUser(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, current)

	profile, err := env.Profiles.GetProfile(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfileService_CreateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.owner(t)

	current, err := env.Profiles.GetCurrentUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, current.User.ID)
	assert.Nil(t, current.Profile)

	created, err := env.Profiles.CreateProfile(ctx, owner.ID, CreateProfileRequest{
		Name:     "Elise",
		Username: "Elise Reads",
		Theme:    domain.ThemeKawaii,
	})
	require.NoError(t, err)
	assert.Equal(t, "elise-reads", created.Username)

	again, err := env.Profiles.CreateProfile(ctx, owner.ID, CreateProfileRequest{Name: "Someone else"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Elise", again.Name)

	current, err = env.Profiles.GetCurrentUser(ctx, owner.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created.ID, current.Profile.ID); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileService_UsernameUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Profiles.CreateProfile(ctx, "user-a", CreateProfileRequest{Name: "A", Username: "bookworm"})
	require.NoError(t, err)

	_, err = env.Profiles.CreateProfile(ctx, "user-b", CreateProfileRequest{Name: "B", Username: "Bookworm"})
	requireCode(t, err, domainerrors.CodeAlreadyExists)

	_, err = env.Profiles.CreateProfile(ctx, "user-c", CreateProfileRequest{Name: "C", Username: "bad/name"})
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestProfileService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Profiles.UpdateProfile(ctx, "user-a", UpdateProfileRequest{Name: strPtr("A")})
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "Profile not found")

	_, err = env.Profiles.CreateProfile(ctx, "user-a", CreateProfileRequest{Name: "A", Username: "reader-a"})
	require.NoError(t, err)

	dark := domain.ThemeDark
	updated, err := env.Profiles.UpdateProfile(ctx, "user-a", UpdateProfileRequest{
		Bio:            strPtr("Loves dragons"),
		Theme:          &dark,
		YearlyBookGoal: intPtr(52),
		Username:       strPtr("reader-a"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Loves dragons", updated.Bio)
	assert.Equal(t, domain.ThemeDark, updated.Theme)
	assert.Equal(t, 52, *updated.YearlyBookGoal)
	assert.Equal(t, "reader-a", updated.Username, "keeping your own username is allowed")

	_, err = env.Profiles.UpdateProfile(ctx, "user-a", UpdateProfileRequest{YearlyBookGoal: intPtr(0)})
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestProfileService_GetStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Books.Add(ctx, "user-owner", AddBookRequest{Title: "A", Author: "X", Status: domain.BookStatusRead, PageCount: intPtr(120)})
	require.NoError(t, err)
	_, err = env.Books.Add(ctx, "user-owner", AddBookRequest{Title: "B", Author: "X", Status: domain.BookStatusRead, PageCount: intPtr(80), IsFavorite: boolPtr(true)})
	require.NoError(t, err)
	_, err = env.Books.Add(ctx, "user-owner", AddBookRequest{Title: "C", Author: "X", Status: domain.BookStatusReading, PageCount: intPtr(500)})
	require.NoError(t, err)
	_, err = env.Books.Add(ctx, "user-other", AddBookRequest{Title: "D", Author: "X", Status: domain.BookStatusWishlist})
	require.NoError(t, err)
	_, err = env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{Title: "P", ImageURL: "https://example.com/p.png", IsPublished: true})
	require.NoError(t, err)
	_, err = env.Artworks.Create(ctx, "user-owner", CreateArtworkRequest{Title: "Q", ImageURL: "https://example.com/q.png"})
	require.NoError(t, err)

	stats, err := env.Profiles.GetStats(ctx, "user-owner")
	require.NoError(t, err)

	want := &domain.Stats{
		BooksRead:         2,
		BooksReading:      1,
		BooksWishlist:     0,
		TotalBooks:        3,
		TotalPages:        200,
		Favorites:         1,
		TotalArtworks:     2,
		PublishedArtworks: 1,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}
