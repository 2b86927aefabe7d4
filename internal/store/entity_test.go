package store_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/elisereads/elisereads-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "sessions"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestEntity(s *store.Store) *store.Entity[testEntity] {
	return store.NewEntity[testEntity](s, "test:").
		WithIndex("email", func(e *testEntity) []string {
			return []string{strings.ToLower(e.Email)}
		})
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	entities := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, entities.Create(ctx, "1", &testEntity{ID: "1", Name: "Elise", Email: "elise@example.com"}))

	got, err := entities.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Elise", got.Name)

	_, err = entities.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_CreateConflicts(t *testing.T) {
	s := setupTestStore(t)
	entities := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, entities.Create(ctx, "1", &testEntity{ID: "1", Email: "a@example.com"}))

	err := entities.Create(ctx, "1", &testEntity{ID: "1", Email: "other@example.com"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	err = entities.Create(ctx, "2", &testEntity{ID: "2", Email: "A@example.com"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_GetByIndexUsesGeneratedKey(t *testing.T) {
	s := setupTestStore(t)
	entities := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, entities.Create(ctx, "1", &testEntity{ID: "1", Email: "Elise@Example.com"}))

	got, err := entities.GetByIndex(ctx, "email", "elise@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	_, err = entities.GetByIndex(ctx, "email", "Elise@Example.com")
	assert.ErrorIs(t, err, store.ErrNotFound, "lookups match the stored key exactly")

	_, err = entities.GetByIndex(ctx, "email", "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_UpdateMovesIndex(t *testing.T) {
	s := setupTestStore(t)
	entities := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, entities.Create(ctx, "1", &testEntity{ID: "1", Email: "old@example.com"}))
	require.NoError(t, entities.Create(ctx, "2", &testEntity{ID: "2", Email: "taken@example.com"}))

	require.NoError(t, entities.Update(ctx, "1", &testEntity{ID: "1", Email: "new@example.com"}))

	_, err := entities.GetByIndex(ctx, "email", "old@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := entities.GetByIndex(ctx, "email", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	// Keeping the same key is fine, taking another entity's key is not.
	require.NoError(t, entities.Update(ctx, "1", &testEntity{ID: "1", Name: "renamed", Email: "new@example.com"}))
	err = entities.Update(ctx, "1", &testEntity{ID: "1", Email: "taken@example.com"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	err = entities.Update(ctx, "missing", &testEntity{ID: "missing"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_DeleteIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	entities := newTestEntity(s)
	ctx := context.Background()

	require.NoError(t, entities.Create(ctx, "1", &testEntity{ID: "1", Email: "a@example.com"}))
	require.NoError(t, entities.Delete(ctx, "1"))
	require.NoError(t, entities.Delete(ctx, "1"))

	_, err := entities.GetByIndex(ctx, "email", "a@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The freed index key can be reused.
	require.NoError(t, entities.Create(ctx, "2", &testEntity{ID: "2", Email: "a@example.com"}))
}

func TestEntity_ListSkipsIndexKeys(t *testing.T) {
	s := setupTestStore(t)
	entities := newTestEntity(s)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, entities.Create(ctx, id, &testEntity{ID: id, Email: id + "@example.com"}))
	}

	var ids []string
	for e, err := range entities.List(ctx) {
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

func TestEntity_ListStopsEarly(t *testing.T) {
	s := setupTestStore(t)
	entities := newTestEntity(s)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, entities.Create(ctx, id, &testEntity{ID: id, Email: id + "@example.com"}))
	}

	seen := 0
	for _, err := range entities.List(ctx) {
		require.NoError(t, err)
		seen++
		if seen == 1 {
			break
		}
	}
	assert.Equal(t, 1, seen)
}

func TestEntity_CanceledContext(t *testing.T) {
	s := setupTestStore(t)
	entities := newTestEntity(s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, entities.Create(ctx, "1", &testEntity{ID: "1"}), context.Canceled)
	_, err := entities.Get(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}
