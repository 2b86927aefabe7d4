package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
)

func TestGoalService_SetUpsertsByYear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.Goals.Set(ctx, "user-owner", SetGoalRequest{Year: 2025, TargetBooks: 20})
	require.NoError(t, err)

	second, err := env.Goals.Set(ctx, "user-owner", SetGoalRequest{Year: 2025, TargetBooks: 30, TargetPages: intPtr(6000)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 30, second.TargetBooks)
	assert.Equal(t, 6000, *second.TargetPages)

	_, err = env.Goals.Set(ctx, "user-owner", SetGoalRequest{Year: 2024, TargetBooks: 10})
	require.NoError(t, err)

	goals, err := env.Goals.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, 2025, goals[0].Year)
	assert.Equal(t, 2024, goals[1].Year)

	_, err = env.Goals.Set(ctx, "user-owner", SetGoalRequest{Year: 2025, TargetBooks: 0})
	requireCode(t, err, domainerrors.CodeValidation)
}

func TestGoalService_Progress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.Goals.loc = time.UTC
	env.Goals.now = fixedClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	t.Run("no goal", func(t *testing.T) {
		progress, err := env.Goals.Progress(ctx)
		require.NoError(t, err)
		assert.Nil(t, progress.Goal)
		assert.Equal(t, 0, progress.BookProgress)
		assert.Equal(t, 2025, progress.Year)
	})

	finish := func(at time.Time, title string, pages int) {
		env.Books.now = fixedClock(at)
		_, err := env.Books.Add(ctx, "user-owner", AddBookRequest{
			Title: title, Author: "X", Status: domain.BookStatusRead, PageCount: intPtr(pages),
		})
		require.NoError(t, err)
	}
	finish(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), "Last year", 999)
	finish(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "New year", 100)
	finish(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), "Spring", 150)
	finish(time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), "Summer", 50)

	_, err := env.Goals.Set(ctx, "user-owner", SetGoalRequest{Year: 2025, TargetBooks: 4, TargetPages: intPtr(200)})
	require.NoError(t, err)

	progress, err := env.Goals.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, progress.BooksRead)
	assert.Equal(t, 300, progress.PagesRead)
	assert.Equal(t, 75, progress.BookProgress)
	assert.Equal(t, 100, progress.PageProgress, "page progress is capped")

	current, err := env.Goals.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2025, current.Year)
}

func TestGoalService_DeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goal, err := env.Goals.Set(ctx, "user-owner", SetGoalRequest{Year: 2025, TargetBooks: 12})
	require.NoError(t, err)

	require.NoError(t, env.Goals.Delete(ctx, goal.ID))
	require.NoError(t, env.Goals.Delete(ctx, goal.ID))

	goals, err := env.Goals.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}
