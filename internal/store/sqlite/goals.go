package sqlite

import (
	"context"
	"database/sql"

	"github.com/elisereads/elisereads-server/internal/domain"
)

const goalColumns = `id, user_id, year, target_books, target_pages, created_at`

func scanGoal(sc scanner) (*domain.ReadingGoal, error) {
	var (
		g           domain.ReadingGoal
		targetPages sql.NullInt64
		createdAt   string
	)
	if err := sc.Scan(&g.ID, &g.UserID, &g.Year, &g.TargetBooks, &targetPages, &createdAt); err != nil {
		return nil, err
	}
	g.TargetPages = intPtr(targetPages)

	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertGoal stores the goal for g.Year, replacing the targets of an existing
// goal for that year. It returns the stored goal; an existing goal keeps its
// ID and creation time.
func (s *Store) UpsertGoal(ctx context.Context, g *domain.ReadingGoal) (*domain.ReadingGoal, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO reading_goals (id, user_id, year, target_books, target_pages, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			target_books = excluded.target_books,
			target_pages = excluded.target_pages
		RETURNING `+goalColumns,
		g.ID, g.UserID, g.Year, g.TargetBooks, nullInt(g.TargetPages), formatTime(g.CreatedAt),
	)
	stored, err := scanGoal(row)
	if err != nil {
		return nil, mapWriteError(err)
	}
	return stored, nil
}

// GetGoalByYear returns the goal for year.
func (s *Store) GetGoalByYear(ctx context.Context, year int) (*domain.ReadingGoal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM reading_goals WHERE year = ?`, year)
	g, err := scanGoal(row)
	if err != nil {
		return nil, notFound(err, "Goal not found")
	}
	return g, nil
}

// ListGoals returns goals, newest year first.
func (s *Store) ListGoals(ctx context.Context) ([]*domain.ReadingGoal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM reading_goals ORDER BY year DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanGoal)
}

// DeleteGoal removes a goal. Deleting a missing goal is not an error.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM reading_goals WHERE id = ?`, id)
	return err
}
