package sqlite

import (
	"context"
	"database/sql"

	"github.com/elisereads/elisereads-server/internal/domain"
)

// seriesColumns must match the scan order in scanSeries.
const seriesColumns = `id, user_id, title, description, cover_image_url, is_complete, created_at`

func scanSeries(sc scanner) (*domain.ArtSeries, error) {
	var (
		s           domain.ArtSeries
		description sql.NullString
		coverURL    sql.NullString
		isComplete  int
		createdAt   string
	)
	if err := sc.Scan(&s.ID, &s.UserID, &s.Title, &description, &coverURL, &isComplete, &createdAt); err != nil {
		return nil, err
	}
	s.Description = description.String
	s.CoverImageURL = coverURL.String
	s.IsComplete = isComplete != 0

	var err error
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSeries inserts a new art series.
func (s *Store) CreateSeries(ctx context.Context, series *domain.ArtSeries) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO art_series (id, user_id, title, description, cover_image_url, is_complete, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		series.ID, series.UserID, series.Title, nullString(series.Description),
		nullString(series.CoverImageURL), boolToInt(series.IsComplete), formatTime(series.CreatedAt),
	)
	return mapWriteError(err)
}

// GetSeries retrieves a series by ID.
func (s *Store) GetSeries(ctx context.Context, id string) (*domain.ArtSeries, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+seriesColumns+` FROM art_series WHERE id = ?`, id)
	series, err := scanSeries(row)
	if err != nil {
		return nil, notFound(err, "Series not found")
	}
	return series, nil
}

// ListSeries returns every series, newest first.
func (s *Store) ListSeries(ctx context.Context) ([]*domain.ArtSeries, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seriesColumns+` FROM art_series ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSeries)
}

// UpdateSeries saves every mutable field of series.
func (s *Store) UpdateSeries(ctx context.Context, series *domain.ArtSeries) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE art_series SET title = ?, description = ?, cover_image_url = ?, is_complete = ?
		WHERE id = ?`,
		series.Title, nullString(series.Description), nullString(series.CoverImageURL),
		boolToInt(series.IsComplete), series.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return requireRow(res, "Series not found")
}

// DeleteSeries removes a series and detaches its artworks. It returns the
// IDs of the artworks that were detached.
func (s *Store) DeleteSeries(ctx context.Context, id string) ([]string, error) {
	var detached []string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`UPDATE artworks SET series_id = NULL WHERE series_id = ? RETURNING id`, id)
		if err != nil {
			return err
		}
		for rows.Next() {
			var artworkID string
			if err := rows.Scan(&artworkID); err != nil {
				rows.Close()
				return err
			}
			detached = append(detached, artworkID)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		if err := rows.Close(); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM art_series WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireRow(res, "Series not found")
	})
	if err != nil {
		return nil, err
	}
	return detached, nil
}
