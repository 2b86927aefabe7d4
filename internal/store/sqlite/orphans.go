package sqlite

import (
	"context"
	"database/sql"

	"github.com/elisereads/elisereads-server/internal/domain"
)

// OrphanReport counts books, artworks and series attributed to someone other than userID.
func (s *Store) OrphanReport(ctx context.Context, userID string) (*domain.OrphanReport, error) {
	r := &domain.OrphanReport{CurrentUserID: userID, OrphanedBookIDs: []domain.OrphanedBook{}}

	counts := []struct {
		table          string
		total, orphans *int
	}{
		{"books", &r.TotalBooks, &r.OrphanedBooks},
		{"artworks", &r.TotalArtworks, &r.OrphanedArtworks},
		{"art_series", &r.TotalSeries, &r.OrphanedSeries},
	}
	for _, c := range counts {
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*), COALESCE(SUM(user_id <> ?), 0) FROM `+c.table, userID).
			Scan(c.total, c.orphans)
		if err != nil {
			return nil, err
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, user_id FROM books WHERE user_id <> ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ob domain.OrphanedBook
		if err := rows.Scan(&ob.ID, &ob.Title, &ob.OldUserID); err != nil {
			return nil, err
		}
		r.OrphanedBookIDs = append(r.OrphanedBookIDs, ob)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// ClaimOrphans reassigns every book, artwork and series to userID in one transaction.
func (s *Store) ClaimOrphans(ctx context.Context, userID string) (*domain.ClaimResult, error) {
	result := &domain.ClaimResult{NewUserID: userID}

	targets := []struct {
		table string
		n     *int
	}{
		{"books", &result.BooksUpdated},
		{"artworks", &result.ArtworksUpdated},
		{"art_series", &result.SeriesUpdated},
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range targets {
			res, err := tx.ExecContext(ctx, `UPDATE `+t.table+` SET user_id = ? WHERE user_id <> ?`, userID, userID)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			*t.n = int(n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
