package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/elisereads/elisereads-server/internal/domain"
)

// artworkColumns must match the scan order in scanArtwork.
const artworkColumns = `id, user_id, title, description, image_url, storage_id, blur_hash,
	style, medium, series_id, tags, is_published, likes, created_at`

func scanArtwork(sc scanner) (*domain.Artwork, error) {
	var (
		a           domain.Artwork
		description sql.NullString
		storageID   sql.NullString
		blurHash    sql.NullString
		style       sql.NullString
		medium      sql.NullString
		seriesID    sql.NullString
		tags        string
		isPublished int
		createdAt   string
	)
	err := sc.Scan(&a.ID, &a.UserID, &a.Title, &description, &a.ImageURL, &storageID,
		&blurHash, &style, &medium, &seriesID, &tags, &isPublished, &a.Likes, &createdAt)
	if err != nil {
		return nil, err
	}

	a.Description = description.String
	a.StorageID = storageID.String
	a.BlurHash = blurHash.String
	a.Style = style.String
	a.Medium = medium.String
	a.SeriesID = seriesID.String
	a.IsPublished = isPublished != 0

	if a.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateArtwork inserts a new artwork.
func (s *Store) CreateArtwork(ctx context.Context, a *domain.Artwork) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artworks (id, user_id, title, description, image_url, storage_id, blur_hash,
			style, medium, series_id, tags, is_published, likes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Title, nullString(a.Description), a.ImageURL, nullString(a.StorageID),
		nullString(a.BlurHash), nullString(a.Style), nullString(a.Medium), nullString(a.SeriesID),
		encodeTags(a.Tags), boolToInt(a.IsPublished), a.Likes, formatTime(a.CreatedAt),
	)
	return mapWriteError(err)
}

// GetArtwork retrieves an artwork by ID.
func (s *Store) GetArtwork(ctx context.Context, id string) (*domain.Artwork, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artworkColumns+` FROM artworks WHERE id = ?`, id)
	a, err := scanArtwork(row)
	if err != nil {
		return nil, notFound(err, "Artwork not found")
	}
	return a, nil
}

// ArtworkFilter narrows ListArtworks. Zero values mean "any"; a Limit <= 0 means no cap.
type ArtworkFilter struct {
	PublishedOnly bool
	SeriesID      string
	UserID        string
	Limit         int
}

// ListArtworks returns artworks matching f, newest first.
func (s *Store) ListArtworks(ctx context.Context, f ArtworkFilter) ([]*domain.Artwork, error) {
	var (
		where []string
		args  []any
	)
	if f.PublishedOnly {
		where = append(where, "is_published = 1")
	}
	if f.SeriesID != "" {
		where = append(where, "series_id = ?")
		args = append(args, f.SeriesID)
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}

	query := `SELECT ` + artworkColumns + ` FROM artworks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanArtwork)
}

// UpdateArtwork saves every mutable field of a. Likes are only changed by LikeArtwork.
func (s *Store) UpdateArtwork(ctx context.Context, a *domain.Artwork) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE artworks SET title = ?, description = ?, image_url = ?, storage_id = ?,
			blur_hash = ?, style = ?, medium = ?, series_id = ?, tags = ?, is_published = ?
		WHERE id = ?`,
		a.Title, nullString(a.Description), a.ImageURL, nullString(a.StorageID),
		nullString(a.BlurHash), nullString(a.Style), nullString(a.Medium), nullString(a.SeriesID),
		encodeTags(a.Tags), boolToInt(a.IsPublished), a.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return requireRow(res, "Artwork not found")
}

// LikeArtwork atomically increments the like counter and returns the new count.
func (s *Store) LikeArtwork(ctx context.Context, id string) (int, error) {
	var likes int
	err := s.db.QueryRowContext(ctx,
		`UPDATE artworks SET likes = likes + 1 WHERE id = ? RETURNING likes`, id).Scan(&likes)
	if err != nil {
		return 0, notFound(err, "Artwork not found")
	}
	return likes, nil
}

// DeleteArtwork removes an artwork.
func (s *Store) DeleteArtwork(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM artworks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "Artwork not found")
}

// ArtworkCounts fills the artwork fields of a stats summary for userID.
func (s *Store) ArtworkCounts(ctx context.Context, userID string) (total, published int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(is_published), 0)
		FROM artworks WHERE user_id = ?`, userID).Scan(&total, &published)
	return total, published, err
}
