package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/elisereads/elisereads-server/internal/domain"
)

// GetSiteSettings returns the stored settings, or nil when none were saved.
func (s *Store) GetSiteSettings(ctx context.Context) (*domain.SiteSettings, error) {
	var (
		st                                          domain.SiteSettings
		name, title, subtitle, desc, imgURL, imgSID sql.NullString
		updatedAt                                   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT site_name, hero_title, hero_subtitle, hero_description, hero_image_url,
			hero_image_storage_id, updated_at
		FROM site_settings WHERE id = 1`).
		Scan(&name, &title, &subtitle, &desc, &imgURL, &imgSID, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	st.SiteName = name.String
	st.HeroTitle = title.String
	st.HeroSubtitle = subtitle.String
	st.HeroDescription = desc.String
	st.HeroImageURL = imgURL.String
	st.HeroImageStorageID = imgSID.String
	if st.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveSiteSettings upserts the singleton settings row.
func (s *Store) SaveSiteSettings(ctx context.Context, st *domain.SiteSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_settings (id, site_name, hero_title, hero_subtitle, hero_description,
			hero_image_url, hero_image_storage_id, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			site_name = excluded.site_name,
			hero_title = excluded.hero_title,
			hero_subtitle = excluded.hero_subtitle,
			hero_description = excluded.hero_description,
			hero_image_url = excluded.hero_image_url,
			hero_image_storage_id = excluded.hero_image_storage_id,
			updated_at = excluded.updated_at`,
		nullString(st.SiteName), nullString(st.HeroTitle), nullString(st.HeroSubtitle),
		nullString(st.HeroDescription), nullString(st.HeroImageURL),
		nullString(st.HeroImageStorageID), formatTime(st.UpdatedAt),
	)
	return err
}
