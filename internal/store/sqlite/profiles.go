package sqlite

import (
	"context"
	"database/sql"

	"github.com/elisereads/elisereads-server/internal/domain"
)

// profileColumns must match the scan order in scanProfile.
const profileColumns = `id, user_id, name, username, avatar_url, bio, is_parent, theme,
	yearly_book_goal, notifications, created_at, updated_at`

func scanProfile(sc scanner) (*domain.UserProfile, error) {
	var (
		p             domain.UserProfile
		username      sql.NullString
		avatarURL     sql.NullString
		bio           sql.NullString
		isParent      int
		theme         sql.NullString
		yearlyGoal    sql.NullInt64
		notifications sql.NullInt64
		createdAt     string
		updatedAt     string
	)
	err := sc.Scan(&p.ID, &p.UserID, &p.Name, &username, &avatarURL, &bio, &isParent,
		&theme, &yearlyGoal, &notifications, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Username = username.String
	p.AvatarURL = avatarURL.String
	p.Bio = bio.String
	p.IsParent = isParent != 0
	p.Theme = domain.Theme(theme.String)
	p.YearlyBookGoal = intPtr(yearlyGoal)
	p.Notifications = boolPtr(notifications)

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a profile. The user ID and username must be unique.
func (s *Store) CreateProfile(ctx context.Context, p *domain.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (id, user_id, name, username, avatar_url, bio, is_parent,
			theme, yearly_book_goal, notifications, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, nullString(p.Username), nullString(p.AvatarURL), nullString(p.Bio),
		boolToInt(p.IsParent), nullString(string(p.Theme)), nullInt(p.YearlyBookGoal),
		nullBool(p.Notifications), formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	return mapWriteError(err)
}

// GetProfileByUser returns the profile of userID.
func (s *Store) GetProfileByUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = ?`, userID)
	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err, "Profile not found")
	}
	return p, nil
}

// GetProfileByUsername returns the profile with the given username.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*domain.UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE username = ?`, username)
	p, err := scanProfile(row)
	if err != nil {
		return nil, notFound(err, "Profile not found")
	}
	return p, nil
}

// UpdateProfile saves every mutable field of p.
func (s *Store) UpdateProfile(ctx context.Context, p *domain.UserProfile) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_profiles SET name = ?, username = ?, avatar_url = ?, bio = ?, is_parent = ?,
			theme = ?, yearly_book_goal = ?, notifications = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, nullString(p.Username), nullString(p.AvatarURL), nullString(p.Bio),
		boolToInt(p.IsParent), nullString(string(p.Theme)), nullInt(p.YearlyBookGoal),
		nullBool(p.Notifications), formatTime(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return requireRow(res, "Profile not found")
}
