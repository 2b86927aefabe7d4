package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, email, password_hash, role, display_name, created_at, updated_at, last_login_at`

func scanUser(sc scanner) (*domain.User, error) {
	var (
		u           domain.User
		role        string
		createdAt   string
		updatedAt   string
		lastLoginAt sql.NullString
	)
	if err := sc.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.DisplayName,
		&createdAt, &updatedAt, &lastLoginAt); err != nil {
		return nil, err
	}

	var err error
	u.Role = domain.Role(role)
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if u.LastLoginAt, err = parseNullableTime(lastLoginAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists if the ID or email (case-insensitive) is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, email_lower, password_hash, role, display_name,
			created_at, updated_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, emailKey(user.Email), user.PasswordHash, string(user.Role),
		user.DisplayName, formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
		nullTimeString(user.LastLoginAt),
	)
	return mapWriteError(err)
}

// CreateFirstUser inserts user only if no user exists yet. Returns
// store.ErrAlreadyExists otherwise. The check and insert share a transaction
// so two concurrent setups cannot both succeed.
func (s *Store) CreateFirstUser(ctx context.Context, user *domain.User) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return store.ErrAlreadyExists.WithMessage("server already configured")
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, email_lower, password_hash, role, display_name,
				created_at, updated_at, last_login_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			user.ID, user.Email, emailKey(user.Email), user.PasswordHash, string(user.Role),
			user.DisplayName, formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
			nullTimeString(user.LastLoginAt),
		)
		return mapWriteError(err)
	})
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return u, nil
}

// GetUserByEmail retrieves a user by case-insensitive email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email_lower = ?`, emailKey(email))
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return u, nil
}

// ListUsers returns all users, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// UpdateUser saves mutable user fields.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET email = ?, email_lower = ?, password_hash = ?, role = ?,
			display_name = ?, updated_at = ?, last_login_at = ?
		WHERE id = ?`,
		user.Email, emailKey(user.Email), user.PasswordHash, string(user.Role),
		user.DisplayName, formatTime(user.UpdatedAt), nullTimeString(user.LastLoginAt),
		user.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return requireRow(res, "User not found")
}
