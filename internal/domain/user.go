package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin is the site owner. Only admins may change site content.
	RoleAdmin Role = "admin"
	// RoleMember may manage their own profile.
	RoleMember Role = "member"
)

// User represents an authenticated account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	DisplayName  string     `json:"displayName"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// IsAdmin reports whether the user owns the site.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Name returns the best available name to display for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
