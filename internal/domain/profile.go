package domain

import "time"

// Theme is a UI color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeKawaii Theme = "kawaii"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeKawaii:
		return true
	default:
		return false
	}
}

// UserProfile holds per-user presentation settings. One per user.
type UserProfile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Username       string    `json:"username,omitempty"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	IsParent       bool      `json:"isParent"`
	Theme          Theme     `json:"theme,omitempty"`
	YearlyBookGoal *int      `json:"yearlyBookGoal,omitempty"`
	Notifications  *bool     `json:"notifications,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfilePatch lists the fields a profile update may change.
type ProfilePatch struct {
	Name           *string
	Username       *string
	AvatarURL      *string
	Bio            *string
	Theme          *Theme
	YearlyBookGoal *int
	Notifications  *bool
}

// Apply copies the set fields of p onto u.
func (p *ProfilePatch) Apply(u *UserProfile) {
	setString(&u.Name, p.Name)
	setString(&u.Username, p.Username)
	setString(&u.AvatarURL, p.AvatarURL)
	setString(&u.Bio, p.Bio)
	if p.Theme != nil {
		u.Theme = *p.Theme
	}
	if p.YearlyBookGoal != nil {
		u.YearlyBookGoal = p.YearlyBookGoal
	}
	if p.Notifications != nil {
		u.Notifications = p.Notifications
	}
}

// Stats summarizes the records attributed to one user.
type Stats struct {
	BooksRead         int `json:"booksRead"`
	BooksReading      int `json:"booksReading"`
	BooksWishlist     int `json:"booksWishlist"`
	TotalBooks        int `json:"totalBooks"`
	TotalPages        int `json:"totalPages"`
	Favorites         int `json:"favorites"`
	TotalArtworks     int `json:"totalArtworks"`
	PublishedArtworks int `json:"publishedArtworks"`
}
