package domain

import "time"

// SuggestionStatus is the moderation state of a visitor suggestion.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s SuggestionStatus) Valid() bool {
	switch s {
	case SuggestionPending, SuggestionApproved, SuggestionRejected:
		return true
	default:
		return false
	}
}

// BookSuggestion is a book a visitor recommended.
type BookSuggestion struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Author           string           `json:"author"`
	CoverURL         string           `json:"coverUrl,omitempty"`
	SuggestedBy      string           `json:"suggestedBy"`
	SuggestedByEmail string           `json:"suggestedByEmail,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	Genre            string           `json:"genre,omitempty"`
	Status           SuggestionStatus `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
	ReviewedAt       *time.Time       `json:"reviewedAt,omitempty"`
}

// DuplicateCheck is the answer to "is this book already known?".
type DuplicateCheck struct {
	Exists     bool            `json:"exists"`
	Location   string          `json:"location,omitempty"`
	Book       *Book           `json:"book,omitempty"`
	Suggestion *BookSuggestion `json:"suggestion,omitempty"`
}

// Duplicate locations reported to visitors.
const (
	LocationAlreadyRead      = "already read"
	LocationCurrentlyReading = "currently reading"
	LocationOnWishlist       = "already on wishlist"
	LocationSuggested        = "already suggested"
)

// ShelfLocation describes where a book with the given status lives.
func ShelfLocation(status BookStatus) string {
	switch status {
	case BookStatusRead:
		return LocationAlreadyRead
	case BookStatusReading:
		return LocationCurrentlyReading
	default:
		return LocationOnWishlist
	}
}
