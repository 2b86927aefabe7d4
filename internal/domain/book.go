package domain

import "time"

// BookStatus is where a book sits on the reading shelf.
type BookStatus string

const (
	BookStatusReading  BookStatus = "reading"
	BookStatusRead     BookStatus = "read"
	BookStatusWishlist BookStatus = "wishlist"
)

// Valid reports whether s is one of the known statuses.
func (s BookStatus) Valid() bool {
	switch s {
	case BookStatusReading, BookStatusRead, BookStatusWishlist:
		return true
	default:
		return false
	}
}

// Book is a tracked book. UserID records who added it.
type Book struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Title          string     `json:"title"`
	Author         string     `json:"author"`
	CoverURL       string     `json:"coverUrl,omitempty"`
	CoverStorageID string     `json:"coverStorageId,omitempty"`
	ISBN           string     `json:"isbn,omitempty"`
	Genre          string     `json:"genre,omitempty"`
	Series         string     `json:"series,omitempty"`
	PageCount      *int       `json:"pageCount,omitempty"`
	PagesRead      *int       `json:"pagesRead,omitempty"`
	Description    string     `json:"description,omitempty"`
	Status         BookStatus `json:"status"`
	Rating         *int       `json:"rating,omitempty"`
	Review         string     `json:"review,omitempty"`
	IsFavorite     bool       `json:"isFavorite"`
	GiftedBy       string     `json:"giftedBy,omitempty"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// StampInitialStatus sets the timestamps a freshly added book carries for its status.
func (b *Book) StampInitialStatus(now time.Time) {
	switch b.Status {
	case BookStatusReading:
		b.StartedAt = &now
	case BookStatusRead:
		b.FinishedAt = &now
	}
}

// MoveTo changes the status. Entering read from another status stamps
// FinishedAt; entering reading stamps StartedAt only if it was never set.
// Repeating the current status changes nothing.
func (b *Book) MoveTo(status BookStatus, now time.Time) {
	if status == b.Status {
		return
	}
	switch status {
	case BookStatusRead:
		b.FinishedAt = &now
	case BookStatusReading:
		if b.StartedAt == nil {
			b.StartedAt = &now
		}
	}
	b.Status = status
}

// Pages returns PageCount, treating unset as zero.
func (b *Book) Pages() int {
	if b.PageCount == nil {
		return 0
	}
	return *b.PageCount
}

// BookPatch lists the fields an update may change. Nil means unchanged.
type BookPatch struct {
	Title          *string
	Author         *string
	CoverURL       *string
	CoverStorageID *string
	ISBN           *string
	Genre          *string
	Series         *string
	PageCount      *int
	PagesRead      *int
	Description    *string
	Status         *BookStatus
	Rating         *int
	Review         *string
	IsFavorite     *bool
	GiftedBy       *string
}

// Apply copies the set fields of p onto b. Status changes go through MoveTo.
func (p *BookPatch) Apply(b *Book, now time.Time) {
	setString(&b.Title, p.Title)
	setString(&b.Author, p.Author)
	setString(&b.CoverURL, p.CoverURL)
	setString(&b.CoverStorageID, p.CoverStorageID)
	setString(&b.ISBN, p.ISBN)
	setString(&b.Genre, p.Genre)
	setString(&b.Series, p.Series)
	setString(&b.Description, p.Description)
	setString(&b.Review, p.Review)
	setString(&b.GiftedBy, p.GiftedBy)
	if p.PageCount != nil {
		b.PageCount = p.PageCount
	}
	if p.PagesRead != nil {
		b.PagesRead = p.PagesRead
	}
	if p.Rating != nil {
		b.Rating = p.Rating
	}
	if p.IsFavorite != nil {
		b.IsFavorite = *p.IsFavorite
	}
	if p.Status != nil {
		b.MoveTo(*p.Status, now)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
