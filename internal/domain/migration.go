package domain

// OrphanedBook identifies a book attributed to another account.
type OrphanedBook struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	OldUserID string `json:"oldUserId"`
}

// OrphanReport counts records not attributed to CurrentUserID.
type OrphanReport struct {
	CurrentUserID    string         `json:"currentUserId"`
	TotalBooks       int            `json:"totalBooks"`
	TotalArtworks    int            `json:"totalArtworks"`
	TotalSeries      int            `json:"totalSeries"`
	OrphanedBooks    int            `json:"orphanedBooks"`
	OrphanedArtworks int            `json:"orphanedArtworks"`
	OrphanedSeries   int            `json:"orphanedSeries"`
	OrphanedBookIDs  []OrphanedBook `json:"orphanedBookIds"`
}

// ClaimResult reports how many records were reassigned.
type ClaimResult struct {
	BooksUpdated    int    `json:"booksUpdated"`
	ArtworksUpdated int    `json:"artworksUpdated"`
	SeriesUpdated   int    `json:"seriesUpdated"`
	NewUserID       string `json:"newUserId"`
}
