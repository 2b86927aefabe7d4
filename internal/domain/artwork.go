package domain

import "time"

// Artwork is a gallery piece. Only published artworks are shown publicly.
type Artwork struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl"`
	StorageID   string    `json:"storageId,omitempty"`
	BlurHash    string    `json:"blurHash,omitempty"`
	Style       string    `json:"style,omitempty"`
	Medium      string    `json:"medium,omitempty"`
	SeriesID    string    `json:"seriesId,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	IsPublished bool      `json:"isPublished"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ArtworkPatch lists the fields an update may change. Nil means unchanged.
type ArtworkPatch struct {
	Title       *string
	Description *string
	ImageURL    *string
	StorageID   *string
	Style       *string
	Medium      *string
	SeriesID    *string
	Tags        *[]string
	IsPublished *bool
}

// Apply copies the set fields of p onto a.
func (p *ArtworkPatch) Apply(a *Artwork) {
	setString(&a.Title, p.Title)
	setString(&a.Description, p.Description)
	setString(&a.ImageURL, p.ImageURL)
	setString(&a.StorageID, p.StorageID)
	setString(&a.Style, p.Style)
	setString(&a.Medium, p.Medium)
	setString(&a.SeriesID, p.SeriesID)
	if p.Tags != nil {
		a.Tags = *p.Tags
	}
	if p.IsPublished != nil {
		a.IsPublished = *p.IsPublished
	}
}

// ArtSeries groups related artworks.
type ArtSeries struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	IsComplete    bool      `json:"isComplete"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ArtSeriesPatch lists the fields a series update may change.
type ArtSeriesPatch struct {
	Title         *string
	Description   *string
	CoverImageURL *string
	IsComplete    *bool
}

// Apply copies the set fields of p onto s.
func (p *ArtSeriesPatch) Apply(s *ArtSeries) {
	setString(&s.Title, p.Title)
	setString(&s.Description, p.Description)
	setString(&s.CoverImageURL, p.CoverImageURL)
	if p.IsComplete != nil {
		s.IsComplete = *p.IsComplete
	}
}
