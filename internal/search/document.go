// Package search provides full-text search over books, artworks and art
// series using a single Bleve index with a type discriminator.
package search

import (
	"github.com/elisereads/elisereads-server/internal/domain"
)

// DocType discriminates documents in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeBook    DocType = "book"
	DocTypeArtwork DocType = "artwork"
	DocTypeSeries  DocType = "series"
)

// ValidDocType reports whether t names an indexed type.
func ValidDocType(t string) bool {
	switch DocType(t) {
	case DocTypeBook, DocTypeArtwork, DocTypeSeries:
		return true
	}
	return false
}

// Document is the flattened form every searchable record is indexed as.
// Name holds the title for all three types.
type Document struct {
	ID   string
	Type DocType
	Name string

	Author      string   // books
	SeriesName  string   // books
	Genre       string   // books
	Status      string   // books
	Description string   // artworks and series
	Medium      string   // artworks
	Tags        []string // artworks
	ImageURL    string   // cover, artwork image or series cover

	CreatedAt int64 // unix millis
}

// ToMap converts the document to the lowercase field names the mapping uses.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"created_at": d.CreatedAt,
	}

	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.SeriesName != "" {
		m["series_name"] = d.SeriesName
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if d.Status != "" {
		m["status"] = d.Status
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Medium != "" {
		m["medium"] = d.Medium
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.ImageURL != "" {
		m["image_url"] = d.ImageURL
	}
	return m
}

// BookDocument converts a book for indexing.
func BookDocument(b *domain.Book) *Document {
	return &Document{
		ID:         b.ID,
		Type:       DocTypeBook,
		Name:       b.Title,
		Author:     b.Author,
		SeriesName: b.Series,
		Genre:      b.Genre,
		Status:     string(b.Status),
		ImageURL:   b.CoverURL,
		CreatedAt:  b.CreatedAt.UnixMilli(),
	}
}

// ArtworkDocument converts an artwork for indexing. Callers must not index
// unpublished artworks; see Indexable.
func ArtworkDocument(a *domain.Artwork) *Document {
	return &Document{
		ID:          a.ID,
		Type:        DocTypeArtwork,
		Name:        a.Title,
		Description: a.Description,
		Medium:      a.Medium,
		Tags:        a.Tags,
		ImageURL:    a.ImageURL,
		CreatedAt:   a.CreatedAt.UnixMilli(),
	}
}

// SeriesDocument converts an art series for indexing.
func SeriesDocument(s *domain.ArtSeries) *Document {
	return &Document{
		ID:          s.ID,
		Type:        DocTypeSeries,
		Name:        s.Title,
		Description: s.Description,
		ImageURL:    s.CoverImageURL,
		CreatedAt:   s.CreatedAt.UnixMilli(),
	}
}

// Indexable reports whether an artwork may appear in search results.
func Indexable(a *domain.Artwork) bool {
	return a.IsPublished
}
