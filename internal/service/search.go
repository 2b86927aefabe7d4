package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/search"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
)

// SearchService keeps the search index in step with the content store and
// runs queries against it. A nil index disables search; the sync methods
// then do nothing.
type SearchService struct {
	index  *search.Index
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, store *sqlite.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: discardLogger(logger),
	}
}

// QueryRequest is a search as received from the API.
type QueryRequest struct {
	Query  string
	Types  string // comma separated: book, artwork, series
	Limit  int
	Offset int
}

// Query runs a full-text search.
func (s *SearchService) Query(ctx context.Context, req QueryRequest) (*search.Result, error) {
	if s.index == nil {
		return nil, domainerrors.Internal("search is unavailable")
	}

	params := search.Params{Query: req.Query, Limit: req.Limit, Offset: req.Offset}
	for t := range strings.SplitSeq(req.Types, ",") {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		if !search.ValidDocType(t) {
			return nil, domainerrors.Validationf("unknown search type %q", t)
		}
		params.Types = append(params.Types, search.DocType(t))
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return result, nil
}

// IndexBook adds or replaces a book in the index.
func (s *SearchService) IndexBook(book *domain.Book) {
	if s.index == nil {
		return
	}
	if err := s.index.Put(search.BookDocument(book)); err != nil {
		s.logger.Warn("failed to index book", "id", book.ID, "error", err)
	}
}

// IndexArtwork adds or replaces an artwork. Unpublished artworks are
// removed instead so they never show up in results.
func (s *SearchService) IndexArtwork(artwork *domain.Artwork) {
	if s.index == nil {
		return
	}
	if !search.Indexable(artwork) {
		s.Remove(artwork.ID)
		return
	}
	if err := s.index.Put(search.ArtworkDocument(artwork)); err != nil {
		s.logger.Warn("failed to index artwork", "id", artwork.ID, "error", err)
	}
}

// IndexSeries adds or replaces an art series.
func (s *SearchService) IndexSeries(series *domain.ArtSeries) {
	if s.index == nil {
		return
	}
	if err := s.index.Put(search.SeriesDocument(series)); err != nil {
		s.logger.Warn("failed to index series", "id", series.ID, "error", err)
	}
}

// Remove drops a document of any type.
func (s *SearchService) Remove(id string) {
	if s.index == nil {
		return
	}
	if err := s.index.Delete(id); err != nil {
		s.logger.Warn("failed to remove document from index", "id", id, "error", err)
	}
}

// NeedsReindex reports whether the index was recreated empty at startup.
func (s *SearchService) NeedsReindex() bool {
	return s.index != nil && s.index.NeedsReindex()
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	if s.index == nil {
		return 0, nil
	}
	return s.index.Count()
}

// Reindex rebuilds the index from the content store and returns the
// number of documents written.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, domainerrors.Internal("search is unavailable")
	}
	s.logger.Info("starting full reindex")

	books, err := s.store.ListBooks(ctx, sqlite.BookFilter{})
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	artworks, err := s.store.ListArtworks(ctx, sqlite.ArtworkFilter{PublishedOnly: true})
	if err != nil {
		return 0, fmt.Errorf("list artworks: %w", err)
	}
	series, err := s.store.ListSeries(ctx)
	if err != nil {
		return 0, fmt.Errorf("list series: %w", err)
	}

	docs := make([]*search.Document, 0, len(books)+len(artworks)+len(series))
	for _, b := range books {
		docs = append(docs, search.BookDocument(b))
	}
	for _, a := range artworks {
		docs = append(docs, search.ArtworkDocument(a))
	}
	for _, sr := range series {
		docs = append(docs, search.SeriesDocument(sr))
	}

	if err := s.index.Rebuild(docs); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}
	s.logger.Info("full reindex complete",
		"books", len(books),
		"artworks", len(artworks),
		"series", len(series),
	)
	return len(docs), nil
}
