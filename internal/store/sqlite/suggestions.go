package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/normalize"
	"github.com/elisereads/elisereads-server/internal/store"
)

// suggestionColumns must match the scan order in scanSuggestion.
const suggestionColumns = `id, title, author, cover_url, suggested_by, suggested_by_email,
	reason, genre, status, created_at, reviewed_at`

func scanSuggestion(sc scanner) (*domain.BookSuggestion, error) {
	var (
		sg         domain.BookSuggestion
		coverURL   sql.NullString
		email      sql.NullString
		reason     sql.NullString
		genre      sql.NullString
		status     string
		createdAt  string
		reviewedAt sql.NullString
	)
	err := sc.Scan(&sg.ID, &sg.Title, &sg.Author, &coverURL, &sg.SuggestedBy, &email,
		&reason, &genre, &status, &createdAt, &reviewedAt)
	if err != nil {
		return nil, err
	}
	sg.CoverURL = coverURL.String
	sg.SuggestedByEmail = email.String
	sg.Reason = reason.String
	sg.Genre = genre.String
	sg.Status = domain.SuggestionStatus(status)

	if sg.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sg.ReviewedAt, err = parseNullableTime(reviewedAt); err != nil {
		return nil, err
	}
	return &sg, nil
}

func insertSuggestion(ctx context.Context, q querier, sg *domain.BookSuggestion) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO book_suggestions (id, title, author, title_key, author_key, cover_url,
			suggested_by, suggested_by_email, reason, genre, status, created_at, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sg.ID, sg.Title, sg.Author, normalize.Key(sg.Title), normalize.Key(sg.Author),
		nullString(sg.CoverURL), sg.SuggestedBy, nullString(sg.SuggestedByEmail),
		nullString(sg.Reason), nullString(sg.Genre), string(sg.Status),
		formatTime(sg.CreatedAt), nullTimeString(sg.ReviewedAt),
	)
	return mapWriteError(err)
}

// CreateSuggestionIfAbsent inserts sg unless its title and author already
// match a shelved book or a pending suggestion. The returned check reports
// what was found; when Exists is false sg was written.
func (s *Store) CreateSuggestionIfAbsent(ctx context.Context, sg *domain.BookSuggestion) (*domain.DuplicateCheck, error) {
	check := &domain.DuplicateCheck{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		book, err := findBookByKey(ctx, tx, sg.Title, sg.Author)
		if err != nil {
			return err
		}
		if book != nil {
			check = &domain.DuplicateCheck{Exists: true, Location: domain.ShelfLocation(book.Status), Book: book}
			return nil
		}
		pending, err := findPendingSuggestionByKey(ctx, tx, sg.Title, sg.Author)
		if err != nil {
			return err
		}
		if pending != nil {
			check = &domain.DuplicateCheck{Exists: true, Location: domain.LocationSuggested, Suggestion: pending}
			return nil
		}
		return insertSuggestion(ctx, tx, sg)
	})
	if err != nil {
		return nil, err
	}
	return check, nil
}

// GetSuggestion retrieves a suggestion by ID.
func (s *Store) GetSuggestion(ctx context.Context, id string) (*domain.BookSuggestion, error) {
	return getSuggestion(ctx, s.db, id)
}

func getSuggestion(ctx context.Context, q querier, id string) (*domain.BookSuggestion, error) {
	row := q.QueryRowContext(ctx, `SELECT `+suggestionColumns+` FROM book_suggestions WHERE id = ?`, id)
	sg, err := scanSuggestion(row)
	if err != nil {
		return nil, notFound(err, "Suggestion not found")
	}
	return sg, nil
}

// ListSuggestions returns suggestions newest first, optionally only those with status.
func (s *Store) ListSuggestions(ctx context.Context, status domain.SuggestionStatus) ([]*domain.BookSuggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM book_suggestions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSuggestion)
}

// FindPendingSuggestionByKey returns the oldest pending suggestion with the
// same normalized title and author, or nil.
func (s *Store) FindPendingSuggestionByKey(ctx context.Context, title, author string) (*domain.BookSuggestion, error) {
	return findPendingSuggestionByKey(ctx, s.db, title, author)
}

func findPendingSuggestionByKey(ctx context.Context, q querier, title, author string) (*domain.BookSuggestion, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+suggestionColumns+` FROM book_suggestions
		WHERE title_key = ? AND author_key = ? AND status = 'pending'
		ORDER BY created_at ASC LIMIT 1`,
		normalize.Key(title), normalize.Key(author))
	sg, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sg, nil
}

// SetSuggestionStatus records a moderation decision.
func (s *Store) SetSuggestionStatus(ctx context.Context, id string, status domain.SuggestionStatus, reviewedAt time.Time) error {
	return setSuggestionStatus(ctx, s.db, id, status, reviewedAt)
}

func setSuggestionStatus(ctx context.Context, q querier, id string, status domain.SuggestionStatus, reviewedAt time.Time) error {
	res, err := q.ExecContext(ctx,
		`UPDATE book_suggestions SET status = ?, reviewed_at = ? WHERE id = ?`,
		string(status), formatTime(reviewedAt), id)
	if err != nil {
		return mapWriteError(err)
	}
	return requireRow(res, "Suggestion not found")
}

// DeleteSuggestion removes a suggestion.
func (s *Store) DeleteSuggestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM book_suggestions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "Suggestion not found")
}

// AddSuggestionToBooks turns a suggestion into a wishlist book and marks the
// suggestion approved, atomically. build receives the suggestion and returns
// the book to insert.
func (s *Store) AddSuggestionToBooks(ctx context.Context, id string, now time.Time,
	build func(*domain.BookSuggestion) *domain.Book) (*domain.Book, error) {
	var book *domain.Book
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		sg, err := getSuggestion(ctx, tx, id)
		if err != nil {
			return err
		}
		book = build(sg)
		if book == nil {
			return store.ErrInvalidInput.WithMessage("no book to add")
		}
		if err := insertBook(ctx, tx, book); err != nil {
			return err
		}
		return setSuggestionStatus(ctx, tx, id, domain.SuggestionApproved, now)
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}
