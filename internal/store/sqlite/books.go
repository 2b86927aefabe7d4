package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/elisereads/elisereads-server/internal/domain"
	"github.com/elisereads/elisereads-server/internal/normalize"
)

// bookColumns must match the scan order in scanBook.
const bookColumns = `id, user_id, title, author, cover_url, cover_storage_id, isbn, genre,
	series, page_count, pages_read, description, status, rating, review, is_favorite,
	gifted_by, started_at, finished_at, created_at`

func scanBook(sc scanner) (*domain.Book, error) {
	var (
		b              domain.Book
		coverURL       sql.NullString
		coverStorageID sql.NullString
		isbn           sql.NullString
		genre          sql.NullString
		series         sql.NullString
		pageCount      sql.NullInt64
		pagesRead      sql.NullInt64
		description    sql.NullString
		status         string
		rating         sql.NullInt64
		review         sql.NullString
		isFavorite     int
		giftedBy       sql.NullString
		startedAt      sql.NullString
		finishedAt     sql.NullString
		createdAt      string
	)
	err := sc.Scan(&b.ID, &b.UserID, &b.Title, &b.Author, &coverURL, &coverStorageID,
		&isbn, &genre, &series, &pageCount, &pagesRead, &description, &status, &rating,
		&review, &isFavorite, &giftedBy, &startedAt, &finishedAt, &createdAt)
	if err != nil {
		return nil, err
	}

	b.CoverURL = coverURL.String
	b.CoverStorageID = coverStorageID.String
	b.ISBN = isbn.String
	b.Genre = genre.String
	b.Series = series.String
	b.PageCount = intPtr(pageCount)
	b.PagesRead = intPtr(pagesRead)
	b.Description = description.String
	b.Status = domain.BookStatus(status)
	b.Rating = intPtr(rating)
	b.Review = review.String
	b.IsFavorite = isFavorite != 0
	b.GiftedBy = giftedBy.String

	if b.StartedAt, err = parseNullableTime(startedAt); err != nil {
		return nil, err
	}
	if b.FinishedAt, err = parseNullableTime(finishedAt); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func insertBook(ctx context.Context, q querier, b *domain.Book) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO books (id, user_id, title, author, title_key, author_key, cover_url,
			cover_storage_id, isbn, genre, series, page_count, pages_read, description,
			status, rating, review, is_favorite, gifted_by, started_at, finished_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Title, b.Author, normalize.Key(b.Title), normalize.Key(b.Author),
		nullString(b.CoverURL), nullString(b.CoverStorageID), nullString(b.ISBN),
		nullString(b.Genre), nullString(b.Series), nullInt(b.PageCount), nullInt(b.PagesRead),
		nullString(b.Description), string(b.Status), nullInt(b.Rating), nullString(b.Review),
		boolToInt(b.IsFavorite), nullString(b.GiftedBy), nullTimeString(b.StartedAt),
		nullTimeString(b.FinishedAt), formatTime(b.CreatedAt),
	)
	return mapWriteError(err)
}

// CreateBookIfAbsent inserts b unless a book with the same normalized title
// and author already exists. In that case nothing is written and the existing
// book is returned.
func (s *Store) CreateBookIfAbsent(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	var existing *domain.Book
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		found, err := findBookByKey(ctx, tx, b.Title, b.Author)
		if err != nil {
			return err
		}
		if found != nil {
			existing = found
			return nil
		}
		return insertBook(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	b, err := scanBook(row)
	if err != nil {
		return nil, notFound(err, "Book not found")
	}
	return b, nil
}

// BookFilter narrows ListBooks. Zero values mean "any".
type BookFilter struct {
	Status        domain.BookStatus
	FavoritesOnly bool
	UserID        string
}

// ListBooks returns books matching f, newest first.
func (s *Store) ListBooks(ctx context.Context, f BookFilter) ([]*domain.Book, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.FavoritesOnly {
		where = append(where, "is_favorite = 1")
	}
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}

	query := `SELECT ` + bookColumns + ` FROM books`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBook)
}

// ListBooksFinishedBetween returns read books whose finishedAt is in [start, end).
func (s *Store) ListBooksFinishedBetween(ctx context.Context, start, end time.Time) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookColumns+` FROM books
		WHERE status = 'read' AND finished_at >= ? AND finished_at < ?
		ORDER BY finished_at DESC`,
		formatTime(start), formatTime(end))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBook)
}

// FindBookByKey returns the first book whose normalized title and author
// match, or nil when none does.
func (s *Store) FindBookByKey(ctx context.Context, title, author string) (*domain.Book, error) {
	return findBookByKey(ctx, s.db, title, author)
}

func findBookByKey(ctx context.Context, q querier, title, author string) (*domain.Book, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+bookColumns+` FROM books
		WHERE title_key = ? AND author_key = ?
		ORDER BY created_at ASC LIMIT 1`,
		normalize.Key(title), normalize.Key(author))
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBook saves every mutable field of b.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET title = ?, author = ?, title_key = ?, author_key = ?, cover_url = ?,
			cover_storage_id = ?, isbn = ?, genre = ?, series = ?, page_count = ?, pages_read = ?,
			description = ?, status = ?, rating = ?, review = ?, is_favorite = ?, gifted_by = ?,
			started_at = ?, finished_at = ?
		WHERE id = ?`,
		b.Title, b.Author, normalize.Key(b.Title), normalize.Key(b.Author), nullString(b.CoverURL),
		nullString(b.CoverStorageID), nullString(b.ISBN), nullString(b.Genre), nullString(b.Series),
		nullInt(b.PageCount), nullInt(b.PagesRead), nullString(b.Description), string(b.Status),
		nullInt(b.Rating), nullString(b.Review), boolToInt(b.IsFavorite), nullString(b.GiftedBy),
		nullTimeString(b.StartedAt), nullTimeString(b.FinishedAt), b.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return requireRow(res, "Book not found")
}

// ToggleFavorite flips is_favorite and returns the new value.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var fav int
	err := s.db.QueryRowContext(ctx,
		`UPDATE books SET is_favorite = 1 - is_favorite WHERE id = ? RETURNING is_favorite`, id).Scan(&fav)
	if err != nil {
		return false, notFound(err, "Book not found")
	}
	return fav != 0, nil
}

// DeleteBook removes a book.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, "Book not found")
}

// BookCounts aggregates the books attributed to userID.
func (s *Store) BookCounts(ctx context.Context, userID string) (*domain.Stats, error) {
	var st domain.Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(status = 'read'), 0),
			COALESCE(SUM(status = 'reading'), 0),
			COALESCE(SUM(status = 'wishlist'), 0),
			COALESCE(SUM(is_favorite), 0),
			COALESCE(SUM(CASE WHEN status = 'read' THEN COALESCE(page_count, 0) ELSE 0 END), 0)
		FROM books WHERE user_id = ?`, userID).
		Scan(&st.TotalBooks, &st.BooksRead, &st.BooksReading, &st.BooksWishlist, &st.Favorites, &st.TotalPages)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
