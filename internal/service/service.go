// Package service holds the business rules behind every API operation.
// Services validate input, apply domain rules and persist through the
// SQLite content store; the HTTP layer only translates and authorizes.
package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/elisereads/elisereads-server/internal/store"
)

// clock returns the current time. Services keep one so tests can pin it.
type clock func() time.Time

func discardLogger(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// isNotFound reports whether err is a store not-found error.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// isAlreadyExists reports whether err is a store uniqueness violation.
func isAlreadyExists(err error) bool {
	return errors.Is(err, store.ErrAlreadyExists)
}
