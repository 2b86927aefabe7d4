package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/elisereads/elisereads-server/internal/domain"
)

const (
	sessionPrefix     = "session:"
	sessionTokenIndex = "token"
)

func (s *Store) initSessions() {
	s.Sessions = NewEntity[domain.Session](s, sessionPrefix).
		WithIndex(sessionTokenIndex, func(sess *domain.Session) []string {
			return []string{sess.RefreshTokenHash}
		})
}

// CreateSession stores a new session and indexes its refresh token hash.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	if err := s.Sessions.Create(ctx, session.ID, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession retrieves an unexpired session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.liveSession(s.Sessions.Get(ctx, id))
}

// GetSessionByRefreshToken retrieves an unexpired session by refresh token hash.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return s.liveSession(s.Sessions.GetByIndex(ctx, sessionTokenIndex, tokenHash))
}

func (s *Store) liveSession(session *domain.Session, err error) (*domain.Session, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// UpdateSession saves a session. A changed refresh token hash moves the token index.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	err := s.Sessions.Update(ctx, session.ID, session)
	if errors.Is(err, ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// DeleteSession deletes a session. Deleting a missing session is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

// ListUserSessions returns the unexpired sessions of a user.
func (s *Store) ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for session, err := range s.Sessions.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list user sessions: %w", err)
		}
		if session.UserID == userID && !session.IsExpired() {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}

// DeleteAllUserSessions signs a user out everywhere.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	sessions, err := s.ListUserSessions(ctx, userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := s.DeleteSession(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", session.ID, err)
		}
	}
	return nil
}

// DeleteExpiredSessions removes every expired session and returns how many were removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	var expired []string
	for session, err := range s.Sessions.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("find expired sessions: %w", err)
		}
		if session.IsExpired() {
			expired = append(expired, session.ID)
		}
	}

	deleted := 0
	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err != nil {
			s.logger.Warn("failed to delete expired session", "session_id", id, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// CountSessions returns the number of stored sessions, expired or not.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	n := 0
	for _, err := range s.Sessions.List(ctx) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}
