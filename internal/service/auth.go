package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elisereads/elisereads-server/internal/auth"
	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/id"
	"github.com/elisereads/elisereads-server/internal/store"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
	"github.com/elisereads/elisereads-server/internal/validation"
)

// AuthService handles account setup, login and token verification.
// Session bookkeeping is delegated to SessionService.
type AuthService struct {
	users            *sqlite.Store
	tokenService     *auth.TokenService
	sessionService   *SessionService
	validator        *validation.Validator
	openRegistration bool
	logger           *slog.Logger
	now              clock
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users *sqlite.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	validator *validation.Validator,
	openRegistration bool,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:            users,
		tokenService:     tokenService,
		sessionService:   sessionService,
		validator:        validator,
		openRegistration: openRegistration,
		logger:           discardLogger(logger),
		now:              time.Now,
	}
}

// SetupRequest creates the site owner.
type SetupRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required,notblank,max=100"`
}

// RegisterRequest creates a member account when registration is open.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required,notblank,max=100"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// IsSetupRequired reports whether no account exists yet.
func (s *AuthService) IsSetupRequired(ctx context.Context) (bool, error) {
	n, err := s.users.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n == 0, nil
}

// Setup creates the owner account and signs it in. It only succeeds while
// no user exists.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest, client ClientInfo) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.newUser(req.Email, req.Password, req.DisplayName, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if err := s.users.CreateFirstUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyConfigured("server is already configured")
		}
		return nil, fmt.Errorf("create owner: %w", err)
	}

	s.logger.Info("site owner created", "user_id", user.ID, "email", user.Email)
	return s.signIn(ctx, user, client)
}

// Register creates a member account. It is refused unless open
// registration is enabled.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, client ClientInfo) (*AuthResponse, error) {
	if !s.openRegistration {
		return nil, domainerrors.Forbidden("registration is closed")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	setupRequired, err := s.IsSetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	if setupRequired {
		return nil, domainerrors.Conflict("server setup has not been completed")
	}

	user, err := s.newUser(req.Email, req.Password, req.DisplayName, domain.RoleMember)
	if err != nil {
		return nil, err
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("member registered", "user_id", user.ID)
	return s.signIn(ctx, user, client)
}

// Login checks credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error("password verification failed", "user_id", user.ID, "error", err)
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	now := s.now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.users.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to record login time", "user_id", user.ID, "error", err)
	}

	return s.signIn(ctx, user, client)
}

// Refresh rotates a refresh token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest, client ClientInfo) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, client)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// Logout ends a session. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return domainerrors.Validation("session_id is required")
	}
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken validates a token and loads its user, so deleted
// accounts lose access before their tokens expire.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired access token").WithCause(err)
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, domainerrors.Unauthorized("account no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	return user, claims, nil
}

func (s *AuthService) newUser(email, password, displayName string, role domain.Role) (*domain.User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return nil, domainerrors.Validation(err.Error())
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := s.now()
	return &domain.User{
		ID:           userID,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         role,
		DisplayName:  strings.TrimSpace(displayName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *AuthService) signIn(ctx context.Context, user *domain.User, client ClientInfo) (*AuthResponse, error) {
	session, err := s.sessionService.CreateSession(ctx, user, client)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, SessionResponse: *session}, nil
}
