package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/elisereads/elisereads-server/internal/domain"
	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	userKey   ctxKey = "user"
	clientKey ctxKey = "client"
)

// CurrentUser returns the authenticated user from context, or nil.
func CurrentUser(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

// GetUserID returns the authenticated user ID from context.
// Returns 401 error if user is not authenticated.
func GetUserID(ctx context.Context) (string, error) {
	user := CurrentUser(ctx)
	if user == nil {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return user.ID, nil
}

// optionalUserID is GetUserID for routes that also serve anonymous callers.
func optionalUserID(ctx context.Context) string {
	if user := CurrentUser(ctx); user != nil {
		return user.ID
	}
	return ""
}

// RequireOwner validates the caller is authenticated as the site owner.
// Returns the owner's user ID if successful.
func RequireOwner(ctx context.Context) (string, error) {
	user := CurrentUser(ctx)
	if user == nil {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	if !user.IsAdmin() {
		return "", domainerrors.Forbidden("Only the site owner can do that")
	}
	return user.ID, nil
}

// clientInfo returns the caller's address and user agent.
func clientInfo(ctx context.Context) service.ClientInfo {
	client, _ := ctx.Value(clientKey).(service.ClientInfo)
	return client
}

// authMiddleware returns a middleware that validates Bearer tokens and stores
// the user in context. If no token is present or it is invalid, the request
// continues anonymously; handlers call GetUserID or RequireOwner to reject it.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, _, err := auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientMiddleware records the caller's address for session tracking. It
// runs after middleware.RealIP, so RemoteAddr already honours proxy headers.
func clientMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := service.ClientInfo{
			IPAddress: hostOnly(r.RemoteAddr),
			UserAgent: r.UserAgent(),
		}
		ctx := context.WithValue(r.Context(), clientKey, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// hostOnly strips the port from an address if it has one.
func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
