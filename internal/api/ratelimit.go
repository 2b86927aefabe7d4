package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/elisereads/elisereads-server/internal/errors"
	"github.com/elisereads/elisereads-server/internal/ratelimit"
)

// RateLimiters holds the per-client limiters guarding unauthenticated writes.
type RateLimiters struct {
	Public *ratelimit.KeyedRateLimiter // likes and suggestions
	Auth   *ratelimit.KeyedRateLimiter // login and register
}

// NewRateLimiters creates limiters allowing publicPerMinute visitor writes and
// a fixed number of sign-in attempts per minute per client.
func NewRateLimiters(publicPerMinute int) *RateLimiters {
	return &RateLimiters{
		Public: ratelimit.PerMinute(publicPerMinute),
		Auth:   ratelimit.PerMinute(authAttemptsPerMinute),
	}
}

// Shutdown stops both sweepers.
func (r *RateLimiters) Shutdown() error {
	r.Public.Stop()
	r.Auth.Stop()
	return nil
}

// rateLimit returns an operation middleware that rejects clients over the
// limiter's budget with 429.
func (s *Server) rateLimit(limiter *ratelimit.KeyedRateLimiter) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if limiter == nil {
			next(ctx)
			return
		}

		key := hostOnly(ctx.RemoteAddr())
		if !limiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", ctx.URL().Path,
			)
			//nolint:errcheck // the response is already being written
			huma.WriteErr(s.api, ctx, http.StatusTooManyRequests,
				"Too many requests. Please try again later.",
				domainerrors.RateLimited("Too many requests. Please try again later."))
			return
		}

		next(ctx)
	}
}
