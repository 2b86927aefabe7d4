package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/elisereads/elisereads-server/internal/api"
	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/config"
	"github.com/elisereads/elisereads-server/internal/logger"
	"github.com/elisereads/elisereads-server/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

// Version is reported by the health endpoint and the OpenAPI document.
// Overridden at build time with -ldflags.
var Version = "dev"

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideRateLimiters provides the limiters guarding unauthenticated writes.
func ProvideRateLimiters(i do.Injector) (*api.RateLimiters, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return api.NewRateLimiters(cfg.RateLimit.PublicPerMinute), nil
}

// ProvideAPIServices collects the business services used by the handlers.
func ProvideAPIServices(i do.Injector) (*api.Services, error) {
	return &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Book:       do.MustInvoke[*service.BookService](i),
		Artwork:    do.MustInvoke[*service.ArtworkService](i),
		Suggestion: do.MustInvoke[*service.SuggestionService](i),
		Profile:    do.MustInvoke[*service.ProfileService](i),
		Goal:       do.MustInvoke[*service.GoalService](i),
		Settings:   do.MustInvoke[*service.SettingsService](i),
		Migration:  do.MustInvoke[*service.MigrationService](i),
		Upload:     do.MustInvoke[*service.UploadService](i),
		Search:     do.MustInvoke[*service.SearchService](i),
	}, nil
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	db := do.MustInvoke[*DatabaseHandle](i)
	sessions := do.MustInvoke[*SessionStoreHandle](i)
	blobs := do.MustInvoke[blob.Store](i)
	services := do.MustInvoke[*api.Services](i)
	limiters := do.MustInvoke[*api.RateLimiters](i)
	log := do.MustInvoke[*logger.Logger](i)

	handler := api.NewServer(db.Store, sessions.Store, blobs, services, limiters, api.Options{
		Version:     Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		TrustProxy:  cfg.Server.TrustProxy,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
