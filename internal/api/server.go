// Package api provides the HTTP API server and handlers for Elise Reads.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/elisereads/elisereads-server/internal/blob"
	"github.com/elisereads/elisereads-server/internal/store"
	"github.com/elisereads/elisereads-server/internal/store/sqlite"
)

// Options configures the HTTP surface.
type Options struct {
	Version     string
	CORSOrigins []string
	// TrustProxy honors X-Forwarded-For and X-Real-IP. Without it the rate
	// limiters key on the socket address.
	TrustProxy  bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *sqlite.Store
	sessions *store.Store
	blobs    blob.Store
	services *Services
	limiters *RateLimiters
	router   *chi.Mux
	api      huma.API
	version  string
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured. The
// stores are only used for health checks; limiters may be nil to disable
// rate limiting.
func NewServer(db *sqlite.Store, sessions *store.Store, blobs blob.Store, services *Services, limiters *RateLimiters, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if limiters == nil {
		limiters = &RateLimiters{}
	}

	router := chi.NewRouter()

	s := &Server{
		db:       db,
		sessions: sessions,
		blobs:    blobs,
		services: services,
		limiters: limiters,
		router:   router,
		logger:   logger,
	}

	s.setupMiddleware(opts)

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	s.version = version
	humaConfig := huma.DefaultConfig("Elise Reads API", version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	if opts.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(clientMiddleware)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(opts.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-None-Match"},
			ExposedHeaders:   []string{"ETag"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	if s.services != nil && s.services.Auth != nil {
		s.router.Use(authMiddleware(s.services.Auth))
	}
}

// registerRoutes registers every operation with huma.
func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerArtworkRoutes()
	s.registerSeriesRoutes()
	s.registerSuggestionRoutes()
	s.registerUserRoutes()
	s.registerGoalRoutes()
	s.registerSettingsRoutes()
	s.registerAdminRoutes()
	s.registerUploadRoutes()
	s.registerSearchRoutes()
}

// bearer is the security requirement of authenticated operations.
var bearer = []map[string][]string{{"bearer": {}}}
