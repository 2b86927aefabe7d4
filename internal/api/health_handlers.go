package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/sync/errgroup"
)

// Health states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const healthCheckTimeout = 3 * time.Second

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Version    string                     `json:"version,omitempty" doc:"Server version"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var db, sessions, search, blobs ComponentHealth

	// Checks never return errors; a failed check is reported, not propagated.
	var g errgroup.Group
	g.Go(func() error { db = s.checkDatabase(ctx); return nil })
	g.Go(func() error { sessions = s.checkSessions(); return nil })
	g.Go(func() error { search = s.checkSearchIndex(); return nil })
	g.Go(func() error { blobs = s.checkBlobs(ctx); return nil })
	_ = g.Wait() //nolint:errcheck // checks always return nil

	overall := StatusHealthy
	if db.Status != StatusHealthy || sessions.Status != StatusHealthy {
		overall = StatusUnhealthy
	} else if search.Status != StatusHealthy || blobs.Status != StatusHealthy {
		overall = StatusDegraded
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:  overall,
			Version: s.version,
			Components: map[string]ComponentHealth{
				"database": db,
				"sessions": sessions,
				"search":   search,
				"blobs":    blobs,
			},
		},
	}, nil
}

// checkDatabase verifies SQLite answers queries.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.db == nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: "database not configured"}
	}

	start := time.Now()
	err := s.db.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		s.logger.Warn("health: database ping failed", "error", err)
		return ComponentHealth{Status: StatusUnhealthy, Latency: latency.String(), Message: "database unreachable"}
	}
	return ComponentHealth{Status: StatusHealthy, Latency: latency.String()}
}

// checkSessions verifies the Badger session store is open.
func (s *Server) checkSessions() ComponentHealth {
	if s.sessions == nil {
		return ComponentHealth{Status: StatusUnhealthy, Message: "session store not configured"}
	}

	start := time.Now()
	err := s.sessions.Ping()
	latency := time.Since(start)

	if err != nil {
		s.logger.Warn("health: session store ping failed", "error", err)
		return ComponentHealth{Status: StatusUnhealthy, Latency: latency.String(), Message: "session store unreachable"}
	}
	return ComponentHealth{Status: StatusHealthy, Latency: latency.String()}
}

// checkSearchIndex verifies the Bleve index is accessible. An empty index
// is healthy: a fresh site has nothing to search yet.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services == nil || s.services.Search == nil {
		return ComponentHealth{Status: StatusDegraded, Message: "search service not configured"}
	}

	start := time.Now()
	docCount, err := s.services.Search.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{Status: StatusDegraded, Latency: latency.String(), Message: "search index unreachable"}
	}
	if s.services.Search.NeedsReindex() {
		return ComponentHealth{Status: StatusDegraded, Latency: latency.String(), Message: "search index rebuilding"}
	}
	return ComponentHealth{
		Status:  StatusHealthy,
		Latency: latency.String(),
		Message: formatDocCount(docCount),
	}
}

// checkBlobs verifies the image store is reachable.
func (s *Server) checkBlobs(ctx context.Context) ComponentHealth {
	if s.blobs == nil {
		return ComponentHealth{Status: StatusDegraded, Message: "blob store not configured"}
	}

	start := time.Now()
	err := s.blobs.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		s.logger.Warn("health: blob store ping failed", "backend", s.blobs.Name(), "error", err)
		return ComponentHealth{Status: StatusDegraded, Latency: latency.String(), Message: s.blobs.Name() + " unreachable"}
	}
	return ComponentHealth{Status: StatusHealthy, Latency: latency.String(), Message: s.blobs.Name()}
}

func formatDocCount(n uint64) string {
	switch n {
	case 0:
		return "index empty"
	case 1:
		return "1 document"
	default:
		return strconv.FormatUint(n, 10) + " documents"
	}
}
