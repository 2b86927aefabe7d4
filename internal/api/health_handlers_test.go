package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_Healthy(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decode[HealthResponse](t, resp).Data
	assert.Equal(t, StatusHealthy, health.Status)
	assert.Equal(t, "test", health.Version)
	for _, name := range []string{"database", "sessions", "search", "blobs"} {
		require.Contains(t, health.Components, name)
		assert.Equal(t, StatusHealthy, health.Components[name].Status, name)
	}
	assert.Equal(t, "index empty", health.Components["search"].Message)
}

func TestHealthCheck_UnhealthyWhenDatabaseClosed(t *testing.T) {
	ts := setupTestServer(t)
	require.NoError(t, ts.db.Close())

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decode[HealthResponse](t, resp).Data
	assert.Equal(t, StatusUnhealthy, health.Status)
	assert.Equal(t, StatusUnhealthy, health.Components["database"].Status)
}

func TestFormatDocCount(t *testing.T) {
	assert.Equal(t, "index empty", formatDocCount(0))
	assert.Equal(t, "1 document", formatDocCount(1))
	assert.Equal(t, "42 documents", formatDocCount(42))
}
