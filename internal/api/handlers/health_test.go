package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessCheck(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})

	w := f.request(t, http.MethodGet, "/health/live", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alive"`)
}

func TestHealthCheck_OptionalDependenciesNotConfigured(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})

	w := f.request(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "not configured", resp.Services["database"])
	assert.Equal(t, "not configured", resp.Services["redis"])
	assert.Equal(t, "healthy", resp.Services["sentiment"])
	assert.NotEmpty(t, resp.Uptime)
}
