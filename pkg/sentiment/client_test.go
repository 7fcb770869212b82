package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merchantlens/merchantlens-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(config.SentimentConfig{ServiceURL: url, Timeout: 5})
}

func TestPolarity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/polarity", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "MerchantLens-Go/1.0", r.Header.Get("User-Agent"))

		var req PolarityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "great product", req.Text)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PolarityResponse{
			Polarity:    0.8,
			NounPhrases: []string{"great product"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Polarity(context.Background(), "great product")
	require.NoError(t, err)
	assert.InDelta(t, 0.8, resp.Polarity, 1e-9)
	assert.Equal(t, []string{"great product"}, resp.NounPhrases)
}

func TestPolarity_EmptyTextShortCircuits(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Polarity(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.Polarity)
	assert.False(t, called)
}

func TestPolarity_OutOfRangeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PolarityResponse{Polarity: 1.5})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Polarity(context.Background(), "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polarity out of range")
}

func TestPolarity_ServiceErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "model not loaded"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Polarity(context.Background(), "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentiment service error (503)")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := newTestClient("http://localhost:3002/")
	assert.Equal(t, "http://localhost:3002", client.BaseURL())
}
