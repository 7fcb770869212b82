package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/merchantlens/merchantlens-go/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Coffee and Croissant sell on the same three days; Coffee's average sale
// amount clears the premium threshold.
const bundleCSV = "date,product,amount\n" +
	"2024-02-05,Coffee,60\n" +
	"2024-02-05,Croissant,10\n" +
	"2024-02-06,Coffee,60\n" +
	"2024-02-06,Croissant,10\n" +
	"2024-02-07,Coffee,60\n" +
	"2024-02-07,Croissant,10\n"

func TestGetRecommendations_ReturnsReport(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})
	f.request(t, http.MethodPost, "/api/v1/upload-sales", "text/csv", bundleCSV)

	w := f.request(t, http.MethodGet, "/api/v1/recommendations", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TopK)
	assert.NotEmpty(t, resp.Recommendations)
	assert.Contains(t, resp.PricingSuggestions["Coffee"], "premium")
	require.Contains(t, resp.BundlePricing, "Coffee + Croissant")
	bundle := resp.BundlePricing["Coffee + Croissant"]
	assert.Equal(t, 3, bundle.Occurrences)
	assert.Equal(t, "63.00", bundle.Price.StringFixed(2))
	assert.Equal(t, "7.00", bundle.Savings.StringFixed(2))
}

func TestGetRecommendations_TopKParam(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})
	f.request(t, http.MethodPost, "/api/v1/upload-sales", "text/csv", bundleCSV)

	w := f.request(t, http.MethodGet, "/api/v1/recommendations?top_k=1", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TopK)
	assert.Len(t, resp.Recommendations, 1)
}

func TestGetRecommendations_InvalidTopK(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})

	for _, raw := range []string{"abc", "0", "-2"} {
		w := f.request(t, http.MethodGet, "/api/v1/recommendations?top_k="+raw, "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "top_k=%s", raw)
		assert.Contains(t, w.Body.String(), "positive integer")
	}
}

func TestGetRecommendations_EmptyStoreMessage(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})

	w := f.request(t, http.MethodGet, "/api/v1/recommendations", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, "No sales data available for recommendations", resp.Message)
}

func TestGetPricing_ReturnsPricingOnly(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})
	f.request(t, http.MethodPost, "/api/v1/upload-sales", "text/csv", bundleCSV)

	w := f.request(t, http.MethodGet, "/api/v1/recommendations/pricing", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp PricingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.PricingSuggestions, "Coffee")
	assert.Contains(t, resp.PricingSuggestions, "Croissant")
	assert.Contains(t, resp.BundlePricing, "Coffee + Croissant")
	assert.NotContains(t, w.Body.String(), `"recommendations"`)
}

func TestUploadInvalidatesRecommendationCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	snapshots := cache.NewSnapshotCache(client, time.Minute)

	f := newFixtureWithCache(t, &stubSentimentOracle{}, &stubLLMOracle{}, snapshots)
	f.request(t, http.MethodPost, "/api/v1/upload-sales", "text/csv", bundleCSV)

	w := f.request(t, http.MethodGet, "/api/v1/recommendations", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, mr.Exists("snapshot:recommendations:3"))

	// A new upload must drop the cached report so the next read recomputes.
	f.request(t, http.MethodPost, "/api/v1/upload-sales", "text/csv", "date,product,amount\n2024-02-08,Tea,5\n")
	assert.False(t, mr.Exists("snapshot:recommendations:3"))
	assert.False(t, mr.Exists("snapshot:sales_total"))

	w = f.request(t, http.MethodGet, "/api/v1/recommendations", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.PricingSuggestions, "Tea")
}
