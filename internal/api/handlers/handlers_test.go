package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merchantlens/merchantlens-go/internal/cache"
	"github.com/merchantlens/merchantlens-go/internal/ingestion"
	"github.com/merchantlens/merchantlens-go/internal/services"
	"github.com/merchantlens/merchantlens-go/internal/store"
	"github.com/merchantlens/merchantlens-go/pkg/sentiment"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSentimentOracle struct {
	polarities map[string]float64
	phrases    map[string][]string
	failures   map[string]error
}

func (o *stubSentimentOracle) Polarity(_ context.Context, text string) (*sentiment.PolarityResponse, error) {
	if err, ok := o.failures[text]; ok {
		return nil, err
	}
	return &sentiment.PolarityResponse{
		Polarity:    o.polarities[text],
		NounPhrases: o.phrases[text],
	}, nil
}

func (o *stubSentimentOracle) HealthCheck(_ context.Context) (*sentiment.HealthResponse, error) {
	return &sentiment.HealthResponse{Status: "ok", Timestamp: time.Now()}, nil
}

type stubLLMOracle struct {
	response string
	err      error
}

func (o *stubLLMOracle) Complete(_ context.Context, _, _ string) (string, error) {
	if o.err != nil {
		return "", o.err
	}
	return o.response, nil
}

type fixture struct {
	router    *gin.Engine
	store     *store.MemoryStore
	snapshots *cache.SnapshotCache
}

func newFixture(t *testing.T, sentimentOracle *stubSentimentOracle, llmOracle *stubLLMOracle) *fixture {
	t.Helper()
	return newFixtureWithCache(t, sentimentOracle, llmOracle, cache.NewSnapshotCache(nil, 10*time.Second))
}

func newFixtureWithCache(t *testing.T, sentimentOracle *stubSentimentOracle, llmOracle *stubLLMOracle, snapshots *cache.SnapshotCache) *fixture {
	t.Helper()

	memory := store.NewMemoryStore()
	parser := ingestion.NewParser(0)

	aggregator := services.NewAggregatorService(memory)
	sentimentSvc := services.NewSentimentService(memory, sentimentOracle)
	analyzer := services.NewPatternAnalyzer()
	recommender := services.NewRecommenderService(memory, analyzer, 3)
	insights := services.NewInsightsService(memory, aggregator, sentimentSvc, llmOracle)
	seo := services.NewSEOService(memory, sentimentOracle, llmOracle)

	salesHandler := NewSalesHandler(memory, parser, aggregator, snapshots)
	reviewsHandler := NewReviewsHandler(memory, parser, sentimentSvc, snapshots)
	recommendationsHandler := NewRecommendationsHandler(recommender, snapshots)
	insightsHandler := NewInsightsHandler(insights, seo)
	healthHandler := NewHealthHandler(nil, nil, sentimentOracle)

	router := gin.New()
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/health/live", healthHandler.LivenessCheck)
	router.POST("/api/v1/upload-sales", salesHandler.UploadSales)
	router.POST("/api/v1/upload-reviews", reviewsHandler.UploadReviews)
	router.GET("/api/v1/sales/total", salesHandler.GetTotalSales)
	router.GET("/api/v1/sales/by-product", salesHandler.GetSalesByProduct)
	router.GET("/api/v1/sales/by-week", salesHandler.GetSalesByWeek)
	router.GET("/api/v1/reviews/sentiment", reviewsHandler.GetReviewSentiment)
	router.GET("/api/v1/recommendations", recommendationsHandler.GetRecommendations)
	router.GET("/api/v1/recommendations/pricing", recommendationsHandler.GetPricing)
	router.POST("/api/v1/nlp/query", insightsHandler.PostQuery)
	router.GET("/api/v1/seo/:product", insightsHandler.GetSEO)

	return &fixture{router: router, store: memory, snapshots: snapshots}
}

func (f *fixture) request(t *testing.T, method, path, contentType string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}
