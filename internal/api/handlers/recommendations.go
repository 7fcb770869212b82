package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merchantlens/merchantlens-go/internal/cache"
	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/internal/services"
)

type RecommendationsHandler struct {
	recommender *services.RecommenderService
	snapshots   *cache.SnapshotCache
}

func NewRecommendationsHandler(recommender *services.RecommenderService, snapshots *cache.SnapshotCache) *RecommendationsHandler {
	return &RecommendationsHandler{recommender: recommender, snapshots: snapshots}
}

// RecommendationsResponse is the payload of GET /recommendations.
type RecommendationsResponse struct {
	models.RecommendationReport
	TopK      int       `json:"top_k"`
	Timestamp time.Time `json:"timestamp"`
}

// PricingResponse is the payload of GET /recommendations/pricing.
type PricingResponse struct {
	PricingSuggestions map[string]string                  `json:"pricing_suggestions"`
	BundlePricing      map[string]models.BundleSuggestion `json:"bundle_pricing"`
	Message            string                             `json:"message,omitempty"`
	Timestamp          time.Time                          `json:"timestamp"`
}

// GetRecommendations returns the full recommendation report. top_k defaults
// to the configured list size.
func (h *RecommendationsHandler) GetRecommendations(c *gin.Context) {
	topK, err := h.topK(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.report(c, topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute recommendations"})
		return
	}

	c.JSON(http.StatusOK, RecommendationsResponse{
		RecommendationReport: *report,
		TopK:                 topK,
		Timestamp:            time.Now(),
	})
}

// GetPricing returns only the pricing side of the recommendation report.
func (h *RecommendationsHandler) GetPricing(c *gin.Context) {
	topK, err := h.topK(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.report(c, topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute pricing suggestions"})
		return
	}

	c.JSON(http.StatusOK, PricingResponse{
		PricingSuggestions: report.PricingSuggestions,
		BundlePricing:      report.BundlePricing,
		Message:            report.Message,
		Timestamp:          time.Now(),
	})
}

func (h *RecommendationsHandler) report(c *gin.Context, topK int) (*models.RecommendationReport, error) {
	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("%s:%d", cacheKeyRecommend, topK)

	var cached models.RecommendationReport
	if h.snapshots.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	report, err := h.recommender.Recommend(ctx, topK)
	if err != nil {
		return nil, err
	}
	h.snapshots.Set(ctx, cacheKey, report)
	return report, nil
}

func (h *RecommendationsHandler) topK(c *gin.Context) (int, error) {
	raw := c.Query("top_k")
	if raw == "" {
		return h.recommender.DefaultTopK(), nil
	}
	topK, err := strconv.Atoi(raw)
	if err != nil || topK <= 0 {
		return 0, fmt.Errorf("top_k must be a positive integer")
	}
	return topK, nil
}
