package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merchantlens/merchantlens-go/internal/cache"
	"github.com/merchantlens/merchantlens-go/internal/ingestion"
	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/internal/services"
	"github.com/merchantlens/merchantlens-go/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

type ReviewsHandler struct {
	store     interfaces.RecordStore
	parser    *ingestion.Parser
	sentiment *services.SentimentService
	snapshots *cache.SnapshotCache
}

func NewReviewsHandler(store interfaces.RecordStore, parser *ingestion.Parser, sentimentSvc *services.SentimentService, snapshots *cache.SnapshotCache) *ReviewsHandler {
	return &ReviewsHandler{
		store:     store,
		parser:    parser,
		sentiment: sentimentSvc,
		snapshots: snapshots,
	}
}

// SentimentResponse is the payload of GET /reviews/sentiment. Entries keep
// store order and are keyed by review identity.
type SentimentResponse struct {
	Reviews   []models.ReviewSentiment `json:"reviews"`
	Timestamp time.Time                `json:"timestamp"`
}

// UploadReviews ingests a reviews CSV (multipart "file" field or raw body).
func (h *ReviewsHandler) UploadReviews(c *gin.Context) {
	body, err := uploadBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		if err := body.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing upload body")
		}
	}()

	reviews, report, err := h.parser.ParseReviews(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, review := range reviews {
		if err := h.store.AppendReview(c.Request.Context(), review); err != nil {
			logrus.WithError(err).Error("Failed to store review")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reviews"})
			return
		}
	}

	h.snapshots.Invalidate(c.Request.Context(), cacheKeySentiment)
	logrus.WithFields(logrus.Fields{
		"accepted": report.Accepted,
		"rejected": report.Rejected,
	}).Info("Reviews upload processed")

	c.JSON(http.StatusOK, report)
}

// GetReviewSentiment classifies every stored review through the sentiment
// oracle. Reviews whose oracle call failed come back flagged, not dropped.
func (h *ReviewsHandler) GetReviewSentiment(c *gin.Context) {
	ctx := c.Request.Context()

	var cached SentimentResponse
	if h.snapshots.Get(ctx, cacheKeySentiment, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	results, err := h.sentiment.ClassifyAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to classify reviews"})
		return
	}

	response := SentimentResponse{Reviews: results, Timestamp: time.Now()}
	h.snapshots.Set(ctx, cacheKeySentiment, response)
	c.JSON(http.StatusOK, response)
}
