package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/internal/services"
	"github.com/sirupsen/logrus"
)

type InsightsHandler struct {
	insights *services.InsightsService
	seo      *services.SEOService
}

func NewInsightsHandler(insights *services.InsightsService, seo *services.SEOService) *InsightsHandler {
	return &InsightsHandler{insights: insights, seo: seo}
}

// QueryRequest is the body of POST /nlp/query.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// PostQuery answers a natural-language analytics question. An oracle failure
// still returns 200 with the degraded answer payload; the caller preferred
// availability over a hard failure here.
func (h *InsightsHandler) PostQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query cannot be empty"})
		return
	}

	answer, err := h.insights.ProcessQuery(c.Request.Context(), req.Query)
	if err != nil {
		var oracleErr *models.OracleError
		if errors.As(err, &oracleErr) {
			logrus.WithError(oracleErr).Warn("Query answered with degraded payload")
			c.JSON(http.StatusOK, answer)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process query"})
		return
	}

	c.JSON(http.StatusOK, answer)
}

// GetSEO generates SEO title and description for one product.
func (h *InsightsHandler) GetSEO(c *gin.Context) {
	product := strings.TrimSpace(c.Param("product"))
	if product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product is required"})
		return
	}

	content, err := h.seo.GenerateContent(c.Request.Context(), product)
	if err != nil {
		var oracleErr *models.OracleError
		if errors.As(err, &oracleErr) {
			logrus.WithError(oracleErr).Warn("SEO generated with degraded payload")
			c.JSON(http.StatusOK, content)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate SEO content"})
		return
	}

	c.JSON(http.StatusOK, content)
}
