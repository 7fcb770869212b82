package api

import (
	"github.com/gin-gonic/gin"
	"github.com/merchantlens/merchantlens-go/internal/api/handlers"
)

// Handlers bundles the route handlers wired in by main.
type Handlers struct {
	Health          *handlers.HealthHandler
	Sales           *handlers.SalesHandler
	Reviews         *handlers.ReviewsHandler
	Recommendations *handlers.RecommendationsHandler
	Insights        *handlers.InsightsHandler
}

// SetupRoutes registers all API routes on the router.
func SetupRoutes(router *gin.Engine, h Handlers) {
	// Health check endpoints
	router.GET("/health", h.Health.HealthCheck)
	router.GET("/health/live", h.Health.LivenessCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// CSV ingestion
		v1.POST("/upload-sales", h.Sales.UploadSales)
		v1.POST("/upload-reviews", h.Reviews.UploadReviews)

		// Sales aggregates
		sales := v1.Group("/sales")
		{
			sales.GET("/total", h.Sales.GetTotalSales)
			sales.GET("/by-product", h.Sales.GetSalesByProduct)
			sales.GET("/by-week", h.Sales.GetSalesByWeek)
		}

		// Review sentiment
		reviews := v1.Group("/reviews")
		{
			reviews.GET("/sentiment", h.Reviews.GetReviewSentiment)
		}

		// Recommendations and pricing
		recommendations := v1.Group("/recommendations")
		{
			recommendations.GET("", h.Recommendations.GetRecommendations)
			recommendations.GET("/pricing", h.Recommendations.GetPricing)
		}

		// Language-model backed endpoints
		v1.POST("/nlp/query", h.Insights.PostQuery)
		v1.GET("/seo/:product", h.Insights.GetSEO)
	}
}
