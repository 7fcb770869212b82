package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/merchantlens/merchantlens-go/internal/api"
	"github.com/merchantlens/merchantlens-go/internal/api/handlers"
	"github.com/merchantlens/merchantlens-go/internal/cache"
	"github.com/merchantlens/merchantlens-go/internal/config"
	"github.com/merchantlens/merchantlens-go/internal/database"
	"github.com/merchantlens/merchantlens-go/internal/ingestion"
	"github.com/merchantlens/merchantlens-go/internal/logging"
	"github.com/merchantlens/merchantlens-go/internal/middleware"
	"github.com/merchantlens/merchantlens-go/internal/services"
	"github.com/merchantlens/merchantlens-go/internal/store"
	"github.com/merchantlens/merchantlens-go/pkg/interfaces"
	"github.com/merchantlens/merchantlens-go/pkg/llm"
	"github.com/merchantlens/merchantlens-go/pkg/sentiment"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env before config so viper sees the variables
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.Environment)

	// Record store: Postgres normally, in-memory fallback in development
	var recordStore interfaces.RecordStore
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		if cfg.Environment != "development" {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		logger.WithError(err).Warn("Database unavailable, using in-memory store")
		recordStore = store.NewMemoryStore()
	} else {
		defer db.Close()
		repo := database.NewRecordsRepository(db.Pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Fatalf("Failed to ensure database schema: %v", err)
		}
		recordStore = repo
	}

	// Redis is optional: without it the snapshot cache is a pass-through
	redisClient, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, aggregate caching disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}
	var snapshots *cache.SnapshotCache
	if redisClient != nil {
		snapshots = cache.NewSnapshotCache(redisClient.Client, cfg.SnapshotTTL())
	} else {
		snapshots = cache.NewSnapshotCache(nil, cfg.SnapshotTTL())
	}

	// Oracles
	sentimentClient := sentiment.NewClient(cfg.Sentiment)
	llmClient := llm.NewClient(cfg.LLM)

	// Core services
	aggregator := services.NewAggregatorService(recordStore)
	sentimentSvc := services.NewSentimentService(recordStore, sentimentClient)
	analyzer := services.NewPatternAnalyzer()
	recommender := services.NewRecommenderService(recordStore, analyzer, cfg.Recommendations.TopK)
	insights := services.NewInsightsService(recordStore, aggregator, sentimentSvc, llmClient)
	seo := services.NewSEOService(recordStore, sentimentClient, llmClient)
	parser := ingestion.NewParser(cfg.Ingestion.MaxRows)

	// Router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	api.SetupRoutes(router, api.Handlers{
		Health:          handlers.NewHealthHandler(db, redisClient, sentimentClient),
		Sales:           handlers.NewSalesHandler(recordStore, parser, aggregator, snapshots),
		Reviews:         handlers.NewReviewsHandler(recordStore, parser, sentimentSvc, snapshots),
		Recommendations: handlers.NewRecommendationsHandler(recommender, snapshots),
		Insights:        handlers.NewInsightsHandler(insights, seo),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
