package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merchantlens/merchantlens-go/internal/database"
	"github.com/merchantlens/merchantlens-go/pkg/sentiment"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

var startTime = time.Now()

type HealthHandler struct {
	db              *database.PostgresDB
	redis           *database.RedisClient
	sentimentOracle sentiment.Oracle
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	System    SystemStats       `json:"system"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
}

// SystemStats reports process-host resource usage.
type SystemStats struct {
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	CPUPercent        float64 `json:"cpu_percent"`
}

func NewHealthHandler(db *database.PostgresDB, redis *database.RedisClient, sentimentOracle sentiment.Oracle) *HealthHandler {
	return &HealthHandler{
		db:              db,
		redis:           redis,
		sentimentOracle: sentimentOracle,
	}
}

// HealthCheck pings each dependency and reports per-service status plus
// host resource stats. Missing optional dependencies degrade the status
// instead of failing the endpoint.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	services := make(map[string]string)

	// Check database
	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			services["database"] = "unhealthy: " + err.Error()
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "not configured"
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			services["redis"] = "unhealthy: " + err.Error()
		} else {
			services["redis"] = "healthy"
		}
	} else {
		services["redis"] = "not configured"
	}

	// Check sentiment sidecar
	if h.sentimentOracle != nil {
		if _, err := h.sentimentOracle.HealthCheck(ctx); err != nil {
			services["sentiment"] = "unhealthy: " + err.Error()
		} else {
			services["sentiment"] = "healthy"
		}
	} else {
		services["sentiment"] = "not configured"
	}

	overallStatus := "healthy"
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			overallStatus = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  services,
		System:    systemStats(),
		Version:   os.Getenv("APP_VERSION"),
		Uptime:    time.Since(startTime).String(),
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// LivenessCheck only confirms the process is responsive.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func systemStats() SystemStats {
	var stats SystemStats

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryUsedPercent = vm.UsedPercent
	} else {
		logrus.WithError(err).Debug("Failed to read memory stats")
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	} else if err != nil {
		logrus.WithError(err).Debug("Failed to read CPU stats")
	}

	return stats
}
