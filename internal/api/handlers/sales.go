package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merchantlens/merchantlens-go/internal/cache"
	"github.com/merchantlens/merchantlens-go/internal/ingestion"
	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/internal/services"
	"github.com/merchantlens/merchantlens-go/pkg/interfaces"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Cache keys for aggregate snapshots; uploads invalidate all of them.
const (
	cacheKeyTotalSales     = "sales_total"
	cacheKeySalesByProduct = "sales_by_product"
	cacheKeySalesByWeek    = "sales_by_week"
	cacheKeySentiment      = "review_sentiment"
	cacheKeyRecommend      = "recommendations"
)

var aggregateCacheKeys = []string{
	cacheKeyTotalSales, cacheKeySalesByProduct, cacheKeySalesByWeek,
}

type SalesHandler struct {
	store      interfaces.RecordStore
	parser     *ingestion.Parser
	aggregator *services.AggregatorService
	snapshots  *cache.SnapshotCache
}

func NewSalesHandler(store interfaces.RecordStore, parser *ingestion.Parser, aggregator *services.AggregatorService, snapshots *cache.SnapshotCache) *SalesHandler {
	return &SalesHandler{
		store:      store,
		parser:     parser,
		aggregator: aggregator,
		snapshots:  snapshots,
	}
}

// TotalSalesResponse is the payload of GET /sales/total.
type TotalSalesResponse struct {
	TotalSales decimal.Decimal `json:"total_sales"`
	Timestamp  time.Time       `json:"timestamp"`
}

// SalesByProductResponse is the payload of GET /sales/by-product.
type SalesByProductResponse struct {
	SalesByProduct map[string]decimal.Decimal `json:"sales_by_product"`
	Timestamp      time.Time                  `json:"timestamp"`
}

// SalesByWeekResponse is the payload of GET /sales/by-week. Keys follow the
// wire week-key contract "YYYY-WNN".
type SalesByWeekResponse struct {
	SalesByWeek models.WeeklySales `json:"sales_by_week"`
	Timestamp   time.Time          `json:"timestamp"`
}

// UploadSales ingests a sales CSV (multipart "file" field or raw body).
func (h *SalesHandler) UploadSales(c *gin.Context) {
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

	sales, report, err := h.parser.ParseSales(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, sale := range sales {
		if err := h.store.AppendSale(c.Request.Context(), sale); err != nil {
			logrus.WithError(err).Error("Failed to store sale")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store sales"})
			return
		}
	}

	h.snapshots.Invalidate(c.Request.Context(), aggregateCacheKeys...)
	h.snapshots.InvalidatePrefix(c.Request.Context(), cacheKeyRecommend)
	logrus.WithFields(logrus.Fields{
		"accepted": report.Accepted,
		"rejected": report.Rejected,
	}).Info("Sales upload processed")

	c.JSON(http.StatusOK, report)
}

// GetTotalSales returns the sum of all sale amounts.
func (h *SalesHandler) GetTotalSales(c *gin.Context) {
	ctx := c.Request.Context()

	var cached TotalSalesResponse
	if h.snapshots.Get(ctx, cacheKeyTotalSales, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	total, err := h.aggregator.TotalSales(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute total sales"})
		return
	}

	response := TotalSalesResponse{TotalSales: total, Timestamp: time.Now()}
	h.snapshots.Set(ctx, cacheKeyTotalSales, response)
	c.JSON(http.StatusOK, response)
}

// GetSalesByProduct returns summed amounts per product.
func (h *SalesHandler) GetSalesByProduct(c *gin.Context) {
	ctx := c.Request.Context()

	var cached SalesByProductResponse
	if h.snapshots.Get(ctx, cacheKeySalesByProduct, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	byProduct, err := h.aggregator.SalesByProduct(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute sales by product"})
		return
	}

	response := SalesByProductResponse{SalesByProduct: byProduct, Timestamp: time.Now()}
	h.snapshots.Set(ctx, cacheKeySalesByProduct, response)
	c.JSON(http.StatusOK, response)
}

// GetSalesByWeek returns summed amounts per ISO week.
func (h *SalesHandler) GetSalesByWeek(c *gin.Context) {
	ctx := c.Request.Context()

	var cached SalesByWeekResponse
	if h.snapshots.Get(ctx, cacheKeySalesByWeek, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	byWeek, err := h.aggregator.SalesByWeek(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute sales by week"})
		return
	}

	response := SalesByWeekResponse{SalesByWeek: byWeek, Timestamp: time.Now()}
	h.snapshots.Set(ctx, cacheKeySalesByWeek, response)
	c.JSON(http.StatusOK, response)
}

// uploadBody extracts the CSV payload: preferred multipart "file" field,
// raw request body otherwise.
func uploadBody(c *gin.Context) (io.ReadCloser, error) {
	if file, err := c.FormFile("file"); err == nil {
		return file.Open()
	}
	if c.Request.Body == nil {
		return nil, errEmptyUpload
	}
	return c.Request.Body, nil
}

var errEmptyUpload = &models.ValidationError{Field: "file", Message: "no CSV payload provided"}
