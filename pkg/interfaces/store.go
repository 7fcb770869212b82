package interfaces

import (
	"context"

	"github.com/merchantlens/merchantlens-go/internal/models"
)

// RecordStore is the append-only store for sale and review records. Appends
// never mutate existing records and reads return records in insertion order.
// Implementations must serialize concurrent appends and give reads a
// consistent snapshot; callers accept slight staleness during aggregation.
type RecordStore interface {
	AppendSale(ctx context.Context, sale models.Sale) error
	AppendReview(ctx context.Context, review models.Review) error
	AllSales(ctx context.Context) ([]models.Sale, error)
	AllReviews(ctx context.Context) ([]models.Review, error)
	SalesByProductName(ctx context.Context, product string) ([]models.Sale, error)
	ReviewsByProductName(ctx context.Context, product string) ([]models.Review, error)
}
