package services

import (
	"context"
	"fmt"
	"time"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/pkg/interfaces"
	"github.com/shopspring/decimal"
)

// AggregatorService computes sales aggregates from a full store scan. Every
// call recomputes from the current store contents; there is no cached
// aggregate state in the service itself.
type AggregatorService struct {
	store interfaces.RecordStore
}

func NewAggregatorService(store interfaces.RecordStore) *AggregatorService {
	return &AggregatorService{store: store}
}

// TotalSales returns the sum of all sale amounts, zero for an empty store.
func (s *AggregatorService) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	sales, err := s.store.AllSales(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load sales: %w", err)
	}

	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Amount)
	}
	return total, nil
}

// SalesByProduct returns summed amounts keyed by product name, one key per
// distinct product seen.
func (s *AggregatorService) SalesByProduct(ctx context.Context) (map[string]decimal.Decimal, error) {
	sales, err := s.store.AllSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	byProduct := make(map[string]decimal.Decimal)
	for _, sale := range sales {
		byProduct[sale.Product] = byProduct[sale.Product].Add(sale.Amount)
	}
	return byProduct, nil
}

// SalesByWeek returns summed amounts keyed by ISO week ("YYYY-WNN"), rounded
// to 2 decimal places. The year component follows the ISO week-numbering
// calendar, so late-December or early-January sales can land in a different
// year than their calendar date.
func (s *AggregatorService) SalesByWeek(ctx context.Context) (models.WeeklySales, error) {
	sales, err := s.store.AllSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	byWeek := make(models.WeeklySales)
	for _, sale := range sales {
		key := ISOWeekKey(sale.Date)
		byWeek[key] = byWeek[key].Add(sale.Amount)
	}
	for key, amount := range byWeek {
		byWeek[key] = amount.Round(2)
	}
	return byWeek, nil
}

// ISOWeekKey formats a timestamp as the wire week key "YYYY-WNN" with a
// zero-padded ISO week number.
func ISOWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
