package services

import (
	"fmt"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/shopspring/decimal"
)

// PatternAnalyzer derives per-product popularity, weekly purchase trends and
// the weekly product co-occurrence matrix from a sales slice. All output is
// transient; nothing is persisted between calls.
type PatternAnalyzer struct{}

func NewPatternAnalyzer() *PatternAnalyzer {
	return &PatternAnalyzer{}
}

// Analyze buckets sales by ISO week number. The bucket label "Week-NN"
// carries no year, so week 7 of 2024 and week 7 of 2025 share a bucket; the
// recommender's co-occurrence ranking is built on exactly this bucketing.
func (a *PatternAnalyzer) Analyze(sales []models.Sale) models.SalesPatterns {
	patterns := models.SalesPatterns{
		ProductStats: make(map[string]models.ProductStats),
		WeeklyTrends: make(map[string]map[string]int),
		Cooccurrence: make(map[string]map[string]int),
	}
	if len(sales) == 0 {
		return patterns
	}

	activeWeeks := make(map[string]map[int]struct{})
	weekOrder := make([]string, 0)
	weekProducts := make(map[string][]string)

	for _, sale := range sales {
		_, week := sale.Date.ISOWeek()
		weekKey := fmt.Sprintf("Week-%d", week)

		stats := patterns.ProductStats[sale.Product]
		stats.Count++
		stats.Revenue = stats.Revenue.Add(sale.Amount)
		patterns.ProductStats[sale.Product] = stats

		if activeWeeks[sale.Product] == nil {
			activeWeeks[sale.Product] = make(map[int]struct{})
		}
		activeWeeks[sale.Product][week] = struct{}{}

		if patterns.WeeklyTrends[weekKey] == nil {
			patterns.WeeklyTrends[weekKey] = make(map[string]int)
			weekOrder = append(weekOrder, weekKey)
		}
		if patterns.WeeklyTrends[weekKey][sale.Product] == 0 {
			weekProducts[weekKey] = append(weekProducts[weekKey], sale.Product)
		}
		patterns.WeeklyTrends[weekKey][sale.Product]++
	}

	for product, weeks := range activeWeeks {
		stats := patterns.ProductStats[product]
		stats.ActiveWeeks = len(weeks)
		patterns.ProductStats[product] = stats
	}

	// Co-occurrence counts the set of distinct products per week bucket:
	// one increment per week per unordered pair, regardless of unit counts.
	for _, weekKey := range weekOrder {
		products := weekProducts[weekKey]
		for i, productA := range products {
			for j, productB := range products {
				if i == j {
					continue
				}
				if patterns.Cooccurrence[productA] == nil {
					patterns.Cooccurrence[productA] = make(map[string]int)
				}
				patterns.Cooccurrence[productA][productB]++
			}
		}
	}

	return patterns
}

// ProductOrder returns product names in first-sale order. Map iteration in
// the analyzer output is unordered; ranking code uses this to keep tie
// breaking deterministic.
func ProductOrder(sales []models.Sale) []string {
	seen := make(map[string]struct{}, len(sales))
	order := make([]string, 0, len(sales))
	for _, sale := range sales {
		if _, ok := seen[sale.Product]; ok {
			continue
		}
		seen[sale.Product] = struct{}{}
		order = append(order, sale.Product)
	}
	return order
}

// FirstAmounts returns each product's first-recorded sale amount in store
// order; bundle pricing uses these as the reference prices.
func FirstAmounts(sales []models.Sale) map[string]decimal.Decimal {
	first := make(map[string]decimal.Decimal, len(sales))
	for _, sale := range sales {
		if _, ok := first[sale.Product]; !ok {
			first[sale.Product] = sale.Amount
		}
	}
	return first
}
