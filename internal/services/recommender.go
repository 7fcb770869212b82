package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/pkg/interfaces"
	"github.com/shopspring/decimal"
)

// Pricing tier thresholds on average sale amount, exclusive lower bounds.
var (
	premiumThreshold = decimal.NewFromInt(50)
	popularThreshold = decimal.NewFromInt(20)
)

// Bundle discount rates tiered by same-day co-occurrence count.
var (
	bundleDiscountHigh = decimal.NewFromFloat(0.15) // 5+ co-occurrences
	bundleDiscountBase = decimal.NewFromFloat(0.10)
)

const (
	pricingPremium = "Premium product - consider premium bundle pricing"
	pricingPopular = "Popular item - offer 5% bundle discount"
	pricingValue   = "Value item - consider 10% volume discount"

	noSalesMessage = "No sales data available for recommendations"
)

// RecommenderService ranks products by revenue and co-occurrence and derives
// bundle pricing from same-day purchases. Every call recomputes from a fresh
// store scan and is deterministic for a given store state: ranking ties are
// broken by first-sale order and bundle ties by pair name.
type RecommenderService struct {
	store       interfaces.RecordStore
	analyzer    *PatternAnalyzer
	defaultTopK int
}

func NewRecommenderService(store interfaces.RecordStore, analyzer *PatternAnalyzer, defaultTopK int) *RecommenderService {
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	return &RecommenderService{store: store, analyzer: analyzer, defaultTopK: defaultTopK}
}

// DefaultTopK returns the configured recommendation list size.
func (s *RecommenderService) DefaultTopK() int {
	return s.defaultTopK
}

// Recommend produces up to topK product recommendations with pricing
// suggestions. topK <= 0 selects the configured default.
func (s *RecommenderService) Recommend(ctx context.Context, topK int) (*models.RecommendationReport, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}

	sales, err := s.store.AllSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}

	report := &models.RecommendationReport{
		Recommendations:    []string{},
		PricingSuggestions: make(map[string]string),
		BundlePricing:      make(map[string]models.BundleSuggestion),
	}
	if len(sales) == 0 {
		report.Message = noSalesMessage
		return report, nil
	}

	patterns := s.analyzer.Analyze(sales)
	order := ProductOrder(sales)

	topByRevenue := rankByRevenue(order, patterns.ProductStats)
	if len(topByRevenue) > topK {
		topByRevenue = topByRevenue[:topK]
	}

	mostSold := mostFrequentProduct(order, patterns.ProductStats)
	cooccurRecs := rankCooccurring(order, patterns.Cooccurrence[mostSold])
	if len(cooccurRecs) > topK {
		cooccurRecs = cooccurRecs[:topK]
	}

	// Union: revenue-ranked entries first, then co-occurrence picks.
	seen := make(map[string]struct{})
	for _, product := range append(append([]string{}, topByRevenue...), cooccurRecs...) {
		if _, ok := seen[product]; ok {
			continue
		}
		seen[product] = struct{}{}
		report.Recommendations = append(report.Recommendations, product)
	}
	if len(report.Recommendations) > topK {
		report.Recommendations = report.Recommendations[:topK]
	}

	for _, product := range report.Recommendations {
		stats := patterns.ProductStats[product]
		report.PricingSuggestions[product] = pricingTier(stats)
	}

	report.BundlePricing = s.bundlePricing(sales)
	report.Analysis = &models.RecommendationAnalysis{
		TotalProducts:       len(patterns.ProductStats),
		TopRevenueProduct:   firstOrEmpty(rankByRevenue(order, patterns.ProductStats)),
		MostFrequentProduct: mostSold,
	}

	return report, nil
}

// bundlePricing counts pairwise same-day co-occurrence over the whole store:
// every pair of distinct-product sales sharing a calendar day counts once.
// The top 2 pairs seen together more than once get a discounted combined
// price built from each product's first-recorded amount.
func (s *RecommenderService) bundlePricing(sales []models.Sale) map[string]models.BundleSuggestion {
	byDay := make(map[string][]models.Sale)
	dayOrder := make([]string, 0)
	for _, sale := range sales {
		day := sale.Date.UTC().Format("2006-01-02")
		if _, ok := byDay[day]; !ok {
			dayOrder = append(dayOrder, day)
		}
		byDay[day] = append(byDay[day], sale)
	}

	pairCounts := make(map[string]int)
	pairProducts := make(map[string][2]string)
	for _, day := range dayOrder {
		daySales := byDay[day]
		for i := 0; i < len(daySales); i++ {
			for j := i + 1; j < len(daySales); j++ {
				a, b := daySales[i].Product, daySales[j].Product
				if a == b {
					continue
				}
				if a > b {
					a, b = b, a
				}
				key := a + " + " + b
				pairCounts[key]++
				pairProducts[key] = [2]string{a, b}
			}
		}
	}

	keys := make([]string, 0, len(pairCounts))
	for key, count := range pairCounts {
		if count > 1 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if pairCounts[keys[i]] != pairCounts[keys[j]] {
			return pairCounts[keys[i]] > pairCounts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > 2 {
		keys = keys[:2]
	}

	first := FirstAmounts(sales)
	bundles := make(map[string]models.BundleSuggestion, len(keys))
	for _, key := range keys {
		count := pairCounts[key]
		products := pairProducts[key]
		combined := first[products[0]].Add(first[products[1]])

		rate := bundleDiscountBase
		if count >= 5 {
			rate = bundleDiscountHigh
		}
		savings := combined.Mul(rate).Round(2)
		price := combined.Sub(savings).Round(2)

		bundles[key] = models.BundleSuggestion{
			Price:       price,
			Savings:     savings,
			Occurrences: count,
			Suggestion: fmt.Sprintf("Bundle %s for $%s and save $%s (bought together %d times)",
				key, price.StringFixed(2), savings.StringFixed(2), count),
		}
	}
	return bundles
}

func rankByRevenue(order []string, stats map[string]models.ProductStats) []string {
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return stats[ranked[i]].Revenue.GreaterThan(stats[ranked[j]].Revenue)
	})
	return ranked
}

// mostFrequentProduct picks the highest sale count; on ties the product that
// first appeared in the store wins.
func mostFrequentProduct(order []string, stats map[string]models.ProductStats) string {
	best := ""
	for _, product := range order {
		if best == "" || stats[product].Count > stats[best].Count {
			best = product
		}
	}
	return best
}

func rankCooccurring(order []string, row map[string]int) []string {
	if len(row) == 0 {
		return nil
	}
	ranked := make([]string, 0, len(row))
	for _, product := range order {
		if _, ok := row[product]; ok {
			ranked = append(ranked, product)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return row[ranked[i]] > row[ranked[j]]
	})
	return ranked
}

func pricingTier(stats models.ProductStats) string {
	count := stats.Count
	if count < 1 {
		count = 1
	}
	avg := stats.Revenue.Div(decimal.NewFromInt(int64(count)))
	switch {
	case avg.GreaterThan(premiumThreshold):
		return pricingPremium
	case avg.GreaterThan(popularThreshold):
		return pricingPopular
	default:
		return pricingValue
	}
}

func firstOrEmpty(products []string) string {
	if len(products) == 0 {
		return ""
	}
	return products[0]
}
