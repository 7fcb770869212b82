package models

import "github.com/shopspring/decimal"

// Sentiment labels produced by the classifier.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Classification is the three-way sentiment outcome for one piece of text.
// Polarity is the oracle score rounded to 2 decimal places.
type Classification struct {
	Label    string  `json:"label"`
	Polarity float64 `json:"polarity"`
}

// ReviewSentiment pairs a stored review with its classification. Entries are
// keyed by record identity (ID), so duplicate review texts stay distinct.
// A failed oracle call is flagged per review via Error instead of aborting
// the batch.
type ReviewSentiment struct {
	ReviewID string `json:"review_id"`
	Product  string `json:"product"`
	Text     string `json:"text"`
	Classification
	Error string `json:"error,omitempty"`
}

// WeeklySales maps an ISO week key ("YYYY-WNN", zero-padded week number) to
// the summed sale amount for that week.
type WeeklySales map[string]decimal.Decimal

// ProductStats holds per-product popularity figures derived from sales.
type ProductStats struct {
	Count       int             `json:"count"`
	Revenue     decimal.Decimal `json:"revenue"`
	ActiveWeeks int             `json:"active_weeks"`
}

// SalesPatterns is the pattern analyzer output. WeeklyTrends and Cooccurrence
// bucket by ISO week number without a year component ("Week-NN"); sales from
// the same week number of different years land in the same bucket. The
// recommender depends on this bucketing.
type SalesPatterns struct {
	ProductStats map[string]ProductStats   `json:"product_popularity"`
	WeeklyTrends map[string]map[string]int `json:"weekly_trends"`
	Cooccurrence map[string]map[string]int `json:"product_cooccurrence"`
}

// BundleSuggestion prices a pair of products frequently bought on the same
// day, with a tiered discount applied to the combined first-seen amounts.
type BundleSuggestion struct {
	Price       decimal.Decimal `json:"price"`
	Savings     decimal.Decimal `json:"savings"`
	Occurrences int             `json:"occurrences"`
	Suggestion  string          `json:"suggestion"`
}

// RecommendationAnalysis summarizes the inputs behind a recommendation run.
type RecommendationAnalysis struct {
	TotalProducts       int    `json:"total_products"`
	TopRevenueProduct   string `json:"top_revenue_product,omitempty"`
	MostFrequentProduct string `json:"most_frequent_product,omitempty"`
}

// RecommendationReport is the recommender output. On an empty store all
// collections are empty and Message explains why.
type RecommendationReport struct {
	Recommendations    []string                    `json:"recommendations"`
	PricingSuggestions map[string]string           `json:"pricing_suggestions"`
	BundlePricing      map[string]BundleSuggestion `json:"bundle_pricing"`
	Analysis           *RecommendationAnalysis     `json:"analysis,omitempty"`
	Message            string                      `json:"message,omitempty"`
}

// SEOContent is the parsed output of the SEO generation oracle call.
type SEOContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// QueryAnswer is the response to a natural-language analytics query.
type QueryAnswer struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// UploadReport summarizes one CSV ingestion pass. Rejected rows are reported
// individually and never abort the upload.
type UploadReport struct {
	TotalRows int      `json:"total_rows"`
	Accepted  int      `json:"accepted"`
	Rejected  int      `json:"rejected"`
	Errors    []string `json:"errors,omitempty"`
}
