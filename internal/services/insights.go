package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/pkg/interfaces"
	"github.com/merchantlens/merchantlens-go/pkg/llm"
)

// InsightsService answers natural-language analytics questions by handing
// the language-model oracle a context assembled from aggregate snapshots.
type InsightsService struct {
	store      interfaces.RecordStore
	aggregator *AggregatorService
	sentiment  *SentimentService
	oracle     llm.Oracle
}

func NewInsightsService(store interfaces.RecordStore, aggregator *AggregatorService, sentimentSvc *SentimentService, oracle llm.Oracle) *InsightsService {
	return &InsightsService{
		store:      store,
		aggregator: aggregator,
		sentiment:  sentimentSvc,
		oracle:     oracle,
	}
}

// ProcessQuery answers one merchant question. An oracle failure degrades to
// an error-message answer rather than an empty response; the returned
// *models.OracleError lets the transport layer decide whether to surface it
// as an HTTP error instead.
func (s *InsightsService) ProcessQuery(ctx context.Context, query string) (models.QueryAnswer, error) {
	systemContext, err := s.buildContext(ctx, query)
	if err != nil {
		return models.QueryAnswer{}, err
	}

	answer, err := s.oracle.Complete(ctx, systemContext, query)
	if err != nil {
		oracleErr := &models.OracleError{Oracle: "language-model", Err: err}
		return models.QueryAnswer{
			Query:  query,
			Answer: fmt.Sprintf("Error processing query: %v", err),
		}, oracleErr
	}

	return models.QueryAnswer{Query: query, Answer: strings.TrimSpace(answer)}, nil
}

func (s *InsightsService) buildContext(ctx context.Context, query string) (string, error) {
	total, err := s.aggregator.TotalSales(ctx)
	if err != nil {
		return "", err
	}
	weekly, err := s.aggregator.SalesByWeek(ctx)
	if err != nil {
		return "", err
	}

	sales, err := s.store.AllSales(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load sales: %w", err)
	}
	reviews, err := s.store.AllReviews(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load reviews: %w", err)
	}

	sentiments, err := s.sentiment.ClassifyAll(ctx)
	if err != nil {
		return "", err
	}
	var positive, negative, neutral, failed int
	for _, entry := range sentiments {
		switch {
		case entry.Error != "":
			failed++
		case entry.Label == models.SentimentPositive:
			positive++
		case entry.Label == models.SentimentNegative:
			negative++
		default:
			neutral++
		}
	}

	var weeklyParts []string
	for week, amount := range weekly {
		weeklyParts = append(weeklyParts, fmt.Sprintf("%s=$%s", week, amount.StringFixed(2)))
	}
	sort.Strings(weeklyParts)

	var b strings.Builder
	b.WriteString("You are MerchantLens, an AI assistant for small online sellers.\n")
	fmt.Fprintf(&b, "Sales data: Total sales = $%s across %d sale records.\n", total.StringFixed(2), len(sales))
	fmt.Fprintf(&b, "Weekly sales: %s.\n", strings.Join(weeklyParts, ", "))
	fmt.Fprintf(&b, "Review sentiment (%d reviews): %d positive, %d negative, %d neutral", len(reviews), positive, negative, neutral)
	if failed > 0 {
		fmt.Fprintf(&b, ", %d unscored", failed)
	}
	b.WriteString(".\n")
	b.WriteString("Answer the user's query concisely, using the data above. ")
	b.WriteString("If the query asks for a comparison or analysis not directly available, provide a reasonable response based on the data. ")
	b.WriteString("Keep it professional and actionable.\n")
	fmt.Fprintf(&b, "Query: %s", query)

	return b.String(), nil
}
