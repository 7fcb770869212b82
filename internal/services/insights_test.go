package services

import (
	"context"
	"errors"
	"testing"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInsights(t *testing.T, llmOracle *mockLLMOracle, sentimentOracle *mockSentimentOracle) (*InsightsService, *store.MemoryStore) {
	t.Helper()
	memory := store.NewMemoryStore()
	aggregator := NewAggregatorService(memory)
	sentimentSvc := NewSentimentService(memory, sentimentOracle)
	return NewInsightsService(memory, aggregator, sentimentSvc, llmOracle), memory
}

func TestProcessQuery_BuildsContextFromAggregates(t *testing.T) {
	llmOracle := &mockLLMOracle{response: "Sales are trending up."}
	sentimentOracle := &mockSentimentOracle{polarities: map[string]float64{"love it": 0.9, "meh": 0}}
	svc, memory := newInsights(t, llmOracle, sentimentOracle)

	ctx := context.Background()
	require.NoError(t, memory.AppendSale(ctx, mustSale(t, "2024-02-05", "Widget", 100.50)))
	require.NoError(t, memory.AppendSale(ctx, mustSale(t, "2024-02-06", "Widget", 200.75)))
	require.NoError(t, memory.AppendReview(ctx, mustReview(t, "2024-02-06", "Widget", "love it")))
	require.NoError(t, memory.AppendReview(ctx, mustReview(t, "2024-02-07", "Widget", "meh")))

	answer, err := svc.ProcessQuery(ctx, "How are my sales this month?")
	require.NoError(t, err)

	assert.Equal(t, "How are my sales this month?", answer.Query)
	assert.Equal(t, "Sales are trending up.", answer.Answer)

	assert.Contains(t, llmOracle.system, "Total sales = $301.25")
	assert.Contains(t, llmOracle.system, "2024-W06")
	assert.Contains(t, llmOracle.system, "1 positive")
	assert.Contains(t, llmOracle.system, "1 neutral")
	assert.Equal(t, "How are my sales this month?", llmOracle.user)
}

func TestProcessQuery_OracleFailureDegradesToErrorAnswer(t *testing.T) {
	llmOracle := &mockLLMOracle{err: errors.New("rate limited")}
	svc, _ := newInsights(t, llmOracle, &mockSentimentOracle{})

	answer, err := svc.ProcessQuery(context.Background(), "anything")
	require.Error(t, err)

	var oracleErr *models.OracleError
	require.ErrorAs(t, err, &oracleErr)
	assert.Equal(t, "language-model", oracleErr.Oracle)

	// Degraded payload still carries the query and a readable message
	assert.Equal(t, "anything", answer.Query)
	assert.Contains(t, answer.Answer, "Error processing query:")
	assert.Contains(t, answer.Answer, "rate limited")
}

func TestProcessQuery_EmptyStoreStillAnswers(t *testing.T) {
	llmOracle := &mockLLMOracle{response: "No sales recorded yet."}
	svc, _ := newInsights(t, llmOracle, &mockSentimentOracle{})

	answer, err := svc.ProcessQuery(context.Background(), "total?")
	require.NoError(t, err)
	assert.Equal(t, "No sales recorded yet.", answer.Answer)
	assert.Contains(t, llmOracle.system, "Total sales = $0.00")
}
