package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/pkg/sentiment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// mockSentimentOracle serves canned polarities and noun phrases keyed by
// text, with optional per-text failures.
type mockSentimentOracle struct {
	mu         sync.Mutex
	polarities map[string]float64
	phrases    map[string][]string
	failures   map[string]error
	calls      int
}

func (m *mockSentimentOracle) Polarity(_ context.Context, text string) (*sentiment.PolarityResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err, ok := m.failures[text]; ok {
		return nil, err
	}
	return &sentiment.PolarityResponse{
		Polarity:    m.polarities[text],
		NounPhrases: m.phrases[text],
	}, nil
}

func (m *mockSentimentOracle) HealthCheck(_ context.Context) (*sentiment.HealthResponse, error) {
	return &sentiment.HealthResponse{Status: "ok", Timestamp: time.Now()}, nil
}

// mockLLMOracle records the prompt it was given and returns a canned reply.
type mockLLMOracle struct {
	mu       sync.Mutex
	response string
	err      error
	system   string
	user     string
}

func (m *mockLLMOracle) Complete(_ context.Context, system, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.system = system
	m.user = user
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func mustSale(t *testing.T, date, product string, amount float64) models.Sale {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	sale, err := models.NewSale(day, product, decimal.NewFromFloat(amount))
	require.NoError(t, err)
	return sale
}

func mustReview(t *testing.T, date, product, text string) models.Review {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	review, err := models.NewReview(day, product, text, nil)
	require.NoError(t, err)
	return review
}
