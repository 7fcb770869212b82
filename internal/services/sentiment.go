package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/pkg/interfaces"
	"github.com/merchantlens/merchantlens-go/pkg/sentiment"
	"github.com/sirupsen/logrus"
)

// Number of oracle calls in flight during a batch classification.
const classifyWorkers = 8

// SentimentService maps review text through the external polarity oracle
// into a three-way label plus a rounded score.
type SentimentService struct {
	store  interfaces.RecordStore
	oracle sentiment.Oracle
}

func NewSentimentService(store interfaces.RecordStore, oracle sentiment.Oracle) *SentimentService {
	return &SentimentService{store: store, oracle: oracle}
}

// Classify scores one review. Polarity 0 is neutral; strictly positive and
// strictly negative polarities map to their labels.
func (s *SentimentService) Classify(ctx context.Context, review models.Review) (models.Classification, error) {
	resp, err := s.oracle.Polarity(ctx, review.Text)
	if err != nil {
		return models.Classification{}, &models.OracleError{Oracle: "sentiment", Err: err}
	}
	return classificationFromPolarity(resp.Polarity), nil
}

// ClassifyAll classifies every stored review. Results keep store order and
// are keyed by record identity, so two reviews with identical text produce
// two entries. A failed oracle call flags that one entry and the batch
// continues; independent reviews are scored concurrently.
func (s *SentimentService) ClassifyAll(ctx context.Context) ([]models.ReviewSentiment, error) {
	reviews, err := s.store.AllReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	results := make([]models.ReviewSentiment, len(reviews))
	sem := make(chan struct{}, classifyWorkers)
	var wg sync.WaitGroup

	for i, review := range reviews {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, review models.Review) {
			defer wg.Done()
			defer func() { <-sem }()

			entry := models.ReviewSentiment{
				ReviewID: review.ID,
				Product:  review.Product,
				Text:     review.Text,
			}
			classification, err := s.Classify(ctx, review)
			if err != nil {
				logrus.WithError(err).WithField("review_id", review.ID).Warn("Sentiment classification failed")
				entry.Error = err.Error()
			} else {
				entry.Classification = classification
			}
			results[i] = entry
		}(i, review)
	}
	wg.Wait()

	return results, nil
}

func classificationFromPolarity(polarity float64) models.Classification {
	rounded := math.Round(polarity*100) / 100

	label := models.SentimentNeutral
	switch {
	case polarity > 0:
		label = models.SentimentPositive
	case polarity < 0:
		label = models.SentimentNegative
	}

	return models.Classification{Label: label, Polarity: rounded}
}
