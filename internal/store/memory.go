package store

import (
	"context"
	"sync"

	"github.com/merchantlens/merchantlens-go/internal/models"
)

// MemoryStore is an in-process RecordStore. It backs tests and the
// database-less development mode; records live in insertion order and are
// copied out on every read so callers can never mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	sales   []models.Sale
	reviews []models.Review
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AppendSale(_ context.Context, sale models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sale)
	return nil
}

func (s *MemoryStore) AppendReview(_ context.Context, review models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, review)
	return nil
}

func (s *MemoryStore) AllSales(_ context.Context) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Sale, len(s.sales))
	copy(out, s.sales)
	return out, nil
}

func (s *MemoryStore) AllReviews(_ context.Context) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Review, len(s.reviews))
	copy(out, s.reviews)
	return out, nil
}

func (s *MemoryStore) SalesByProductName(_ context.Context, product string) ([]models.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Sale
	for _, sale := range s.sales {
		if sale.Product == product {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (s *MemoryStore) ReviewsByProductName(_ context.Context, product string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Review
	for _, review := range s.reviews {
		if review.Product == product {
			out = append(out, review)
		}
	}
	return out, nil
}
