package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Review represents a single customer review of one product. Text is allowed
// to be empty and Rating is optional with no enforced bound; both loosenesses
// come from upstream data and are deliberate.
type Review struct {
	ID        string    `json:"id" db:"id"`
	Date      time.Time `json:"date" db:"date"`
	Product   string    `json:"product" db:"product"`
	Text      string    `json:"text" db:"text"`
	Rating    *int      `json:"rating,omitempty" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewReview builds a validated Review with a fresh record ID.
func NewReview(date time.Time, product, text string, rating *int) (Review, error) {
	review := Review{
		ID:        uuid.New().String(),
		Date:      date,
		Product:   strings.TrimSpace(product),
		Text:      text,
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := review.Validate(); err != nil {
		return Review{}, err
	}
	return review, nil
}

// Validate enforces the same date/product rules as Sale.
func (r *Review) Validate() error {
	if strings.TrimSpace(r.Product) == "" {
		return &ValidationError{Field: "product", Message: "product name cannot be empty"}
	}
	if r.Date.After(time.Now()) {
		return &ValidationError{Field: "date", Message: "date cannot be in the future"}
	}
	return nil
}
