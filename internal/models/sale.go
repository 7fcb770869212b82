package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale represents a single completed sale of one product.
type Sale struct {
	ID        string          `json:"id" db:"id"`
	Date      time.Time       `json:"date" db:"date"`
	Product   string          `json:"product" db:"product"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// NewSale builds a validated Sale. The product name is stored trimmed and a
// record ID is assigned here so the store never sees an unvalidated record.
func NewSale(date time.Time, product string, amount decimal.Decimal) (Sale, error) {
	sale := Sale{
		ID:        uuid.New().String(),
		Date:      date,
		Product:   strings.TrimSpace(product),
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := sale.Validate(); err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// Validate enforces the ingestion invariants: positive amount, non-blank
// product, and no future-dated records.
func (s *Sale) Validate() error {
	if s.Amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	if strings.TrimSpace(s.Product) == "" {
		return &ValidationError{Field: "product", Message: "product name cannot be empty"}
	}
	if s.Date.After(time.Now()) {
		return &ValidationError{Field: "date", Message: "date cannot be in the future"}
	}
	return nil
}
