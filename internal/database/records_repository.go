package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/merchantlens/merchantlens-go/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// RecordsRepository is the Postgres-backed record store for sales and
// reviews. Records are append-only; reads come back ordered by the serial
// primary key, which matches insertion order.
type RecordsRepository struct {
	pool DatabasePool
}

func NewRecordsRepository(pool DatabasePool) *RecordsRepository {
	return &RecordsRepository{pool: pool}
}

// EnsureSchema creates the two record tables when they do not exist yet.
func (r *RecordsRepository) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS sales (
			seq BIGSERIAL PRIMARY KEY,
			id UUID NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			product TEXT NOT NULL,
			amount NUMERIC(14,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			seq BIGSERIAL PRIMARY KEY,
			id UUID NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			product TEXT NOT NULL,
			text TEXT NOT NULL DEFAULT '',
			rating INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range ddl {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func (r *RecordsRepository) AppendSale(ctx context.Context, sale models.Sale) error {
	query := `
		INSERT INTO sales (id, date, product, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.pool.Exec(ctx, query, sale.ID, sale.Date, sale.Product, sale.Amount, sale.CreatedAt); err != nil {
		return fmt.Errorf("failed to append sale: %w", err)
	}
	return nil
}

func (r *RecordsRepository) AppendReview(ctx context.Context, review models.Review) error {
	query := `
		INSERT INTO reviews (id, date, product, text, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query, review.ID, review.Date, review.Product, review.Text, review.Rating, review.CreatedAt); err != nil {
		return fmt.Errorf("failed to append review: %w", err)
	}
	return nil
}

func (r *RecordsRepository) AllSales(ctx context.Context) ([]models.Sale, error) {
	query := `
		SELECT id, date, product, amount, created_at
		FROM sales
		ORDER BY seq
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()
	return scanSales(rows)
}

func (r *RecordsRepository) SalesByProductName(ctx context.Context, product string) ([]models.Sale, error) {
	query := `
		SELECT id, date, product, amount, created_at
		FROM sales
		WHERE product = $1
		ORDER BY seq
	`
	rows, err := r.pool.Query(ctx, query, product)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales for product %s: %w", product, err)
	}
	defer rows.Close()
	return scanSales(rows)
}

func (r *RecordsRepository) AllReviews(ctx context.Context) ([]models.Review, error) {
	query := `
		SELECT id, date, product, text, rating, created_at
		FROM reviews
		ORDER BY seq
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *RecordsRepository) ReviewsByProductName(ctx context.Context, product string) ([]models.Review, error) {
	query := `
		SELECT id, date, product, text, rating, created_at
		FROM reviews
		WHERE product = $1
		ORDER BY seq
	`
	rows, err := r.pool.Query(ctx, query, product)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews for product %s: %w", product, err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

func scanSales(rows pgx.Rows) ([]models.Sale, error) {
	var sales []models.Sale
	for rows.Next() {
		var sale models.Sale
		if err := rows.Scan(&sale.ID, &sale.Date, &sale.Product, &sale.Amount, &sale.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sale row: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sale rows: %w", err)
	}
	return sales, nil
}

func scanReviews(rows pgx.Rows) ([]models.Review, error) {
	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.ID, &review.Date, &review.Product, &review.Text, &review.Rating, &review.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review rows: %w", err)
	}
	return reviews, nil
}
