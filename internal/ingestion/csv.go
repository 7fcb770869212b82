package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/shopspring/decimal"
)

// Accepted date layouts for uploaded rows.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Parser turns uploaded CSV files into validated records. Bad rows are
// rejected one by one with a reason in the report; a single malformed row
// never aborts the file.
type Parser struct {
	maxRows int
}

func NewParser(maxRows int) *Parser {
	if maxRows <= 0 {
		maxRows = 50000
	}
	return &Parser{maxRows: maxRows}
}

// ParseSales reads a sales CSV with header date,product,amount.
func (p *Parser) ParseSales(r io.Reader) ([]models.Sale, *models.UploadReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols, err := columnIndex(header, []string{"date", "product", "amount"})
	if err != nil {
		return nil, nil, err
	}

	report := &models.UploadReport{}
	var sales []models.Sale
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.TotalRows++
			report.Rejected++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		report.TotalRows++
		if report.TotalRows > p.maxRows {
			return nil, nil, fmt.Errorf("upload exceeds row limit of %d", p.maxRows)
		}

		sale, err := parseSaleRow(row, cols)
		if err != nil {
			report.Rejected++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		report.Accepted++
		sales = append(sales, sale)
	}

	return sales, report, nil
}

// ParseReviews reads a reviews CSV with header date,product,text,rating;
// rating may be blank.
func (p *Parser) ParseReviews(r io.Reader) ([]models.Review, *models.UploadReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols, err := columnIndex(header, []string{"date", "product", "text"})
	if err != nil {
		return nil, nil, err
	}
	ratingCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "rating") {
			ratingCol = i
		}
	}

	report := &models.UploadReport{}
	var reviews []models.Review
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.TotalRows++
			report.Rejected++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		report.TotalRows++
		if report.TotalRows > p.maxRows {
			return nil, nil, fmt.Errorf("upload exceeds row limit of %d", p.maxRows)
		}

		review, err := parseReviewRow(row, cols, ratingCol)
		if err != nil {
			report.Rejected++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		report.Accepted++
		reviews = append(reviews, review)
	}

	return reviews, report, nil
}

func parseSaleRow(row []string, cols map[string]int) (models.Sale, error) {
	date, err := parseDate(field(row, cols["date"]))
	if err != nil {
		return models.Sale{}, err
	}
	amount, err := decimal.NewFromString(field(row, cols["amount"]))
	if err != nil {
		return models.Sale{}, &models.ValidationError{Field: "amount", Message: "not a number"}
	}
	return models.NewSale(date, field(row, cols["product"]), amount)
}

func parseReviewRow(row []string, cols map[string]int, ratingCol int) (models.Review, error) {
	date, err := parseDate(field(row, cols["date"]))
	if err != nil {
		return models.Review{}, err
	}

	var rating *int
	if ratingCol >= 0 {
		raw := strings.TrimSpace(field(row, ratingCol))
		if raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				return models.Review{}, &models.ValidationError{Field: "rating", Message: "not an integer"}
			}
			rating = &value
		}
	}

	return models.NewReview(date, field(row, cols["product"]), field(row, cols["text"]), rating)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &models.ValidationError{Field: "date", Message: "unrecognized date format"}
}

func columnIndex(header []string, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required CSV column %q", name)
		}
	}
	return index, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
