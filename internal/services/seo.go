package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/merchantlens/merchantlens-go/pkg/interfaces"
	"github.com/merchantlens/merchantlens-go/pkg/llm"
	"github.com/merchantlens/merchantlens-go/pkg/sentiment"
	"github.com/sirupsen/logrus"
)

const seoKeywordLimit = 3

// SEOService generates SEO product copy: review noun phrases from the
// sentiment oracle become keywords for a language-model prompt.
type SEOService struct {
	store           interfaces.RecordStore
	sentimentOracle sentiment.Oracle
	llmOracle       llm.Oracle
}

func NewSEOService(store interfaces.RecordStore, sentimentOracle sentiment.Oracle, llmOracle llm.Oracle) *SEOService {
	return &SEOService{
		store:           store,
		sentimentOracle: sentimentOracle,
		llmOracle:       llmOracle,
	}
}

// GenerateContent produces a title and description for one product. Keyword
// extraction failures skip the affected review; a language-model failure
// degrades to an error-message description, with the *models.OracleError
// returned alongside for the transport layer.
func (s *SEOService) GenerateContent(ctx context.Context, product string) (models.SEOContent, error) {
	sales, err := s.store.SalesByProductName(ctx, product)
	if err != nil {
		return models.SEOContent{}, fmt.Errorf("failed to load sales: %w", err)
	}
	reviews, err := s.store.ReviewsByProductName(ctx, product)
	if err != nil {
		return models.SEOContent{}, fmt.Errorf("failed to load reviews: %w", err)
	}

	keywords := s.extractKeywords(ctx, reviews)
	systemContext := buildSEOContext(product, len(sales), keywords)

	content, err := s.llmOracle.Complete(ctx, systemContext, "Generate SEO content")
	if err != nil {
		oracleErr := &models.OracleError{Oracle: "language-model", Err: err}
		return models.SEOContent{
			Title:       product,
			Description: fmt.Sprintf("Error generating SEO: %v", err),
		}, oracleErr
	}

	return parseSEOContent(product, content), nil
}

func (s *SEOService) extractKeywords(ctx context.Context, reviews []models.Review) []string {
	var keywords []string
	for _, review := range reviews {
		resp, err := s.sentimentOracle.Polarity(ctx, review.Text)
		if err != nil {
			logrus.WithError(err).WithField("review_id", review.ID).Warn("Keyword extraction failed")
			continue
		}
		keywords = append(keywords, resp.NounPhrases...)
	}
	if len(keywords) > seoKeywordLimit {
		keywords = keywords[:seoKeywordLimit]
	}
	return keywords
}

func buildSEOContext(product string, salesCount int, keywords []string) string {
	keywordList := "none"
	if len(keywords) > 0 {
		keywordList = strings.Join(keywords, ", ")
	}

	var b strings.Builder
	b.WriteString("You are MerchantLens, an AI assistant for small online sellers.\n")
	fmt.Fprintf(&b, "Product: %s.\n", product)
	fmt.Fprintf(&b, "Sales count: %d.\n", salesCount)
	fmt.Fprintf(&b, "Review keywords: %s.\n", keywordList)
	b.WriteString("Generate a concise, SEO-optimized product title (under 60 characters) and description (under 150 characters) using the keywords. ")
	b.WriteString("Ensure the title includes the product name and is keyword-rich. ")
	b.WriteString(`Respond with one "Title: ..." line and one "Description: ..." line.`)
	return b.String()
}

// parseSEOContent picks the Title/Description lines out of the model output,
// falling back to literal defaults when a line is missing or malformed.
func parseSEOContent(product, content string) models.SEOContent {
	result := models.SEOContent{
		Title:       product,
		Description: fmt.Sprintf("High-quality %s.", product),
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := strings.CutPrefix(line, "Title:"); ok {
			if value = strings.TrimSpace(value); value != "" {
				result.Title = value
			}
		} else if value, ok := strings.CutPrefix(line, "Description:"); ok {
			if value = strings.TrimSpace(value); value != "" {
				result.Description = value
			}
		}
	}

	return result
}
