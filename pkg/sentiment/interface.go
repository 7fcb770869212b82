package sentiment

import "context"

// Oracle defines the operations the core consumes from the external
// text-sentiment service. Polarity is a scalar in [-1, 1]; NounPhrases are
// keyword candidates for SEO copy.
type Oracle interface {
	Polarity(ctx context.Context, text string) (*PolarityResponse, error)
	HealthCheck(ctx context.Context) (*HealthResponse, error)
}
