package sentiment

import "time"

// HealthResponse represents the sentiment service health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
}

// ErrorResponse represents an error response from the sentiment service.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// PolarityRequest asks the service to score one piece of text.
type PolarityRequest struct {
	Text string `json:"text"`
}

// PolarityResponse carries the polarity score in [-1, 1] and the noun
// phrases extracted from the text.
type PolarityResponse struct {
	Polarity    float64  `json:"polarity"`
	NounPhrases []string `json:"noun_phrases"`
}
