package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/merchantlens/merchantlens-go/internal/config"
	"github.com/sirupsen/logrus"
)

// Client is the HTTP client for the sentiment sidecar service.
type Client struct {
	HTTPClient *http.Client
	baseURL    string
}

// NewClient creates a new sentiment client instance.
func NewClient(cfg config.SentimentConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(cfg.ServiceURL, "/"),
	}
}

// Polarity scores one piece of text. Empty text short-circuits to a neutral
// score without a network round trip.
func (c *Client) Polarity(ctx context.Context, text string) (*PolarityResponse, error) {
	if strings.TrimSpace(text) == "" {
		return &PolarityResponse{Polarity: 0}, nil
	}

	var response PolarityResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/api/polarity", PolarityRequest{Text: text}, &response); err != nil {
		return nil, err
	}
	if response.Polarity < -1 || response.Polarity > 1 {
		return nil, fmt.Errorf("sentiment service returned polarity out of range: %f", response.Polarity)
	}
	return &response, nil
}

// HealthCheck checks if the sentiment service is healthy.
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var response HealthResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/health", nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "MerchantLens-Go/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing sentiment response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err == nil && errorResp.Error != "" {
			return fmt.Errorf("sentiment service error (%d): %s", resp.StatusCode, errorResp.Error)
		}
		return fmt.Errorf("sentiment service error (%d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
