package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/merchantlens/merchantlens-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewsCSV = "date,product,text,rating\n" +
	"2024-02-05,Coffee,rich and smooth,5\n" +
	"2024-02-06,Coffee,too bitter,2\n" +
	"2024-02-07,Croissant,fine I guess,\n"

func TestUploadReviews_RawBody(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})

	w := f.request(t, http.MethodPost, "/api/v1/upload-reviews", "text/csv", reviewsCSV)
	require.Equal(t, http.StatusOK, w.Code)

	var report models.UploadReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Accepted)
	assert.Equal(t, 0, report.Rejected)
}

func TestGetReviewSentiment_ClassifiesStoredReviews(t *testing.T) {
	oracle := &stubSentimentOracle{
		polarities: map[string]float64{
			"rich and smooth": 0.8,
			"too bitter":      -0.6,
			"fine I guess":    0,
		},
	}
	f := newFixture(t, oracle, &stubLLMOracle{})
	f.request(t, http.MethodPost, "/api/v1/upload-reviews", "text/csv", reviewsCSV)

	w := f.request(t, http.MethodGet, "/api/v1/reviews/sentiment", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SentimentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Reviews, 3)

	assert.Equal(t, models.SentimentPositive, resp.Reviews[0].Label)
	assert.InDelta(t, 0.8, resp.Reviews[0].Polarity, 1e-9)
	assert.Equal(t, models.SentimentNegative, resp.Reviews[1].Label)
	assert.Equal(t, models.SentimentNeutral, resp.Reviews[2].Label)
	assert.NotEmpty(t, resp.Reviews[0].ReviewID)
}

func TestGetReviewSentiment_OracleFailureFlagsEntry(t *testing.T) {
	oracle := &stubSentimentOracle{
		polarities: map[string]float64{"rich and smooth": 0.8},
		failures:   map[string]error{"too bitter": errors.New("sidecar down")},
	}
	f := newFixture(t, oracle, &stubLLMOracle{})
	f.request(t, http.MethodPost, "/api/v1/upload-reviews", "text/csv", reviewsCSV)

	w := f.request(t, http.MethodGet, "/api/v1/reviews/sentiment", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SentimentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Reviews, 3)

	assert.Empty(t, resp.Reviews[0].Error)
	assert.Contains(t, resp.Reviews[1].Error, "sidecar down")
	assert.Empty(t, resp.Reviews[2].Error)
}

func TestGetReviewSentiment_EmptyStore(t *testing.T) {
	f := newFixture(t, &stubSentimentOracle{}, &stubLLMOracle{})

	w := f.request(t, http.MethodGet, "/api/v1/reviews/sentiment", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SentimentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Reviews)
}
