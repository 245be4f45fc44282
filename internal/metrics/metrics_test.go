package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ScoreSubmitted(t *testing.T) {
	m := New()

	m.ScoreSubmitted(ResultOK, true)
	m.ScoreSubmitted(ResultOK, false)
	m.ScoreSubmitted(ResultRejected, false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.scoreSubmissions.WithLabelValues(ResultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.scoreSubmissions.WithLabelValues(ResultRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bestScoreUpdates))
}

func TestMetrics_PuzzleFetched(t *testing.T) {
	m := New()

	m.PuzzleFetched(ResultError, 2*time.Second)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.puzzleFetches.WithLabelValues(ResultError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.puzzleDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.HTTPRequest(http.MethodGet, "/leaderboard", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `bananaquest_http_requests_total{method="GET",route="/leaderboard",status="200"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
