package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gwa-tracker/internal/models"
	appErrors "github.com/noah-isme/gwa-tracker/pkg/errors"
)

func TestMetricsServiceMutationOutcomes(t *testing.T) {
	m := NewMetricsService()
	m.ObserveMutation("subject", "create", nil)
	m.ObserveMutation("subject", "create", appErrors.Clone(appErrors.ErrBusy, ""))
	m.ObserveMutation("subject", "create", errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("subject", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("subject", "create", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("subject", "create", "error")))
}

func TestMetricsServiceStoreAndSummary(t *testing.T) {
	m := NewMetricsService()
	m.ObserveStore("set", time.Millisecond, nil)
	m.ObserveStore("set", time.Millisecond, errors.New("timeout"))
	m.ObserveSummary(models.Summary{GWA: 1.625, TotalUnits: 12})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("set")))
	assert.Equal(t, 1.625, testutil.ToFloat64(m.currentGWA))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.currentUnits))
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/subjects", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), "gwa_current")

	var nilMetrics *MetricsService
	rec = httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
