package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-renderer/internal/metrics"
)

func TestObserveRender(t *testing.T) {
	m := metrics.New()
	start := time.Now()

	m.ObserveRender(metrics.KindInvoice, start, nil, 0)
	m.ObserveRender(metrics.KindInvoice, start, nil, 1)
	m.ObserveRender(metrics.KindPreview, start, errors.New("boom"), 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues(metrics.KindInvoice, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RendersTotal.WithLabelValues(metrics.KindPreview, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QRWarnings))
}

func TestObserveRequest(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest("/health", http.StatusOK)
	m.ObserveRequest("/api/v1/templates/:id", http.StatusNotFound)
	m.ObserveRequest("", http.StatusNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestTotal.WithLabelValues("/health", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestTotal.WithLabelValues("/api/v1/templates/:id", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestTotal.WithLabelValues("unmatched", "4xx")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveRender(metrics.KindQR, time.Now(), nil, 0)
		m.IncrementActivations()
		m.ObserveRequest("/x", 200)
	})
}

func TestHandler(t *testing.T) {
	m := metrics.New()
	m.IncrementActivations()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invoice_template_activations_total 1")
}
