package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render kinds used as the "kind" label
const (
	KindInvoice = "invoice"
	KindPreview = "preview"
	KindQR      = "qr"
)

// Metrics tracks render throughput, latency and template activations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RendersTotal     *prometheus.CounterVec
	RenderDuration   *prometheus.HistogramVec
	QRWarnings       prometheus.Counter
	Activations      prometheus.Counter
	HTTPRequestTotal *prometheus.CounterVec
}

// New creates a Metrics instance on its own registry, so tests and
// multiple servers in one process never collide
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_renders_total",
			Help: "Total number of render operations by kind and outcome",
		}, []string{"kind", "outcome"}),
		RenderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoice_render_duration_seconds",
			Help:    "Duration of render operations",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"kind"}),
		QRWarnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "invoice_qr_warnings_total",
			Help: "Invoices rendered without their compliance QR",
		}),
		Activations: factory.NewCounter(prometheus.CounterOpts{
			Name: "invoice_template_activations_total",
			Help: "Total number of template activations",
		}),
		HTTPRequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "invoice_http_requests_total",
			Help: "HTTP requests by route and status class",
		}, []string{"route", "status"}),
	}
}

// ObserveRender records one render. Call with time.Now() at the start of
// the operation.
func (m *Metrics) ObserveRender(kind string, start time.Time, err error, warnings int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.RendersTotal.WithLabelValues(kind, outcome).Inc()
	m.RenderDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if warnings > 0 {
		m.QRWarnings.Inc()
	}
}

// IncrementActivations records a successful activation
func (m *Metrics) IncrementActivations() {
	if m == nil {
		return
	}
	m.Activations.Inc()
}

// ObserveRequest counts an HTTP request by route template and status class
func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestTotal.WithLabelValues(route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	}
	return "2xx"
}

// Registry exposes the underlying registry for gathering in tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
