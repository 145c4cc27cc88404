package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics records outbound backend calls and the artifacts/uploads
// they produce. All methods are nil-receiver safe so wiring stays optional.
type ClientMetrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	downloadsTotal  *prometheus.CounterVec
	uploadsTotal    *prometheus.CounterVec
}

func NewClientMetrics(service string) *ClientMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolkit",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total backend calls by operation and outcome.",
		},
		[]string{"service", "operation", "outcome"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "toolkit",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Backend call duration in seconds by operation.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service", "operation"},
	)
	downloadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolkit",
			Subsystem: "artifacts",
			Name:      "downloads_total",
			Help:      "Artifacts saved locally by media type.",
		},
		[]string{"service", "mime_type"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "toolkit",
			Subsystem: "uploads",
			Name:      "reference_uploads_total",
			Help:      "Reference data uploads by kind and outcome.",
		},
		[]string{"service", "kind", "outcome"},
	)

	registry.MustRegister(requestTotal, requestDuration, downloadsTotal, uploadsTotal)

	return &ClientMetrics{
		service:         service,
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		downloadsTotal:  downloadsTotal,
		uploadsTotal:    uploadsTotal,
	}
}

func (m *ClientMetrics) ObserveRequest(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(m.service, operation, outcome).Inc()
	m.requestDuration.WithLabelValues(m.service, operation).Observe(elapsed.Seconds())
}

func (m *ClientMetrics) ObserveDownload(mimeType string) {
	if m == nil {
		return
	}
	m.downloadsTotal.WithLabelValues(m.service, mimeType).Inc()
}

func (m *ClientMetrics) ObserveUpload(kind, outcome string) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(m.service, kind, outcome).Inc()
}

// Handler serves the registry for an optional /metrics listener.
func (m *ClientMetrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
