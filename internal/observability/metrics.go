package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	closingsTotal   *prometheus.CounterVec
	publishErrors   prometheus.Counter
	reportsWritten  *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contas_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contas_requests_total",
				Help: "Total HTTP requests by route and status class.",
			},
			[]string{"route", "status"},
		),
		closingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contas_month_closings_total",
				Help: "Total month closing attempts by outcome.",
			},
			[]string{"outcome"},
		),
		publishErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "contas_publish_errors_total",
				Help: "Total failures publishing closing events to AMQP.",
			},
		),
		reportsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contas_reports_written_total",
				Help: "Total closing report rows written by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

// RecordRequest records one HTTP request.
func (m *Metrics) RecordRequest(route, status string, d time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(route, status).Inc()
}

// IncrClosing increments the closing counter with an outcome label
// ("success", "duplicate" or "error").
func (m *Metrics) IncrClosing(outcome string) {
	m.closingsTotal.WithLabelValues(outcome).Inc()
}

// IncrPublishError increments the AMQP publish error counter.
func (m *Metrics) IncrPublishError() {
	m.publishErrors.Inc()
}

// IncrReportWritten increments the report row counter with an outcome label.
func (m *Metrics) IncrReportWritten(outcome string) {
	m.reportsWritten.WithLabelValues(outcome).Inc()
}
