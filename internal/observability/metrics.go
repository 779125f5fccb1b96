package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec

	leadsCreated     prometheus.Counter
	notifications    *prometheus.CounterVec
	botUpdates       *prometheus.CounterVec
	botFetchFailures prometheus.Counter
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "HTTP requests that ended in an error response, by error code.",
		}, []string{"method", "path", "code"}),
		leadsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Leads stored by the ingestion endpoint.",
		}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification delivery attempts per recipient, by outcome.",
		}, []string{"outcome"}),
		botUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adminbot_updates_total",
			Help: "Updates handled by the admin bot, by resolved command.",
		}, []string{"command"}),
		botFetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "adminbot_fetch_errors_total",
			Help: "Failed long-poll fetches.",
		}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(method, path, code).Inc()
}

// RecordLeadCreated counts a stored lead.
func (m *Metrics) RecordLeadCreated() {
	if m == nil {
		return
	}
	m.leadsCreated.Inc()
}

// RecordNotification counts one delivery attempt.
func (m *Metrics) RecordNotification(delivered bool) {
	if m == nil {
		return
	}
	outcome := "delivered"
	if !delivered {
		outcome = "failed"
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

// RecordBotUpdate counts a handled bot update.
func (m *Metrics) RecordBotUpdate(command string) {
	if m == nil {
		return
	}
	m.botUpdates.WithLabelValues(command).Inc()
}

// RecordBotFetchError counts a failed long-poll fetch.
func (m *Metrics) RecordBotFetchError() {
	if m == nil {
		return
	}
	m.botFetchFailures.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
