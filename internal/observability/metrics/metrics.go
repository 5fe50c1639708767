package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	leavesCreated  *prometheus.CounterVec
	leavesReviewed *prometheus.CounterVec
	leavesDeleted  prometheus.Counter
}

// New registers every collector on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goleave_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goleave_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),

		leavesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goleave_leaves_created_total",
			Help: "Leave requests submitted, by leave type",
		}, []string{"leave_type"}),

		leavesReviewed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goleave_leaves_reviewed_total",
			Help: "Leave reviews recorded, by resulting status",
		}, []string{"status"}),

		leavesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "goleave_leaves_deleted_total",
			Help: "Leave requests deleted",
		}),
	}
}

// ObserveHTTPRequest records an HTTP request metric
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func (m *Metrics) LeaveCreated(leaveType string) {
	m.leavesCreated.WithLabelValues(leaveType).Inc()
}

func (m *Metrics) LeaveReviewed(status string) {
	m.leavesReviewed.WithLabelValues(status).Inc()
}

func (m *Metrics) LeaveDeleted() {
	m.leavesDeleted.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
