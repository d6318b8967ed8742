package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderdesk"

// Results recorded for workflow operations.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Recorder owns its own registry so tests and multiple servers never collide
// on the default one. A nil *Recorder records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	operations    *prometheus.CounterVec
	notifications *prometheus.CounterVec
	queryRecords  *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_operations_total",
			Help:      "Workflow operations by operation and result.",
		}, []string{"operation", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification events by type and delivery outcome.",
		}, []string{"type", "outcome"}),
		queryRecords: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_result_size",
			Help:      "Number of records returned per query, by tab.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"tab"}),
	}
	r.registry.MustRegister(
		r.operations,
		r.notifications,
		r.queryRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveOperation counts one workflow operation.
func (r *Recorder) ObserveOperation(operation, result string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, result).Inc()
}

func (r *Recorder) ObserveNotification(eventType, outcome string) {
	if r == nil {
		return
	}
	r.notifications.WithLabelValues(eventType, outcome).Inc()
}

func (r *Recorder) ObserveQuery(tab string, size int) {
	if r == nil {
		return
	}
	r.queryRecords.WithLabelValues(tab).Observe(float64(size))
}

// Operations exposes the operations counter for assertions.
func (r *Recorder) Operations() *prometheus.CounterVec { return r.operations }

func (r *Recorder) Notifications() *prometheus.CounterVec { return r.notifications }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
