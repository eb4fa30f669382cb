package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cover console metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cover_console",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cover_console",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 15},
		},
		[]string{"method", "endpoint"},
	)

	// Scheduler enqueue outcomes
	SchedulerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cover_console",
			Subsystem: "scheduler",
			Name:      "requests_total",
			Help:      "Total enqueue requests sent to the generation scheduler",
		},
		[]string{"status"},
	)

	SchedulerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cover_console",
			Subsystem: "scheduler",
			Name:      "request_duration_seconds",
			Help:      "Generation scheduler enqueue latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 15},
		},
	)

	// Callback outcomes by resulting generation status
	CallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cover_console",
			Subsystem: "scheduler",
			Name:      "callbacks_total",
			Help:      "Total scheduler callbacks by outcome",
		},
		[]string{"outcome"},
	)

	// Stored files
	StoredFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cover_console",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Total generated file storage operations",
		},
		[]string{"operation", "status"},
	)

	StoredBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cover_console",
			Subsystem: "storage",
			Name:      "stored_bytes_total",
			Help:      "Total bytes written for generated files",
		},
	)

	// Selection mirror copies
	MirrorOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cover_console",
			Subsystem: "selection",
			Name:      "mirror_operations_total",
			Help:      "Total selection mirror copies by backend",
		},
		[]string{"backend", "status"},
	)

	// Grid computation latency
	GridDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cover_console",
			Subsystem: "grid",
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing a grid page in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
	)

	// Live update events
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cover_console",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total live update events by name and delivery path",
		},
		[]string{"event", "path"},
	)

	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cover_console",
			Subsystem: "events",
			Name:      "sse_clients",
			Help:      "Connected server-sent event clients",
		},
	)
)

// Status converts an error into a metric label.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
