package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	complaintsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaints_created_total",
			Help: "Total number of complaints filed",
		},
		[]string{"category", "urgency"},
	)

	complaintsStatusChanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaints_status_changed_total",
			Help: "Total number of complaint status changes",
		},
		[]string{"from_status", "to_status"},
	)

	complaintsAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "complaints_assigned_total",
			Help: "Total number of complaints assigned to staff",
		},
		[]string{"category"},
	)

	classificationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classification_requests_total",
			Help: "Total number of classification requests by outcome",
		},
		[]string{"source"}, // model, fallback, default
	)

	classificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "classification_duration_seconds",
			Help:    "End-to-end classification duration in seconds",
			Buckets: []float64{.005, .025, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath normalizes URL paths for metrics to avoid cardinality explosion
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordComplaintCreated records a complaint creation
func RecordComplaintCreated(category string, urgency int) {
	complaintsCreated.WithLabelValues(category, strconv.Itoa(urgency)).Inc()
}

// RecordStatusChange records a complaint status change
func RecordStatusChange(fromStatus, toStatus string) {
	complaintsStatusChanged.WithLabelValues(fromStatus, toStatus).Inc()
}

// RecordAssignment records a staff assignment
func RecordAssignment(category string) {
	complaintsAssigned.WithLabelValues(category).Inc()
}

// RecordClassification records a classification request outcome and duration.
// Source is "model" when the AI capability produced the result, "fallback"
// when the keyword rules did, and "default" for empty input.
func RecordClassification(source string, duration time.Duration) {
	classificationRequests.WithLabelValues(source).Inc()
	classificationDuration.Observe(duration.Seconds())
}
