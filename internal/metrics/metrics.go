package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LLM call outcomes
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerprep",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"service", "method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "peerprep",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "method", "path", "status"})

	httpInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "peerprep",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	}, []string{"service"})

	llmRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerprep",
		Subsystem: "interview",
		Name:      "llm_requests_total",
		Help:      "LLM gateway calls by operation and outcome",
	}, []string{"operation", "outcome"})

	llmLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "peerprep",
		Subsystem: "interview",
		Name:      "llm_request_duration_seconds",
		Help:      "Duration of LLM gateway calls in seconds, retries included",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
	}, []string{"operation"})

	interviewEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "peerprep",
		Subsystem: "interview",
		Name:      "session_events_total",
		Help:      "Interview lifecycle events",
	}, []string{"event"})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records request metrics with Prometheus labels.
// The path label uses the chi route pattern to keep cardinality bounded.
func Middleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			httpInFlight.WithLabelValues(service).Inc()
			defer httpInFlight.WithLabelValues(service).Dec()

			next.ServeHTTP(rec, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			labels := prometheus.Labels{
				"service": service,
				"method":  r.Method,
				"path":    path,
				"status":  strconv.Itoa(rec.status),
			}
			httpRequests.With(labels).Inc()
			httpLatency.With(labels).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveLLM records one gateway call.
func ObserveLLM(operation, outcome string, elapsed time.Duration) {
	llmRequests.WithLabelValues(operation, outcome).Inc()
	llmLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// InterviewEvent counts lifecycle events such as started, answered, auto_submitted, completed.
func InterviewEvent(event string) {
	interviewEvents.WithLabelValues(event).Inc()
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
