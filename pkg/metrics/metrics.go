package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the collectors exported on /metrics. A nil Recorder records nothing.
type Recorder struct {
	registry      *prometheus.Registry
	apiRequests   *prometheus.CounterVec
	apiLatency    *prometheus.HistogramVec
	sessionEvents *prometheus.CounterVec
}

// NewRecorder registers the board collectors on a private registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r := &Recorder{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jungle_board",
			Name:      "api_requests_total",
			Help:      "Outbound board API calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jungle_board",
			Name:      "api_request_duration_seconds",
			Help:      "Outbound board API latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jungle_board",
			Name:      "session_events_total",
			Help:      "Session store events (save, clear, purge, remote).",
		}, []string{"event"}),
	}
	reg.MustRegister(r.apiRequests, r.apiLatency, r.sessionEvents)
	return r
}

// ObserveAPICall records one outbound call.
func (r *Recorder) ObserveAPICall(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.apiRequests.WithLabelValues(endpoint, outcome).Inc()
	r.apiLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// SessionEvent counts a session store transition.
func (r *Recorder) SessionEvent(event string) {
	if r == nil {
		return
	}
	r.sessionEvents.WithLabelValues(event).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
