package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Backend client metrics
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec

	// Push channel metrics
	streamMessages  *prometheus.CounterVec
	streamConnected prometheus.Gauge

	// View metrics
	suggestions prometheus.Histogram
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_backend_requests_total",
			Help: "Signal backend requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)
	r.backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_backend_request_duration_seconds",
			Help:    "Signal backend request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"endpoint"},
	)
	r.streamMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_stream_messages_total",
			Help: "Push channel messages by result",
		},
		[]string{"result"},
	)
	r.streamConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracker_stream_connected",
			Help: "1 while the push channel is open",
		},
	)
	r.suggestions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracker_autocomplete_suggestions",
			Help:    "Number of suggestions returned per autocomplete query",
			Buckets: []float64{0, 1, 2, 4, 8},
		},
	)

	reg.MustRegister(r.backendRequests)
	reg.MustRegister(r.backendDuration)
	reg.MustRegister(r.streamMessages)
	reg.MustRegister(r.streamConnected)
	reg.MustRegister(r.suggestions)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordBackendRequest records one signal backend call.
func (r *Registry) RecordBackendRequest(endpoint, outcome string, duration float64) {
	r.backendRequests.WithLabelValues(endpoint, outcome).Inc()
	r.backendDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordStreamMessage records one push message.
func (r *Registry) RecordStreamMessage(result string) {
	r.streamMessages.WithLabelValues(result).Inc()
}

// SetStreamConnected flips the connection gauge.
func (r *Registry) SetStreamConnected(connected bool) {
	if connected {
		r.streamConnected.Set(1)
		return
	}
	r.streamConnected.Set(0)
}

// RecordSuggestions records the size of one autocomplete result.
func (r *Registry) RecordSuggestions(n int) {
	r.suggestions.Observe(float64(n))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
