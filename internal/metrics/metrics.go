package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadnavi",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	registrations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadnavi",
			Name:      "registrations_total",
			Help:      "Customer registrations accepted.",
		},
	)

	broadcasts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "leadnavi",
			Name:      "broadcasts_total",
			Help:      "Broadcast deliveries performed.",
		},
	)

	aiCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadnavi",
			Name:      "ai_calls_total",
			Help:      "AI generation calls by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, registrations, broadcasts, aiCalls)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncRegistration counts one accepted registration.
func IncRegistration() {
	registrations.Inc()
}

// IncBroadcast counts one broadcast delivery.
func IncBroadcast() {
	broadcasts.Inc()
}

// IncAICall counts one AI generation call with its outcome ("ok",
// "timeout", "rate_limited", "error").
func IncAICall(outcome string) {
	aiCalls.WithLabelValues(outcome).Inc()
}
