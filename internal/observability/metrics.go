package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	collectionOpSeconds *prometheus.HistogramVec
	staleDropCounter    *prometheus.CounterVec
	authFailureCounter  *prometheus.CounterVec
	sessionStateCounter *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		collectionOpSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "console_collection_op_duration_seconds",
			Help:    "Latency of remote collection operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection", "operation", "outcome"})

		staleDropCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_stale_responses_dropped_total",
			Help: "Responses discarded because a later-issued operation already applied",
		}, []string{"collection"})

		authFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_authorization_failures_total",
			Help: "Credentialed calls rejected by the backend",
		}, []string{"collection"})

		sessionStateCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "console_session_transitions_total",
			Help: "Session guard state transitions",
		}, []string{"to"})

		prometheus.MustRegister(
			collectionOpSeconds,
			staleDropCounter,
			authFailureCounter,
			sessionStateCounter,
		)
	})
}

func ObserveCollectionOp(collection, operation, outcome string, duration time.Duration) {
	if collectionOpSeconds == nil {
		return
	}
	collectionOpSeconds.WithLabelValues(collection, operation, outcome).Observe(duration.Seconds())
}

func IncrementStaleDrop(collection string) {
	if staleDropCounter == nil {
		return
	}
	staleDropCounter.WithLabelValues(collection).Inc()
}

func IncrementAuthFailure(collection string) {
	if authFailureCounter == nil {
		return
	}
	authFailureCounter.WithLabelValues(collection).Inc()
}

func IncrementSessionTransition(to string) {
	if sessionStateCounter == nil {
		return
	}
	sessionStateCounter.WithLabelValues(to).Inc()
}
