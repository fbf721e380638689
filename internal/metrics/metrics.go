package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Engine state
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smile_connections_active",
		Help: "The current number of registered connections.",
	})
	ConnectionsWaiting = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smile_connections_waiting",
		Help: "The current number of connections in the waiting pool.",
	})
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smile_sessions_active",
		Help: "The current number of paired sessions.",
	})
	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smile_connections_total",
		Help: "The total number of connections registered.",
	})

	// Matching
	MatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smile_matches_total",
		Help: "The total number of sessions formed, by matcher step.",
	}, []string{"reason"})
	SessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smile_sessions_ended_total",
		Help: "The total number of sessions destroyed, by cause.",
	}, []string{"cause"})

	// Relay
	SignalsRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smile_signals_relayed_total",
		Help: "The total number of signaling payloads forwarded to a partner.",
	}, []string{"kind"})
	SignalsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smile_signals_dropped_total",
		Help: "The total number of signaling payloads dropped for lack of a session.",
	})

	// Transport
	Backpressure = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "smile_backpressure_total",
		Help: "The total number of notifications hitting a full outbound buffer, by action.",
	}, []string{"action"})
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smile_rate_limited_total",
		Help: "The total number of join/skip requests rejected by the churn limiter.",
	})
)

// Handler serves the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
