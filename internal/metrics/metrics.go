package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)
	EffortFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hop_effort_fetches_total", Help: "Per-user Strava effort fetches by outcome"},
		[]string{"outcome"}, // ok | none | stale | error
	)
	LeaderboardSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hop_leaderboard_entries",
			Help:    "Entries per leaderboard build",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

func MustRegister() {
	prometheus.MustRegister(RequestsTotal, ReqDuration, InFlight, EffortFetches, LeaderboardSize)
}
