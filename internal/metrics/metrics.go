package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ForecastRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extremecast_forecast_requests_total",
			Help: "Total forecast invocations by city and outcome",
		},
		[]string{"city", "status"},
	)

	ForecastDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extremecast_forecast_duration_seconds",
			Help:    "End-to-end forecast pipeline duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"city"},
	)

	EventsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extremecast_events_detected_total",
			Help: "Extreme weather events detected, by city and severity",
		},
		[]string{"city", "severity"},
	)

	RulesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extremecast_rules_skipped_total",
			Help: "Rules skipped during evaluation because a field was missing or evaluation failed",
		},
		[]string{"rule"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extremecast_cache_hits_total",
			Help: "Forecast cache hits and misses",
		},
		[]string{"city", "result"},
	)
)
