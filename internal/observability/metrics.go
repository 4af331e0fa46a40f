package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesTotal     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "rapid_dispatch", Name: "matches_total", Help: "Total matching requests served"})
	BookingsTotal    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "rapid_dispatch", Name: "bookings_total", Help: "Total successful bookings"})
	BookingFailures  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "rapid_dispatch", Name: "booking_failures_total", Help: "Total rejected booking attempts"})
	DriversAvailable = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "rapid_dispatch", Name: "drivers_available", Help: "Drivers currently available for matching"})
	QuoteCacheHits   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "rapid_dispatch", Name: "quote_cache_hits_total", Help: "Route quotes served from cache"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "rapid_dispatch", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rapid_dispatch",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
