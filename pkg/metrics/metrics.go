package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readverse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "readverse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	CoinsMovedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readverse_coins_moved_total",
			Help: "Coins moved by each money flow",
		},
		[]string{"flow"},
	)

	InsufficientFundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readverse_insufficient_funds_total",
			Help: "Debits rejected for insufficient balance",
		},
		[]string{"flow"},
	)

	RefundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readverse_refunds_total",
			Help: "Compensating credits issued",
		},
		[]string{"flow"},
	)

	ChapterAccessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readverse_chapter_access_total",
			Help: "Chapter access decisions by role and outcome",
		},
		[]string{"role", "outcome"},
	)
)

func RecordHTTPRequest(service, method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(service, method, path).Observe(duration)
}

func RecordCoins(flow string, coins int) {
	CoinsMovedTotal.WithLabelValues(flow).Add(float64(coins))
}

func RecordInsufficientFunds(flow string) {
	InsufficientFundsTotal.WithLabelValues(flow).Inc()
}

func RecordRefund(flow string) {
	RefundsTotal.WithLabelValues(flow).Inc()
}

func RecordChapterAccess(role, outcome string) {
	ChapterAccessTotal.WithLabelValues(role, outcome).Inc()
}
