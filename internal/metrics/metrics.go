package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckIns counts check-in attempts by outcome.
	CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mess",
		Name:      "checkins_total",
		Help:      "Check-in attempts by outcome.",
	}, []string{"outcome"})

	// ImportedRows counts CSV roster rows by result (added, skipped).
	ImportedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mess",
		Name:      "import_rows_total",
		Help:      "Roster import rows by result.",
	}, []string{"result"})

	// Logins counts admin login attempts by result (success, failure).
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mess",
		Name:      "admin_logins_total",
		Help:      "Admin login attempts by result.",
	}, []string{"result"})

	// RequestDuration observes HTTP handling time per route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mess",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
