package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic_finance"

var (
	// CalculationsTotal counts public operations by outcome
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Total number of calculations by operation and result",
		},
		[]string{"operation", "result"},
	)

	// FeeLookupFallbackTotal counts strategy failures that fell through to the next strategy
	FeeLookupFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_lookup_fallback_total",
			Help:      "Fee schedule lookups that fell back to the next strategy",
		},
		[]string{"method"},
	)

	// DataInconsistencyTotal counts clamped values
	DataInconsistencyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_inconsistency_total",
			Help:      "Inconsistent fee data repaired during calculation",
		},
		[]string{"kind"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"method", "route", "status"},
	)

	CacheWarmedProfiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_warmed_profiles",
			Help:      "Fee profiles loaded into the cache by the last warm-up run",
		},
	)
)

// Result labels
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)
