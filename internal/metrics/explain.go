package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation and explanation-provider Prometheus metrics.
var (
	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fragrec",
			Name:      "catalog_size",
			Help:      "Number of items in the current catalog snapshot",
		},
	)

	RecommendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fragrec",
			Name:      "recommend_requests_total",
			Help:      "Total number of recommendation queries",
		},
		[]string{"outcome"}, // "ok", "empty_catalog", "no_candidates"
	)

	ExplainRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fragrec",
			Name:      "explain_requests_total",
			Help:      "Total number of explanation provider calls",
		},
		[]string{"status"}, // "success" / "error"
	)

	ExplainRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fragrec",
			Name:      "explain_request_duration_seconds",
			Help:      "Explanation provider call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ExplainCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fragrec",
			Name:      "explain_cache_total",
			Help:      "Explanation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var explainMetricsRegistered bool

// RegisterExplainMetrics registers the recommendation metrics. Must be
// called once from main.
func RegisterExplainMetrics() {
	if explainMetricsRegistered {
		return
	}
	prometheus.MustRegister(CatalogSize)
	prometheus.MustRegister(RecommendRequestsTotal)
	prometheus.MustRegister(ExplainRequestsTotal)
	prometheus.MustRegister(ExplainRequestDuration)
	prometheus.MustRegister(ExplainCacheTotal)
	explainMetricsRegistered = true
}
