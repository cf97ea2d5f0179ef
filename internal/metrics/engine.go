package metrics

import "github.com/prometheus/client_golang/prometheus"

// Rule-engine Prometheus metrics.
var (
	CatalogBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderhelper",
			Name:      "catalog_builds_total",
			Help:      "Total catalog builds by outcome",
		},
		[]string{"outcome"}, // "ok" / "fallback"
	)

	SourceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderhelper",
			Name:      "rule_source_failures_total",
			Help:      "Total rule source fetch or parse failures",
		},
		[]string{"source"},
	)

	MatchFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "orderhelper",
			Name:      "match_fallbacks_total",
			Help:      "Total queries resolved by the below-floor fallback record",
		},
	)

	JustifyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderhelper",
			Name:      "justify_requests_total",
			Help:      "Total AI justification requests",
		},
		[]string{"status"}, // "success" / "error"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers rule-engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(CatalogBuildsTotal)
	prometheus.MustRegister(SourceFailuresTotal)
	prometheus.MustRegister(MatchFallbacksTotal)
	prometheus.MustRegister(JustifyRequestsTotal)
	engineMetricsRegistered = true
}
