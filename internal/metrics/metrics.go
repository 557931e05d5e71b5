package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Route discovery metrics
	RouteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meridian_route_requests_total",
			Help: "Total number of route discovery requests",
		},
		[]string{"status"},
	)

	RouteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meridian_route_duration_seconds",
		Help:    "End-to-end route discovery duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// Router phase metrics for performance analysis
	DirectRouteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meridian_direct_route_duration_seconds",
		Help:    "Direct route search duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.02, 0.05},
	})

	MultiHopDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meridian_multihop_duration_seconds",
		Help:    "Multi-hop route search duration in seconds",
		Buckets: []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1},
	})

	SplitRouteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meridian_split_route_duration_seconds",
		Help:    "Split route search duration in seconds",
		Buckets: []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.02},
	})

	RoutesEvaluated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meridian_routes_evaluated",
		Help:    "Candidate routes evaluated per request",
		Buckets: []float64{1, 2, 5, 10, 20, 50},
	})

	// Gateway metrics
	GatewayErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meridian_gateway_errors_total",
			Help: "Pool lookup failures by protocol (skipped, not fatal)",
		},
		[]string{"protocol"},
	)

	PoolCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meridian_pool_cache_hits_total",
		Help: "Total number of pool cache hits",
	})

	PoolCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meridian_pool_cache_misses_total",
		Help: "Total number of pool cache misses",
	})

	PoolCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meridian_pool_cache_size",
		Help: "Current number of entries in the pool cache",
	})

	// Risk analyzer metrics
	RiskAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meridian_risk_analyses_total",
			Help: "Slippage analyses by verdict",
		},
		[]string{"verdict"},
	)

	SandwichFlags = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meridian_sandwich_flags_total",
		Help: "Price histories flagged by the sandwich heuristic",
	})

	PriceSamplesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meridian_price_samples_recorded_total",
		Help: "Price observations appended to history rings",
	})

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meridian_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meridian_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
