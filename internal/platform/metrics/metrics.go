package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide collectors, registered on the default registry by promauto.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_network_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delivery_network_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	NetworkPoints = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "delivery_network_points",
			Help: "Number of live delivery points",
		},
	)

	NetworkRoutes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "delivery_network_routes",
			Help: "Number of live directed routes",
		},
	)

	// op is "path" or "order"; outcome is "ok", "cached" or an error class.
	RouteQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_network_route_queries_total",
			Help: "Routing queries by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_network_cache_lookups_total",
			Help: "Route cache lookups by operation and result",
		},
		[]string{"op", "result"},
	)
)

// SetNetworkSize publishes the current point and route counts.
func SetNetworkSize(points, routes int) {
	NetworkPoints.Set(float64(points))
	NetworkRoutes.Set(float64(routes))
}
