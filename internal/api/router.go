package api

import (
	"delivery-network-service/internal/api/handlers"
	"delivery-network-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	// Serve Prometheus metrics on /metrics.
	Metrics bool
}

// NewRouter wires HTTP handlers with the network service and returns an http.Handler.
func NewRouter(svc *services.NetworkService, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Service: svc}
	pointHandler := &handlers.PointHandler{Service: svc}
	routeHandler := &handlers.RouteHandler{Service: svc}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/delivery/points", pointHandler.List)
	mux.HandleFunc("/delivery/point", pointHandler.Point)
	mux.HandleFunc("/delivery/all-points", pointHandler.DeleteAll)
	mux.HandleFunc("/delivery/order", routeHandler.Order)
	mux.HandleFunc("/delivery/path", routeHandler.Path)

	if opts.Metrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	return requestIDMiddleware(loggingMiddleware(mux))
}
