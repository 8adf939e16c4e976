package ports

import (
	"context"
	"delivery-network-service/internal/domain"
)

// Port: durable storage behind the in-memory network.
// Every method is a single atomic transaction.
type NetworkRepository interface {
	// Load every stored point and route.
	LoadNetwork(ctx context.Context) ([]domain.Point, []domain.Route, error)
	// Store a new point together with all of its mesh routes.
	SavePoint(ctx context.Context, p domain.Point, routes []domain.Route) error
	// Delete a point and its routes. Fails with ErrNotFound.
	DeletePoint(ctx context.Context, id domain.PointID) error
	// Delete all points and routes.
	DeleteAll(ctx context.Context) error
	Close() error
}
