package ports

import (
	"context"
	"delivery-network-service/internal/domain"
)

// Optional cache of routing results. Entries are keyed by the network
// version they were computed at, so a mutation never serves stale results.
type RouteCache interface {
	// Return a cached path; ok is false on a miss.
	GetPath(ctx context.Context, version string, start, end domain.PointID) (res *domain.PathResult, ok bool, err error)
	PutPath(ctx context.Context, version string, start, end domain.PointID, res *domain.PathResult) error
	// Return a cached ordering; ok is false on a miss.
	GetOrder(ctx context.Context, version string, start domain.PointID) (res *domain.OrderResult, ok bool, err error)
	PutOrder(ctx context.Context, version string, start domain.PointID, res *domain.OrderResult) error
}
