package repositories

import (
	"context"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/platform/graphdb"
	"delivery-network-service/internal/platform/obs"
	"errors"
	"fmt"
)

const (
	pointConstraintCypher = `
CREATE CONSTRAINT delivery_point_id IF NOT EXISTS
FOR (p:DeliveryPoint) REQUIRE p.id IS UNIQUE`

	loadPointsCypher = `
MATCH (p:DeliveryPoint)
RETURN p.id AS id, p.x AS x, p.y AS y
ORDER BY id`

	loadRoutesCypher = `
MATCH (a:DeliveryPoint)-[r:ROUTE]->(b:DeliveryPoint)
RETURN a.id AS fromId, b.id AS toId, r.distance AS distance, r.speedLimit AS speedLimit
ORDER BY fromId, toId`

	savePointCypher = `
CREATE (p:DeliveryPoint {id: $id, x: $x, y: $y})
WITH p
UNWIND $routes AS route
MATCH (a:DeliveryPoint {id: route.fromId})
MATCH (b:DeliveryPoint {id: route.toId})
CREATE (a)-[:ROUTE {distance: route.distance, speedLimit: route.speedLimit}]->(b)`

	deletePointCypher = `
MATCH (p:DeliveryPoint {id: $id})
DETACH DELETE p
RETURN count(*) AS deleted`

	deleteAllCypher = `
MATCH (p:DeliveryPoint)
DETACH DELETE p`
)

// Graph-database implementation of the NetworkRepository port. Points are
// (:DeliveryPoint) nodes and routes are directed [:ROUTE] relationships.
// Each operation is one cypher statement, so it commits atomically.
type Neo4jNetworkRepository struct {
	client graphdb.Client
}

func NewNeo4jNetworkRepository(client graphdb.Client) (*Neo4jNetworkRepository, error) {
	if client == nil {
		return nil, errors.New("neo4j network repository: client is nil")
	}
	return &Neo4jNetworkRepository{client: client}, nil
}

// Create the uniqueness constraint on point ids.
func (r *Neo4jNetworkRepository) EnsureConstraints(ctx context.Context) (err error) {
	defer obs.Time(ctx, "repo.neo4j.EnsureConstraints")(&err)

	if _, err := r.client.ExecuteWrite(ctx, pointConstraintCypher, nil); err != nil {
		return fmt.Errorf("ensure constraints: %w", err)
	}
	return nil
}

func (r *Neo4jNetworkRepository) LoadNetwork(ctx context.Context) (_ []domain.Point, _ []domain.Route, err error) {
	defer obs.Time(ctx, "repo.neo4j.LoadNetwork")(&err)

	pointRes, err := r.client.ExecuteRead(ctx, loadPointsCypher, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("load network: query points: %w", err)
	}

	points := make([]domain.Point, 0, len(pointRes.Records))
	for i, rec := range pointRes.Records {
		id, okID := rec.Int64("id")
		x, okX := rec.Float64("x")
		y, okY := rec.Float64("y")
		if !okID || !okX || !okY {
			return nil, nil, fmt.Errorf("load network: malformed point record #%d: %v", i+1, map[string]any(rec))
		}
		points = append(points, domain.Point{ID: domain.PointID(id), X: x, Y: y})
	}

	routeRes, err := r.client.ExecuteRead(ctx, loadRoutesCypher, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("load network: query routes: %w", err)
	}

	routes := make([]domain.Route, 0, len(routeRes.Records))
	for i, rec := range routeRes.Records {
		from, okFrom := rec.Int64("fromId")
		to, okTo := rec.Int64("toId")
		dist, okDist := rec.Float64("distance")
		speed, okSpeed := rec.Float64("speedLimit")
		if !okFrom || !okTo || !okDist || !okSpeed {
			return nil, nil, fmt.Errorf("load network: malformed route record #%d: %v", i+1, map[string]any(rec))
		}
		routes = append(routes, domain.Route{
			FromID:     domain.PointID(from),
			ToID:       domain.PointID(to),
			Distance:   dist,
			SpeedLimit: speed,
		})
	}

	return points, routes, nil
}

func (r *Neo4jNetworkRepository) SavePoint(ctx context.Context, p domain.Point, routes []domain.Route) (err error) {
	defer obs.Time(ctx, "repo.neo4j.SavePoint")(&err)

	params := map[string]any{
		"id":     int64(p.ID),
		"x":      p.X,
		"y":      p.Y,
		"routes": routeParams(routes),
	}
	if _, err := r.client.ExecuteWrite(ctx, savePointCypher, params); err != nil {
		return fmt.Errorf("save point: point_id=%d: %w", p.ID, err)
	}
	return nil
}

func (r *Neo4jNetworkRepository) DeletePoint(ctx context.Context, id domain.PointID) (err error) {
	defer obs.Time(ctx, "repo.neo4j.DeletePoint")(&err)

	res, err := r.client.ExecuteWrite(ctx, deletePointCypher, map[string]any{"id": int64(id)})
	if err != nil {
		return fmt.Errorf("delete point: point_id=%d: %w", id, err)
	}

	deleted := int64(0)
	if len(res.Records) > 0 {
		deleted, _ = res.Records[0].Int64("deleted")
	}
	if deleted == 0 {
		return fmt.Errorf("delete point: point_id=%d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Neo4jNetworkRepository) DeleteAll(ctx context.Context) (err error) {
	defer obs.Time(ctx, "repo.neo4j.DeleteAll")(&err)

	if _, err := r.client.ExecuteWrite(ctx, deleteAllCypher, nil); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	return nil
}

func (r *Neo4jNetworkRepository) Close() error {
	return r.client.Close(context.Background())
}

func routeParams(routes []domain.Route) []any {
	out := make([]any, 0, len(routes))
	for _, rt := range routes {
		out = append(out, map[string]any{
			"fromId":     int64(rt.FromID),
			"toId":       int64(rt.ToID),
			"distance":   rt.Distance,
			"speedLimit": rt.SpeedLimit,
		})
	}
	return out
}
