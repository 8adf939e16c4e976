package repositories

import (
	"context"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/platform/graphdb"
	"errors"
	"strings"
	"testing"
)

func TestNeo4jRepositorySavePointSendsOneStatement(t *testing.T) {
	client := graphdb.NewMemoryClient()
	repo, err := NewNeo4jNetworkRepository(client)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	p := domain.Point{ID: 2, X: 1, Y: 0}
	routes := meshRoutes(p, []domain.Point{{ID: 1}}, 4)
	if err := repo.SavePoint(context.Background(), p, routes); err != nil {
		t.Fatalf("save: %v", err)
	}

	calls := client.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("write calls = %d, want 1", len(calls))
	}
	call := calls[0]
	if !strings.Contains(call.Query, "CREATE (p:DeliveryPoint") || !strings.Contains(call.Query, "UNWIND $routes") {
		t.Fatalf("unexpected query: %s", call.Query)
	}
	if call.Params["id"] != int64(2) {
		t.Fatalf("id param = %v, want int64(2)", call.Params["id"])
	}
	params, ok := call.Params["routes"].([]any)
	if !ok || len(params) != 2 {
		t.Fatalf("routes param = %#v, want 2 entries", call.Params["routes"])
	}
	first := params[0].(map[string]any)
	if first["fromId"] != int64(2) || first["toId"] != int64(1) || first["speedLimit"] != 4.0 {
		t.Fatalf("first route param = %v", first)
	}
}

func TestNeo4jRepositoryLoadNetwork(t *testing.T) {
	client := graphdb.NewMemoryClient()
	client.PushReadResult(graphdb.Result{Records: []graphdb.Record{
		{"id": int64(1), "x": 0.0, "y": 0.0},
		{"id": int64(2), "x": 3.0, "y": 4.0},
	}})
	client.PushReadResult(graphdb.Result{Records: []graphdb.Record{
		{"fromId": int64(1), "toId": int64(2), "distance": 5.0, "speedLimit": int64(2)},
		{"fromId": int64(2), "toId": int64(1), "distance": 5.0, "speedLimit": 2.0},
	}})

	repo, _ := NewNeo4jNetworkRepository(client)
	points, routes, err := repo.LoadNetwork(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(points) != 2 || points[1] != (domain.Point{ID: 2, X: 3, Y: 4}) {
		t.Fatalf("points = %+v", points)
	}
	if len(routes) != 2 || routes[0].SpeedLimit != 2 || routes[0].Distance != 5 {
		t.Fatalf("routes = %+v", routes)
	}
	if got := len(client.ReadCalls()); got != 2 {
		t.Fatalf("read calls = %d, want 2", got)
	}
}

func TestNeo4jRepositoryLoadRejectsMalformedRecords(t *testing.T) {
	client := graphdb.NewMemoryClient()
	client.PushReadResult(graphdb.Result{Records: []graphdb.Record{{"id": "one", "x": 0.0, "y": 0.0}}})

	repo, _ := NewNeo4jNetworkRepository(client)
	if _, _, err := repo.LoadNetwork(context.Background()); err == nil {
		t.Fatalf("expected error for malformed record")
	}
}

func TestNeo4jRepositoryDeletePoint(t *testing.T) {
	client := graphdb.NewMemoryClient()
	client.PushWriteResult(graphdb.Result{Records: []graphdb.Record{{"deleted": int64(1)}}})
	client.PushWriteResult(graphdb.Result{Records: []graphdb.Record{{"deleted": int64(0)}}})

	repo, _ := NewNeo4jNetworkRepository(client)
	ctx := context.Background()

	if err := repo.DeletePoint(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeletePoint(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}

	calls := client.WriteCalls()
	if len(calls) != 2 || !strings.Contains(calls[0].Query, "DETACH DELETE") {
		t.Fatalf("unexpected calls: %+v", calls)
	}
}

func TestNeo4jRepositoryPropagatesClientErrors(t *testing.T) {
	boom := errors.New("bolt unavailable")
	client := graphdb.NewMemoryClient().WithError(boom)
	repo, _ := NewNeo4jNetworkRepository(client)
	ctx := context.Background()

	if err := repo.SavePoint(ctx, domain.Point{ID: 1}, nil); !errors.Is(err, boom) {
		t.Fatalf("save err = %v, want wrapped client error", err)
	}
	if err := repo.DeleteAll(ctx); !errors.Is(err, boom) {
		t.Fatalf("delete all err = %v, want wrapped client error", err)
	}
	if err := repo.EnsureConstraints(ctx); !errors.Is(err, boom) {
		t.Fatalf("constraints err = %v, want wrapped client error", err)
	}
}

func TestNeo4jRepositoryClose(t *testing.T) {
	client := graphdb.NewMemoryClient()
	repo, _ := NewNeo4jNetworkRepository(client)

	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !client.Closed() {
		t.Fatalf("client should be closed")
	}
}

func TestNewNeo4jRepositoryRequiresClient(t *testing.T) {
	if _, err := NewNeo4jNetworkRepository(nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
