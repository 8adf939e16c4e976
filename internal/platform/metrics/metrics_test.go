package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetNetworkSize(t *testing.T) {
	SetNetworkSize(4, 12)

	if got := testutil.ToFloat64(NetworkPoints); got != 4 {
		t.Fatalf("points gauge = %v, want 4", got)
	}
	if got := testutil.ToFloat64(NetworkRoutes); got != 12 {
		t.Fatalf("routes gauge = %v, want 12", got)
	}
}

func TestRouteQueriesCountsByLabel(t *testing.T) {
	before := testutil.ToFloat64(RouteQueries.WithLabelValues("path", "no_path"))
	RouteQueries.WithLabelValues("path", "no_path").Inc()

	if got := testutil.ToFloat64(RouteQueries.WithLabelValues("path", "no_path")); got != before+1 {
		t.Fatalf("counter = %v, want %v", got, before+1)
	}
}
