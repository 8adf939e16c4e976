package cache

import (
	"delivery-network-service/internal/domain"
	"fmt"
)

// Both caches share one key layout.

func pathKey(version string, start, end domain.PointID) string {
	return fmt.Sprintf("network:%s:path:%d:%d", version, start, end)
}

func orderKey(version string, start domain.PointID) string {
	return fmt.Sprintf("network:%s:order:%d", version, start)
}
