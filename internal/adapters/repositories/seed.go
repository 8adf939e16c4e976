package repositories

import (
	"delivery-network-service/internal/domain"
	"encoding/json"
	"fmt"
	"os"
)

type PointSeed struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	SpeedLimit float64 `json:"speed_limit"`
}

// Read point seeds from a JSON file. Points are inserted by the caller so
// every seed gets its full mesh of routes.
func SeedFromJSON(jsonPath string) ([]PointSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed points: read %q: %w", jsonPath, err)
	}

	var data []PointSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed points: parse json: %w", err)
	}

	for i, item := range data {
		if !domain.Finite(item.X, item.Y, item.SpeedLimit) {
			return nil, fmt.Errorf("seed points: item at index %d: coordinates must be finite", i+1)
		}
		if item.SpeedLimit <= 0 {
			return nil, fmt.Errorf("seed points: item at index %d: speed_limit must be positive, got %v", i+1, item.SpeedLimit)
		}
	}

	return data, nil
}
