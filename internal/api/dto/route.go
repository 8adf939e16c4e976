package dto

type OrderRequest struct {
	StartID *int64 `json:"start_id"`
}

type OrderStopResponse struct {
	ID          int64   `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	MinTime     float64 `json:"minTime"`
	LegTime     float64 `json:"legTime"`
	LegDistance float64 `json:"legDistance"`
}

type OrderResponse struct {
	VisitOrder    []int64             `json:"visitOrder"`
	TotalTime     float64             `json:"totalTime"`
	TotalDistance float64             `json:"totalDistance"`
	Stops         []OrderStopResponse `json:"stops"`
}

type PathRequest struct {
	StartID *int64 `json:"start_id"`
	EndID   *int64 `json:"end_id"`
}

type PathResponse struct {
	Route         []int64         `json:"route"`
	Points        []PointResponse `json:"points"`
	TotalTime     float64         `json:"totalTime"`
	TotalDistance float64         `json:"totalDistance"`
}
