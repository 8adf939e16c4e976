package dto

type PointResponse struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type ListPointsResponse struct {
	Points []PointResponse `json:"points"`
}

// Fields are pointers so a missing value can be told apart from zero.
type CreatePointRequest struct {
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	SpeedLimit *float64 `json:"speed_limit"`
}

// DeliveryPointID is accepted for older clients.
type DeletePointRequest struct {
	ID              *int64 `json:"id"`
	DeliveryPointID *int64 `json:"DeliveryPointID"`
}

type DeletedResponse struct {
	Deleted any `json:"deleted"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Points   int    `json:"points"`
	Routes   int    `json:"routes"`
	Revision uint64 `json:"revision"`
}
