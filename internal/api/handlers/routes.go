package handlers

import (
	"delivery-network-service/internal/api/dto"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/services"
	"net/http"
)

// RouteHandler answers the ordering and path queries.
type RouteHandler struct {
	Service *services.NetworkService
}

// Order returns every reachable point ordered by minimal travel time from the start.
func (h *RouteHandler) Order(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StartID == nil {
		writeError(w, r, http.StatusBadRequest, "start_id is required")
		return
	}

	order, err := h.Service.OrderByTime(r.Context(), domain.PointID(*req.StartID))
	if err != nil {
		writeDomainError(w, r, "order by time", err)
		return
	}

	res := dto.OrderResponse{
		VisitOrder:    make([]int64, 0, len(order.Stops)),
		TotalTime:     order.TotalTime,
		TotalDistance: order.TotalDistance,
		Stops:         make([]dto.OrderStopResponse, 0, len(order.Stops)),
	}
	for _, s := range order.Stops {
		res.VisitOrder = append(res.VisitOrder, int64(s.Point.ID))
		res.Stops = append(res.Stops, dto.OrderStopResponse{
			ID:          int64(s.Point.ID),
			X:           s.Point.X,
			Y:           s.Point.Y,
			MinTime:     s.MinTime,
			LegTime:     s.LegTime,
			LegDistance: s.LegDistance,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Path returns the minimum-time path between two points.
func (h *RouteHandler) Path(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PathRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StartID == nil || req.EndID == nil {
		writeError(w, r, http.StatusBadRequest, "start_id and end_id are required")
		return
	}

	path, err := h.Service.ShortestPath(r.Context(), domain.PointID(*req.StartID), domain.PointID(*req.EndID))
	if err != nil {
		writeDomainError(w, r, "shortest path", err)
		return
	}

	res := dto.PathResponse{
		Route:         make([]int64, 0, len(path.Points)),
		Points:        make([]dto.PointResponse, 0, len(path.Points)),
		TotalTime:     path.TotalTime,
		TotalDistance: path.TotalDistance,
	}
	for _, p := range path.Points {
		res.Route = append(res.Route, int64(p.ID))
		res.Points = append(res.Points, toPointResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}
