package handlers

import (
	"delivery-network-service/internal/api/dto"
	"delivery-network-service/internal/domain"
	"delivery-network-service/internal/services"
	"net/http"
)

// PointHandler exposes delivery point listing and mutation endpoints.
type PointHandler struct {
	Service *services.NetworkService
}

func (h *PointHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	points, err := h.Service.ListPoints(r.Context())
	if err != nil {
		writeDomainError(w, r, "list points", err)
		return
	}

	res := dto.ListPointsResponse{Points: make([]dto.PointResponse, 0, len(points))}
	for _, p := range points {
		res.Points = append(res.Points, toPointResponse(p))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Point serves POST (insert) and DELETE (remove one) on the same path.
func (h *PointHandler) Point(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.Header().Set("Allow", "POST, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *PointHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePointRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.X == nil || req.Y == nil || req.SpeedLimit == nil {
		writeError(w, r, http.StatusBadRequest, "x, y and speed_limit are required")
		return
	}

	p, err := h.Service.InsertPoint(r.Context(), services.InsertPointRequest{
		X:          *req.X,
		Y:          *req.Y,
		SpeedLimit: *req.SpeedLimit,
	})
	if err != nil {
		writeDomainError(w, r, "insert point", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toPointResponse(p))
}

func (h *PointHandler) delete(w http.ResponseWriter, r *http.Request) {
	var req dto.DeletePointRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := req.ID
	if id == nil {
		id = req.DeliveryPointID
	}
	if id == nil {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.Service.DeletePoint(r.Context(), domain.PointID(*id)); err != nil {
		writeDomainError(w, r, "delete point", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DeletedResponse{Deleted: *id})
}

func (h *PointHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}

	if err := h.Service.DeleteAll(r.Context()); err != nil {
		writeDomainError(w, r, "delete all points", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DeletedResponse{Deleted: "all"})
}

func toPointResponse(p domain.Point) dto.PointResponse {
	return dto.PointResponse{ID: int64(p.ID), X: p.X, Y: p.Y}
}
