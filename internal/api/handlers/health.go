package handlers

import (
	"delivery-network-service/internal/api/dto"
	"delivery-network-service/internal/services"
	"net/http"
)

// HealthHandler reports liveness along with the current network size.
type HealthHandler struct {
	Service *services.NetworkService
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		writeDomainError(w, r, "health", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Points:   stats.Points,
		Routes:   stats.Routes,
		Revision: stats.Revision,
	})
}
