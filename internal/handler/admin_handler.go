package handler

import (
	"net/http"

	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

type AdminHandler struct {
	health *service.HealthService
}

func NewAdminHandler(health *service.HealthService) *AdminHandler {
	return &AdminHandler{health: health}
}

// Healthz reports 503 when any dependency fails its ping.
func (h *AdminHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	rep := h.health.Check(r.Context())
	status := http.StatusOK
	if !rep.OK() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, rep)
}
