package handler

import (
	"net/http"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

// DashboardHandler serves the sidebar counters.
type DashboardHandler struct {
	stats *service.StatsService
}

func NewDashboardHandler(stats *service.StatsService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Stats(r.Context(), auth.GetUser(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
