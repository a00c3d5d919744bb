package handlers

import (
	"net/http"

	"github.com/diewo77/talentos/auth"
	"github.com/diewo77/talentos/internal/services"
)

type DashboardHandler struct {
	name        string
	dashboard   *services.DashboardService
	maintenance *services.MaintenanceService
}

func NewDashboardHandler(name string, dashboard *services.DashboardService, maintenance *services.MaintenanceService) *DashboardHandler {
	return &DashboardHandler{name: name, dashboard: dashboard, maintenance: maintenance}
}

// Landing is the public entry point.
func (h *DashboardHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	payload := map[string]any{"name": h.name, "login": "/login"}
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		payload["account"] = id
		payload["dashboard"] = "/dashboard"
	}
	show(w, r, payload)
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		fail(w, r, err, "/")
		return
	}
	id, _ := auth.IdentityFromContext(r.Context())
	show(w, r, map[string]any{"account": id, "stats": stats})
}

// Maintenance shows read-only system status to masters.
func (h *DashboardHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	st, err := h.maintenance.Status(r.Context())
	if err != nil {
		fail(w, r, err, "/dashboard")
		return
	}
	show(w, r, map[string]any{"status": st})
}
