package handlers

import "net/http"

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.DashboardService.GetDashboardData(r.Context())
	writeResult(h, w, r, res, err, http.StatusOK)
}
