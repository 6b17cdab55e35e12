package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/postboard/postboard-go/internal/service"
)

// AnalyticsHandler serves the aggregate reporting endpoints.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// HandleLikeStats handles GET /api/v1/analytics/analytic?date_from=&date_to= requests.
func (h *AnalyticsHandler) HandleLikeStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.LikeStatsByDate(r.Context(), q.Get("date_from"), q.Get("date_to"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAccountActivity handles GET /api/v1/analytics/user/{user_id} requests.
func (h *AnalyticsHandler) HandleAccountActivity(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.AccountActivity(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
