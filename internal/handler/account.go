package handler

import (
	"net/http"

	"github.com/postboard/postboard-go/internal/middleware"
	"github.com/postboard/postboard-go/internal/service"
)

// AccountHandler handles HTTP requests for account management.
type AccountHandler struct {
	service *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{service: svc}
}

// HandleList handles GET /api/v1/user requests.
func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteMe handles DELETE /api/v1/user/me requests.
func (h *AccountHandler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	publicID, ok := middleware.PublicIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.Delete(r.Context(), publicID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
