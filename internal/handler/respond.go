package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/postboard/postboard-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads a size-limited JSON body into v, writing the error
// response itself when it returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// writeError maps a service error onto a status code. Internal errors are
// logged and never shown to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch service.KindOf(err) {
	case service.KindValidation:
		var verr *service.ValidationError
		errors.As(err, &verr)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "validation failed",
			"details": verr.Violations,
		})
	case service.KindAuth:
		writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
	case service.KindConflict:
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case service.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case service.KindForbidden:
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func postIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "post_id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid post id"))
		return 0, false
	}
	return id, true
}
