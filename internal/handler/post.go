package handler

import (
	"net/http"

	"github.com/postboard/postboard-go/internal/middleware"
	"github.com/postboard/postboard-go/internal/model"
	"github.com/postboard/postboard-go/internal/service"
)

// PostHandler handles HTTP requests for posts and likes.
type PostHandler struct {
	posts *service.PostService
	likes *service.LikeService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *service.PostService, likes *service.LikeService) *PostHandler {
	return &PostHandler{posts: posts, likes: likes}
}

// HandleList handles GET /api/v1/post requests.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	resp, err := h.posts.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate handles POST /api/v1/post requests.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	publicID, ok := middleware.PublicIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.posts.Create(r.Context(), publicID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /api/v1/post/{post_id} requests.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PUT /api/v1/post/{post_id} requests.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	publicID, ok := middleware.PublicIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}
	id, ok := postIDParam(w, r)
	if !ok {
		return
	}

	var req model.PostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.posts.Update(r.Context(), publicID, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/post/{post_id} requests.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	publicID, ok := middleware.PublicIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}
	id, ok := postIDParam(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), publicID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "post deleted"})
}

// HandleLike handles POST /api/v1/post/{post_id}/like requests.
func (h *PostHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	publicID, ok := middleware.PublicIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}
	id, ok := postIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.likes.Like(r.Context(), publicID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUnlike handles DELETE /api/v1/post/{post_id}/like requests.
func (h *PostHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	publicID, ok := middleware.PublicIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}
	id, ok := postIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.likes.Unlike(r.Context(), publicID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
