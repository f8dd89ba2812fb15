package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/views"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

// HTTPHandler serves the JSON API. Each request drives its own dashboard view.
type HTTPHandler struct {
	store ports.BookmarkStore
	auth  ports.Authenticator
	log   logger.Logger
}

func NewHTTPHandler(store ports.BookmarkStore, auth ports.Authenticator, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{store: store, auth: auth, log: log}
}

// CreateBookmarkRequest payload
type CreateBookmarkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context())
	if err != nil || user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// List bookmarks, newest first
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	view := views.NewDashboard(h.store, h.auth, h.log)
	if err := view.Load(r.Context()); err != nil {
		writeError(w, statusFor(err), errorMessage(err))
		return
	}

	bookmarks := view.Bookmarks()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  bookmarks,
		"total": len(bookmarks),
	})
}

// Create Bookmark
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view := views.NewDashboard(h.store, h.auth, h.log)
	bookmark, err := view.Add(r.Context(), req.Title, req.URL)
	if err != nil {
		writeError(w, statusFor(err), errorMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, bookmark)
}

// Delete Bookmark. Deleting a bookmark that is already gone succeeds.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	view := views.NewDashboard(h.store, h.auth, h.log)
	if err := view.Remove(r.Context(), id); err != nil {
		writeError(w, statusFor(err), errorMessage(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyField), errors.Is(err, domain.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// errorMessage hides store internals behind a generic message.
func errorMessage(err error) string {
	if statusFor(err) == http.StatusBadGateway {
		return "bookmark store unavailable"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
