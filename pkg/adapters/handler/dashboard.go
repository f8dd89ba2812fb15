package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/views"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

// DashboardHandler serves the HTML dashboard.
type DashboardHandler struct {
	store ports.BookmarkStore
	auth  ports.Authenticator
	pages *pages
	log   logger.Logger
}

func NewDashboardHandler(store ports.BookmarkStore, auth ports.Authenticator, p *pages, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{store: store, auth: auth, pages: p, log: log}
}

var dashboardNotices = map[string]string{
	"delete_failed": "Could not remove the bookmark. Please try again.",
}

func (h *DashboardHandler) view() *views.Dashboard {
	return views.NewDashboard(h.store, h.auth, h.log)
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	view := h.view()
	page := dashboardPage{Notice: dashboardNotices[r.URL.Query().Get("notice")]}
	h.renderView(w, r, view, http.StatusOK, page)
}

func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	title, link := r.PostForm.Get("title"), r.PostForm.Get("url")

	view := h.view()
	if _, err := view.Add(r.Context(), title, link); err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			http.Redirect(w, r, views.LoginPath, http.StatusSeeOther)
			return
		}
		// Keep what the user typed and show why nothing was saved.
		page := dashboardPage{FormTitle: title, FormURL: link, Notice: formNotice(err, view)}
		h.renderView(w, r, view, statusFor(err), page)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.view().Remove(r.Context(), id); err != nil {
		http.Redirect(w, r, "/dashboard?notice=delete_failed", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// renderView loads the collection and renders it. A failed load still renders, flagged as such.
func (h *DashboardHandler) renderView(w http.ResponseWriter, r *http.Request, view *views.Dashboard, status int, page dashboardPage) {
	if err := view.Load(r.Context()); err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			http.Redirect(w, r, views.LoginPath, http.StatusSeeOther)
			return
		}
		page.LoadFailed = true
		if page.Notice == "" {
			page.Notice = view.Notice()
		}
	}

	page.User, _ = h.auth.CurrentUser(r.Context())
	page.Bookmarks = view.Bookmarks()
	h.pages.renderDashboard(w, status, page)
}

func formNotice(err error, view *views.Dashboard) string {
	switch {
	case errors.Is(err, domain.ErrEmptyField):
		return "Title and URL are required."
	case errors.Is(err, domain.ErrInvalidURL):
		return "Please enter a full link, like https://example.com."
	default:
		return view.Notice()
	}
}
