package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/config"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, store ports.BookmarkStore, auth ports.AuthService, log logger.Logger) http.Handler {
	p := newPages(log)
	h := NewHTTPHandler(store, auth, log)
	dh := NewDashboardHandler(store, auth, p, log)
	ah := NewAuthHandler(auth, p, log, cfg.GoogleRedirectURL, cfg.IsProduction())
	mw := NewMiddleware(auth, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(Log(log))

	// Public Routes
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	r.Get("/static/app.css", p.stylesheet)
	r.With(mw.OptionalSession).Get("/", ah.LoginPage)
	r.Post("/login", ah.Login)
	r.Get("/auth/callback", ah.Callback)
	r.With(mw.OptionalSession).Post("/logout", ah.Logout)

	// Dashboard pages
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware)
		r.Get("/dashboard", dh.Show)
		r.Post("/dashboard/bookmarks", dh.Create)
		r.Post("/dashboard/bookmarks/{id}/delete", dh.Delete)
	})

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.AuthMiddleware)
		r.Get("/me", h.Me)
		r.Get("/bookmarks", h.List)
		r.Post("/bookmarks", h.Create)
		r.Delete("/bookmarks/{id}", h.Delete)
	})

	return r
}
