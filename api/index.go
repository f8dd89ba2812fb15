package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/auth"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/handler"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/session"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/config"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, false)

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	// Note: On Vercel, db.sqlite is ephemeral unless using a remote SQL/Turso URL in DATABASE_URL
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	// No long-lived Redis connection here: sign-out only clears the cookie.
	authService := auth.NewService(auth.OptionsFromConfig(cfg), session.NopStore{}, log)
	mux = handler.NewRouter(cfg, repo, authService, log)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
