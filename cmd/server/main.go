package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/auth"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/handler"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/adapters/session"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/config"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/ports"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize Repository
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	// Revoked sessions live in Redis when configured
	var revocations ports.RevocationStore = session.NopStore{}
	if cfg.RedisAddr != "" {
		client, err := session.Connect(context.Background(), session.ConnectOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		revocations = session.NewRedisStore(client)
		log.Info("session revocation enabled", logger.String("redis", cfg.RedisAddr))
	}

	authService := auth.NewService(auth.OptionsFromConfig(cfg), revocations, log)
	mux := handler.NewRouter(cfg, repo, authService, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("http server error", logger.Error(err))
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", logger.Error(err))
	}
}
