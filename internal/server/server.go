// Package server wires the application together and exposes it as an
// http.Server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/storage"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	cfg     *config.Config
	db      database.Service
	storage storage.Service
	log     *slog.Logger
}

// New creates and configures the HTTP server with all routes registered.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*http.Server, database.Service, error) {
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("database connected")

	var store storage.Service
	if storage.Configured() {
		store, err = storage.New(ctx)
		if err != nil {
			log.Warn("object storage unavailable, export disabled", "error", err)
			store = nil
		} else {
			log.Info("object storage connected")
		}
	} else {
		log.Info("object storage not configured, export disabled")
	}

	app := &Server{
		cfg:     cfg,
		db:      db,
		storage: store,
		log:     log,
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return srv, db, nil
}
