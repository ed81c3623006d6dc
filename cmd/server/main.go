// Stored procedure lineage server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/sproc-lineage/internal/api"
	"github.com/ashureev/sproc-lineage/internal/app"
	"github.com/ashureev/sproc-lineage/internal/config"
	"github.com/ashureev/sproc-lineage/internal/history"
	"github.com/ashureev/sproc-lineage/internal/identity"
	"github.com/ashureev/sproc-lineage/internal/logger"
	"github.com/ashureev/sproc-lineage/internal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	pipeline, err := app.New(cfg, log)
	if err != nil {
		log.Error("Failed to initialize pipeline", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := pipeline.Close(); closeErr != nil {
			log.Error("Failed to close audit log", "error", closeErr)
		}
	}()

	if err := pipeline.Audit.Ping(context.Background()); err != nil {
		log.Error("Audit database health check failed", "error", err)
		os.Exit(1)
	}
	log.Info("Pipeline ready",
		"dialect", pipeline.Dialect.Name,
		"output_dir", cfg.OutputDir,
		"audit_enabled", cfg.Audit.Enabled)

	// Initialize handlers.
	sessions := history.NewSessions()
	lineageHandler := api.NewLineageHandler(pipeline.Controller, sessions, pipeline.Audit)
	healthHandler := api.NewHealthHandler(pipeline.Audit)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins()))

	// Public routes.
	healthHandler.RegisterHealth(r)

	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(cfg.IsDevelopment()))
		r.Use(middleware.RequestLogger(log))
		lineageHandler.RegisterRoutes(r)
	})

	// Catalog queries and model calls are bounded only by the request
	// context, so there is no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped", "sessions", sessions.Count())
}
