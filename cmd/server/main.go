package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/app"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/scheduler"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logg.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	schemaVersion, err := database.Migrate(context.Background(), db)
	if err != nil {
		logg.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	logg.Info("connected to database", "path", cfg.Database.Path, "schema_version", schemaVersion, "app_version", version.Version)

	services, err := app.Build(db, cfg, logg)
	if err != nil {
		logg.Error("failed to build services", "error", err)
		os.Exit(1)
	}

	var jobs *scheduler.Scheduler
	if cfg.Reconcile.Schedule != "" {
		jobs, err = scheduler.New(cfg.Reconcile.Schedule, services.Reconcile, logg)
		if err != nil {
			logg.Error("failed to schedule reconciliation", "error", err)
			os.Exit(1)
		}
		jobs.Start()
		logg.Info("reconciliation scheduled", "schedule", cfg.Reconcile.Schedule, "workers", cfg.Reconcile.Workers)
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(services, cfg, logg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logg.Info("starting server", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if jobs != nil {
		jobs.Stop(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		logg.Error("server forced to shutdown", "error", err)
		return
	}

	logg.Info("server exited")
}
