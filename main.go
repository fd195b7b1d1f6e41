// ABOUTME: Entry point for the callbridge service
// ABOUTME: Serves the caller memory admin API and voice-agent webhooks

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/callbridge/config"
	"github.com/markalston/callbridge/logger"
	"github.com/markalston/callbridge/server"
	"github.com/markalston/callbridge/services"
)

func main() {
	// Initialize structured logging
	appLogger := logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := services.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open memory store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}

	slog.Info("Starting callbridge")
	server.LogStartup(appLogger, cfg)

	runErr := server.New(cfg, store).Run(ctx, ":"+cfg.Port)

	if err := store.Close(); err != nil {
		slog.Error("Failed to close memory store", "error", err)
	}
	if runErr != nil {
		slog.Error("Server failed", "error", runErr)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
