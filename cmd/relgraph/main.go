package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"relgraph/infrastructure/config"
	"relgraph/infrastructure/di"
)

// Headless sync runner: signs in with credentials from the environment,
// loads the graph snapshot, and mirrors remote changes until interrupted.
// Useful for soaking the sync path without a rendering layer attached.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	logger := container.Logger

	email := os.Getenv("RELGRAPH_EMAIL")
	password := os.Getenv("RELGRAPH_PASSWORD")
	if email != "" {
		if _, err := container.Sessions.SignIn(ctx, email, password); err != nil {
			logger.Fatal("sign-in failed", zap.Error(err))
		}
	}

	if err := container.Controller.Load(ctx); err != nil {
		logger.Fatal("initial load failed", zap.Error(err))
	}

	if err := container.Controller.Start(ctx); err != nil {
		logger.Fatal("change feed failed to start", zap.Error(err))
	}

	logger.Info("sync running",
		zap.Int("people", len(container.Store.People())),
		zap.String("environment", cfg.Environment),
	)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
}
