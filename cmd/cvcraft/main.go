package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cvcraft/internal/cli"
	"cvcraft/internal/config"
	"cvcraft/pkg/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Getenv("CVCRAFT_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log.Debug, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting cvcraft", zap.String("version", cli.Version))
	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
