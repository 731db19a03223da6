package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prostore-hq/prostore-events-bridge/internal/app"
	"github.com/prostore-hq/prostore-events-bridge/internal/config"
	"github.com/prostore-hq/prostore-events-bridge/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bridge start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	// The private token stays out of the logs.
	logger.InfoObj("bridge starting", "config", map[string]any{
		"app_name":        cfg.AppName,
		"env":             cfg.Env,
		"store_url":       cfg.StoreURL,
		"store_user_id":   cfg.StoreUserID,
		"watchers_file":   cfg.WatchersFile,
		"publishers_file": cfg.PublishersFile,
		"poll_interval":   cfg.PollInterval.String(),
		"storage_type":    cfg.StorageType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bridge, err := app.NewBridge(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize bridge", "error", err)
		return err
	}

	if err := bridge.Run(ctx); err != nil {
		return fmt.Errorf("bridge run: %w", err)
	}

	return nil
}
