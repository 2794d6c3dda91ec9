package main

import (
	"context"
	"os"

	"github.com/you/allospace/internal/app"
	"github.com/you/allospace/internal/config"
	"github.com/you/allospace/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logging.New(false).Error(ctx, "config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.IsProduction())

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := app.Run(ctx, cfg, log); err != nil {
		log.Error(ctx, "app", "error", err)
		os.Exit(1)
	}
}
