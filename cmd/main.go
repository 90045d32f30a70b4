package main

import (
	"context"
	"errors"
	"os"

	"github.com/redcliffe/strum/internal/services"
	"github.com/redcliffe/strum/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	ctx := context.Background()

	catalog := services.NewCatalogClient(ctx, services.ClientOpts{
		BaseURL:      config.Server.BaseURL,
		SearchRate:   config.Search.RateLimit,
		ClientID:     config.Server.ClientID,
		ClientSecret: config.Server.ClientSecret,
		TokenURL:     config.Server.TokenURL,
	})

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "strum",
		Usage:    "Browse, play & grow a self-hosted music catalog",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
