package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redcliffe/strum/internal/cache"
	"github.com/redcliffe/strum/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing and bootstraps the offline
// cache index.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				return fmt.Errorf("failed to load created config: %w", err)
			}
		}
	}

	r.logger.Info("initializing offline cache index", "path", config.Cache.IndexPath)

	db, err := shared.NewDatabase(config.Cache.IndexPath)
	if err != nil {
		return fmt.Errorf("failed to create cache index: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Cache.MaxOpenConns, config.Cache.MaxIdleConns)

	if _, err := cache.NewRegistry(db, config.Cache.Dir); err != nil {
		return fmt.Errorf("failed to bootstrap cache registry: %w", err)
	}

	r.logger.Infof("setup complete for cache index: %v", config.Cache.IndexPath)
	return nil
}
