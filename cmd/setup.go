package main

import (
	"context"
	"fmt"
	"os"

	"github.com/auxshare/auxd/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a config file if missing and initializes the session database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing session database", "path", config.Sessions.Path)

	db, err := shared.NewDatabase(config.Sessions.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Sessions.Path)
	r.writePlain("%s Setup complete\n", styles.ok.Render("✓"))
	r.writePlain("  Config: %s\n", configPath)
	r.writePlain("  Sessions: %s\n", config.Sessions.Path)
	if config.Credentials.Spotify.ClientID == "" {
		r.writePlain("%s\n", styles.warn.Render("⚠ Spotify credentials are not set; edit the config or export SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET."))
	}
	return nil
}
