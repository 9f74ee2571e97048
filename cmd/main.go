package main

import (
	"context"
	"errors"
	"os"

	"github.com/auxshare/auxd/internal/platforms"
	"github.com/auxshare/auxd/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	// Credentials may live in a .env file; missing files are fine.
	godotenv.Load()

	logger := shared.NewLogger(nil)
	if os.Getenv("DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	registry := platforms.NewRegistry()
	buildRegistry(registry, config, logger)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Registry: registry,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "auxd",
		Usage:    "Convert playlists between music platforms and share them by code",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// buildRegistry registers every supported catalog with its URL patterns.
// Registration order decides classification priority.
func buildRegistry(registry *platforms.Registry, config *shared.Config, logger *log.Logger) {
	spotify := platforms.NewSpotifyPlatform(
		config.Credentials.Spotify.ClientID,
		config.Credentials.Spotify.ClientSecret,
	)
	if err := registry.Register(spotify, platforms.SpotifyURLPatterns...); err != nil {
		logger.Warn("failed to register spotify", "error", err)
	}

	youtube := platforms.NewYouTubeMusicPlatform(config.Credentials.YouTube.ProxyURL)
	if err := registry.Register(youtube, platforms.YouTubeMusicURLPatterns...); err != nil {
		logger.Warn("failed to register youtube music", "error", err)
	}

	apple := platforms.NewAppleMusicPlatform()
	if err := registry.Register(apple, platforms.AppleMusicURLPatterns...); err != nil {
		logger.Warn("failed to register apple music", "error", err)
	}
}
