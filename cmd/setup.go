package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sableaudio/mixtape/internal/shared"
	"github.com/sableaudio/mixtape/internal/store"
)

// Setup writes a config file from the template when none exists and
// initializes the local store.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}
	r.config = config
	r.configPath = configPath

	r.logger.Info("initializing store", "path", config.Database.Path)

	st, err := store.Open(config.Database.Path)
	if err != nil {
		return err
	}
	r.store = st

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Store: %s\n", config.Database.Path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Spotify client id and secret to %s\n", configPath)
	r.writePlain("2. Run 'mixtape auth login'\n")
	r.writePlain("3. Run 'mixtape tui' to start building\n")

	return nil
}
