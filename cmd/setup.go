package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/crosspub/crosspub/internal/session"
	"github.com/crosspub/crosspub/internal/shared"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
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
	r.config = config

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}

// SetupDoctor checks that Chrome and the profiles directory are usable.
func (r *Runner) SetupDoctor(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	binary := config.Chrome.Binary
	if binary == "" {
		detected, err := session.DetectChrome()
		if err != nil {
			r.writePlainln("chrome: NOT FOUND (set chrome.binary in config.toml)")
			return err
		}
		binary = detected
	}
	r.writePlainln("chrome: %s", binary)

	base, err := session.ProfilesBaseDir(config.Chrome.ProfilesDir)
	if err != nil {
		return fmt.Errorf("failed to resolve profiles directory: %w", err)
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return fmt.Errorf("failed to create profiles directory: %w", err)
	}
	r.writePlainln("profiles: %s", base)

	r.writePlainln("database: %s", config.Database.Path)
	return nil
}
