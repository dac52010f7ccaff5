package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/podx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database, runs migrations and prints their state.
//
// A missing config file is created from the embedded template first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err != nil && r.configPath != "" {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(r.configPath); err == nil {
			r.logger.Info("config file created", "path", r.configPath)
			config.ApplyEnv()
			r.config = config
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	if _, err := r.openLibrary(); err != nil {
		return err
	}
	if r.db == nil {
		return fmt.Errorf("%w: the library was not opened from %s", shared.ErrServiceUnavailable, r.config.Database.Path)
	}

	if cmd.Bool("rollback") {
		m, err := shared.RollbackMigration(r.db)
		if err != nil {
			return err
		}
		r.logger.Warn("migration reverted", "version", m.Version, "name", m.Name)
	}

	statuses, err := shared.Migrations(r.db)
	if err != nil {
		return err
	}

	r.writePlainHeader("Database: " + r.config.Database.Path)
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		r.writePlain("  migration %03d  %-7s  %s\n", s.Version, state, s.Name)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

// SetupConfig writes the default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config path is empty", shared.ErrMissingArgument)
	}

	if cmd.Bool("force") {
		if err := os.Remove(r.configPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}

	r.writePlain("✓ Configuration written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Podcast Index key pair, or export %s and %s\n", shared.EnvAPIKey, shared.EnvAPISecret)
	r.writePlain("2. Run 'podx setup database'\n")
	r.writePlain("3. Run 'podx' to open the browser\n")
	return nil
}
