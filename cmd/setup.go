package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default config file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		path = defaultConfigPath
	}
	path = shared.ExpandPath(path)

	r.logger.Info("creating config file", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url to your backend, e.g. https://hub.example.com/api\n")
	return r.writePlain("2. Run 'hub setup database' and then 'hub auth login'\n")
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := shared.ExpandPath(r.config.Database.Path)
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := shared.GetMigrationStatus(db)
	if err != nil {
		return err
	}
	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Database ready at %s (schema version %d)\n", path, status.Current)
}

type setupStatus struct {
	ConfigPath    string `json:"config_path"`
	ConfigFound   bool   `json:"config_found"`
	BaseURL       string `json:"base_url"`
	DatabasePath  string `json:"database_path"`
	SchemaVersion int    `json:"schema_version"`
	Pending       int    `json:"pending_migrations"`
	Persistent    bool   `json:"persistent_session"`
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// SetupStatus reports configuration, database and session state.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	status := setupStatus{
		ConfigPath:    r.configPath,
		BaseURL:       r.hub.BaseURL(),
		DatabasePath:  r.config.Database.Path,
		Persistent:    r.db != nil,
		Authenticated: r.session.Authenticated(),
		Username:      r.session.Username(),
	}
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err == nil {
			status.ConfigFound = true
		}
	}
	if r.db != nil {
		ms, err := shared.GetMigrationStatus(r.db)
		if err != nil {
			return err
		}
		status.SchemaVersion, status.Pending = ms.Current, ms.Pending()
	}

	return r.render(cmd, status, func() error {
		r.writePlainHeader("Hobby Hub")
		r.writePlain("Config: %s %s\n", status.ConfigPath, shared.CheckMark(status.ConfigFound))
		r.writePlain("Backend: %s\n", status.BaseURL)
		if status.Persistent {
			r.writePlain("Database: %s (schema v%d, %d pending)\n", status.DatabasePath, status.SchemaVersion, status.Pending)
		} else {
			r.writePlain("Database: unavailable, session kept in memory\n")
		}
		if status.Authenticated {
			return r.writePlain("Session: signed in as %s\n", status.Username)
		}
		return r.writePlain("Session: signed out\n")
	})
}
