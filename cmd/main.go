package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "~/.hobbyhub/config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := resolveConfigPath()
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	db := openDatabase(config, logger)
	if db != nil {
		defer db.Close()
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		DB:         db,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:    "hub",
		Usage:   "Habits, notes, projects, photos and tasks from your hobby hub",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
				runner.SetLogger(logger)
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		if db != nil {
			db.Close()
		}
		logger.Fatalf("application error: %v", err)
	}
}

// resolveConfigPath prefers $HUB_CONFIG, then ./config.toml, then the per-user default.
func resolveConfigPath() string {
	if p := os.Getenv("HUB_CONFIG"); p != "" {
		return shared.ExpandPath(p)
	}
	if _, err := os.Stat("config.toml"); err == nil {
		return "config.toml"
	}
	return shared.ExpandPath(defaultConfigPath)
}

// openDatabase opens and migrates the session store. Without it the CLI still works, signed out after every run.
func openDatabase(config *shared.Config, logger *log.Logger) *sql.DB {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("database unavailable, session will not persist", "error", err)
		return nil
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		logger.Warn("database migrations failed, session will not persist", "error", err)
		db.Close()
		return nil
	}
	return db
}
