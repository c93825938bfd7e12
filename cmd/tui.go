package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/desertthunder/hobbyhub/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: export engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	path := r.config.Log.TUIFile
	if path == "" {
		path = "./tmp/hub-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	nav := ui.NewNavigator()
	release := r.redirect.use(nav)
	defer release()

	err = ui.Run(ctx, ui.Deps{
		Hub:         r.hub,
		Session:     r.session,
		Theme:       r.theme,
		Engine:      r.engine,
		Navigator:   nav,
		LoginRoute:  r.guard.LoginRoute(),
		HeatmapDays: r.heatmapDays(),
		Logger:      fileLogger,
	})
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
