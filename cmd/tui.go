package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/crosspub/crosspub/internal/shared"
	"github.com/crosspub/crosspub/internal/tasks"
	"github.com/crosspub/crosspub/internal/ui"
)

// TUI launches the interactive publish workflow. Log output moves to a file
// so it does not fight bubbletea for the terminal.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	fileLogger, err := shared.NewFileLogger("crosspub_tui.log")
	if err != nil {
		r.logger.Warn("failed to open log file, logs disabled in TUI", "error", err)
	} else {
		r.SetLogger(fileLogger)
	}

	app, err := r.openApp(cmd.String("config"))
	if err != nil {
		return err
	}
	defer app.Close()

	if app.orch == nil {
		return shared.ErrChromeNotFound
	}

	draft := tasks.PublishRequest{
		VideoPath:   cmd.String("video"),
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		Tags:        cmd.StringSlice("tag"),
		IsOriginal:  true,
	}

	model := ui.NewModel(ctx, app.accounts, app.orch, draft)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
