package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive podcast browser.
//
// The directory is optional: without credentials the library screens still work and searches fail on the status line.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.useTUILogger(); err != nil {
		return err
	}

	library, err := r.openLibrary()
	if err != nil {
		return err
	}

	directory, err := r.openDirectory()
	if err != nil {
		r.logger.Warn("directory unavailable, searches will fail", "error", err)
		directory = services.Offline{Err: err}
	}

	model := ui.New(ctx, ui.Deps{
		Repository: library,
		Directory:  directory,
		Opener:     r.opener,
		Logger:     shared.WithLogger(r.logger, "component", "tui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}

// useTUILogger moves logging off the terminal for the lifetime of the TUI: into logging.file when one is set,
// otherwise nowhere.
func (r *Runner) useTUILogger() error {
	path := r.config.Logging.File
	if path == "" {
		r.SetLogger(log.New(io.Discard))
		return nil
	}

	fileLogger, err := shared.NewFileLogger(path)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLevel(r.config.Logging.Level))
	r.SetLogger(fileLogger)
	return nil
}
