package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"favtrax/internal/importer"
	"favtrax/internal/shared"
	"favtrax/internal/transform"
	"favtrax/internal/ui"
)

// TUI imports a CSV and opens the interactive batch review screen.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: CSV file path", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	rows, err := importer.ImportCSV(f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: CSV has no data rows", shared.ErrInvalidInput)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/favtrax-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	capability := transform.NewCapability(ctx, r.session.SetupSearchCapability)

	// Buffered so early state changes survive until the program starts
	// consuming; stale drops only cost a render, the next update catches up.
	updates := make(chan ui.StateMsg, 1024)
	notify := func(id int, state transform.State) {
		select {
		case updates <- ui.StateMsg{ID: id, State: state}:
		default:
		}
	}

	manager := transform.NewManager(capability, notify, fileLogger)
	manager.Load(rows)
	defer manager.Release()

	model := ui.NewModel(manager, rows, updates)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
