package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"timesheet/internal/api"
	"timesheet/internal/export"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute renders the period report in format and writes it under dir
func (c *ExportCommand) Execute(ctx context.Context, format string, previous bool, dir string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return c.errorHandler.Handle("export report", err)
	}
	period, err := c.app.resolvePeriod(ctx, previous)
	if err != nil {
		return c.errorHandler.Handle("resolve period", err)
	}
	doc, err := c.businessAPI.Export(ctx, f, period, timeNow())
	if err != nil {
		return c.errorHandler.Handle("export report", err)
	}

	if dir == "" {
		dir = c.app.config.Export.Dir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return c.errorHandler.Handle("export report", fmt.Errorf("failed to create %s: %w", dir, err))
	}
	path := filepath.Join(dir, doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0644); err != nil {
		return c.errorHandler.Handle("export report", fmt.Errorf("failed to write %s: %w", path, err))
	}

	fmt.Fprintf(c.app.out, "Wrote %s\n", path)
	return nil
}
