package cli

import (
	"context"
	"fmt"

	"timesheet/internal/api"
)

// BackupCommand handles the backup command
type BackupCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewBackupCommand creates a new backup command handler
func NewBackupCommand(app *App) *BackupCommand {
	return &BackupCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute writes a JSON backup unless a recent one exists and force is off
func (c *BackupCommand) Execute(ctx context.Context, force bool) error {
	result, err := c.businessAPI.Backup(ctx, timeNow(), force)
	if err != nil {
		return c.errorHandler.Handle("write backup", err)
	}
	if result.Skipped {
		fmt.Fprintf(c.app.out, "Backup skipped, last one was written %s\n", c.app.formatTime(&result.LastAt))
		return nil
	}
	fmt.Fprintf(c.app.out, "Backed up %d entries to %s\n", result.Items, result.Path)
	return nil
}
