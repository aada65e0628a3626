package cli

import (
	"context"
	"fmt"

	"timesheet/internal/api"
)

// SyncCommand handles the sync command
type SyncCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewSyncCommand creates a new sync command handler
func NewSyncCommand(app *App) *SyncCommand {
	return &SyncCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute replays queued stamps
func (c *SyncCommand) Execute(ctx context.Context) error {
	report, err := c.businessAPI.Sync(ctx)
	if err != nil {
		return c.errorHandler.Handle("sync queued stamps", err)
	}
	fmt.Fprintf(c.app.out, "Replayed %d, dropped %d, %d still queued\n", report.Replayed, report.Dropped, report.Remaining)
	if report.LastError != nil && report.Remaining > 0 {
		fmt.Fprintf(c.app.out, "Last failure: %s\n", c.errorHandler.HandleSimple(report.LastError))
	}
	return nil
}
