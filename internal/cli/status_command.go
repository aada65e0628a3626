package cli

import (
	"context"
	"fmt"

	"timesheet/internal/api"
	"timesheet/internal/domain"
)

// StatusCommand handles the status command
type StatusCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute shows the logical day now falls into
func (c *StatusCommand) Execute(ctx context.Context) error {
	status, err := c.businessAPI.Today(ctx, timeNow())
	if err != nil {
		return c.errorHandler.Handle("show status", err)
	}

	switch status.State {
	case domain.StateOpen.String():
		fmt.Fprintf(c.app.out, "%s: started %s, running %s\n", status.DateKey,
			c.app.formatTime(status.Entry.StartTime), status.Elapsed)
	case domain.StateClosed.String():
		fmt.Fprintf(c.app.out, "%s: %s - %s (%s)\n", status.DateKey,
			c.app.formatTime(status.Entry.StartTime), c.app.formatTime(status.Entry.EndTime), status.Total)
	default:
		fmt.Fprintf(c.app.out, "%s: not started\n", status.DateKey)
	}

	pending, err := c.businessAPI.PendingStamps(ctx)
	if err != nil {
		return c.errorHandler.Handle("count queued stamps", err)
	}
	if pending > 0 {
		fmt.Fprintf(c.app.out, "%d stamps waiting to sync\n", pending)
	}
	return nil
}
