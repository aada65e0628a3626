package cli

import (
	"context"
	"fmt"

	"timesheet/internal/server"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{
		app:          app,
		errorHandler: NewErrorHandler(),
	}
}

// Server builds the HTTP server for the app
func (c *ServeCommand) Server() *server.Server {
	srv := server.NewServer(c.app.businessAPI).WithTimeout(c.app.config.Application.Timeout)
	if c.app.config.Server.MetricsEnabled && c.app.gatherer != nil {
		srv.EnableMetrics(c.app.gatherer)
	}
	return srv
}

// Execute serves the HTTP API on addr until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context, addr string) error {
	if addr == "" {
		addr = c.app.config.Server.Addr
	}
	fmt.Fprintf(c.app.out, "Listening on %s\n", addr)
	if err := c.Server().ListenAndServe(ctx, addr); err != nil {
		return c.errorHandler.Handle("serve", err)
	}
	return nil
}
