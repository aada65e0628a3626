package cli

import (
	"context"
	"fmt"

	"timesheet/internal/api"
	"timesheet/internal/domain"
)

// SettingsCommand handles the settings command
type SettingsCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewSettingsCommand creates a new settings command handler
func NewSettingsCommand(app *App) *SettingsCommand {
	return &SettingsCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Show prints the effective settings
func (c *SettingsCommand) Show(ctx context.Context) error {
	settings, err := c.businessAPI.GetSettings(ctx)
	if err != nil {
		return c.errorHandler.Handle("load settings", err)
	}
	c.print(settings)
	return nil
}

// Set applies patch and prints the result. An empty patch is rejected.
func (c *SettingsCommand) Set(ctx context.Context, patch domain.SettingsPatch) error {
	if patch.IsEmpty() {
		return c.errorHandler.HandleSimple(fmt.Errorf("nothing to change, pass --day, --hour or --rule"))
	}
	settings, err := c.businessAPI.UpdateSettings(ctx, patch)
	if err != nil {
		return c.errorHandler.Handle("update settings", err)
	}
	fmt.Fprintln(c.app.out, "Settings updated")
	c.print(settings)
	return nil
}

func (c *SettingsCommand) print(s domain.Settings) {
	fmt.Fprintf(c.app.out, "User:          %s\n", s.UserID)
	fmt.Fprintf(c.app.out, "Rollover day:  %d\n", s.RolloverDay)
	fmt.Fprintf(c.app.out, "Rollover hour: %02d:00\n", s.RolloverHour)
	fmt.Fprintf(c.app.out, "Rounding:      %s\n", s.RoundingRule)
}
