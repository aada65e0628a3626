package services

import (
	"context"
	"time"

	"timesheet/internal/domain"
	"timesheet/internal/repository"
	"timesheet/internal/timecalc"
	"timesheet/internal/validation"
)

// Timeouts bound individual store calls. Zero means no extra deadline.
type Timeouts struct {
	Query time.Duration
	Write time.Duration
}

func (t Timeouts) query(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, t.Query)
}

func (t Timeouts) write(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, t.Write)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// NewServiceContainer wires every service over one repository
func NewServiceContainer(repo repository.Repository, calendar *timecalc.Calendar, defaults domain.Settings, validator *validation.Validator, timeouts Timeouts) *ServiceContainer {
	if validator == nil {
		validator = validation.NewValidator()
	}

	settings := NewSettingsService(repo, defaults, validator, timeouts)
	periods := NewPeriodService(settings, calendar)
	stamps := NewStampService(repo, settings, calendar, timeouts)
	entries := NewEntryService(repo, validator, timeouts)

	return &ServiceContainer{
		Calendar:         calendar,
		SettingsService:  settings,
		PeriodService:    periods,
		StampService:     stamps,
		EntryService:     entries,
		ReportingService: NewReportingService(entries, settings),
	}
}
