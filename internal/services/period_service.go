package services

import (
	"context"
	"time"

	"timesheet/internal/timecalc"
)

// periodServiceImpl implements the PeriodService interface
type periodServiceImpl struct {
	settings SettingsService
	calendar *timecalc.Calendar
}

// NewPeriodService creates a new PeriodService instance
func NewPeriodService(settings SettingsService, calendar *timecalc.Calendar) PeriodService {
	return &periodServiceImpl{settings: settings, calendar: calendar}
}

// Current returns the period containing now
func (p *periodServiceImpl) Current(ctx context.Context, userID string, now time.Time) (timecalc.Period, error) {
	s, err := p.settings.Get(ctx, userID)
	if err != nil {
		return timecalc.Period{}, err
	}
	return p.calendar.CurrentPeriod(now, s.RolloverDay, s.RolloverHour)
}

// Previous returns the period immediately before the current one
func (p *periodServiceImpl) Previous(ctx context.Context, userID string, now time.Time) (timecalc.Period, error) {
	s, err := p.settings.Get(ctx, userID)
	if err != nil {
		return timecalc.Period{}, err
	}
	return p.calendar.PreviousPeriod(now, s.RolloverDay, s.RolloverHour)
}

// StartingOn returns the period whose first day is dateKey
func (p *periodServiceImpl) StartingOn(ctx context.Context, userID, dateKey string) (timecalc.Period, error) {
	s, err := p.settings.Get(ctx, userID)
	if err != nil {
		return timecalc.Period{}, err
	}
	return p.calendar.PeriodStartingOn(dateKey, s.RolloverDay, s.RolloverHour)
}

// IsRolloverDay reports whether now falls on the user's rollover day
func (p *periodServiceImpl) IsRolloverDay(ctx context.Context, userID string, now time.Time) (bool, error) {
	s, err := p.settings.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return p.calendar.IsRolloverDay(now, s.RolloverDay), nil
}
