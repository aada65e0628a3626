package services

import (
	"context"
	"time"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/logging"
	"timesheet/internal/repository"
	"timesheet/internal/timecalc"
)

// stampServiceImpl implements the StampService interface
type stampServiceImpl struct {
	repo     repository.DayEntryStore
	settings SettingsService
	calendar *timecalc.Calendar
	mapper   *domain.Mapper
	timeouts Timeouts
}

// NewStampService creates a new StampService instance
func NewStampService(repo repository.DayEntryStore, settings SettingsService, calendar *timecalc.Calendar, timeouts Timeouts) StampService {
	return &stampServiceImpl{
		repo:     repo,
		settings: settings,
		calendar: calendar,
		mapper:   domain.NewMapper(),
		timeouts: timeouts,
	}
}

// Stamp records now against the logical day it belongs to. The read and
// the write are separate calls, so two concurrent stamps for the same day
// resolve as last write wins.
func (s *stampServiceImpl) Stamp(ctx context.Context, userID string, now time.Time) (*domain.StampResult, error) {
	if err := timecalc.ValidateInstant(now); err != nil {
		return nil, err
	}

	dateKey, err := s.LogicalDateKey(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, userID, dateKey)
	if err != nil {
		return nil, err
	}

	result := domain.ApplyStamp(userID, dateKey, existing, now)

	writeCtx, cancel := s.timeouts.write(ctx)
	defer cancel()
	row, err := s.repo.UpsertDayEntry(writeCtx, s.mapper.DayEntry.ToDatabase(result.Entry))
	if err != nil {
		return nil, err
	}
	result.Entry = *s.mapper.DayEntry.FromDatabase(row)

	logging.Debugf("stamp %s for %s on %s", result.Outcome, userID, dateKey)
	return &result, nil
}

// Today reports the logical day now falls into
func (s *stampServiceImpl) Today(ctx context.Context, userID string, now time.Time) (*DayStatus, error) {
	if err := timecalc.ValidateInstant(now); err != nil {
		return nil, err
	}

	dateKey, err := s.LogicalDateKey(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	entry, err := s.find(ctx, userID, dateKey)
	if err != nil {
		return nil, err
	}

	status := &DayStatus{DateKey: dateKey, State: domain.StateEmpty.String(), Entry: entry}
	if entry == nil {
		return status, nil
	}
	status.State = entry.State().String()
	switch entry.State() {
	case domain.StateOpen:
		status.Elapsed = timecalc.FormatElapsed(entry.Elapsed(now))
	case domain.StateClosed:
		status.Total = timecalc.FormatMinutes(entry.Minutes())
	}
	return status, nil
}

// LogicalDateKey resolves the day key for now under the user's rollover hour
func (s *stampServiceImpl) LogicalDateKey(ctx context.Context, userID string, now time.Time) (string, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.calendar.LogicalDateKey(now, settings.RolloverHour), nil
}

// find returns nil without error when no entry exists for the day
func (s *stampServiceImpl) find(ctx context.Context, userID, dateKey string) (*domain.DayEntry, error) {
	ctx, cancel := s.timeouts.query(ctx)
	defer cancel()

	row, err := s.repo.GetDayEntry(ctx, userID, dateKey)
	if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.mapper.DayEntry.FromDatabase(row), nil
}
