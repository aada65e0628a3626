package services

import (
	"context"
	"time"

	"timesheet/internal/domain"
	"timesheet/internal/repository"
	"timesheet/internal/timecalc"
	"timesheet/internal/validation"
)

// entryServiceImpl implements the EntryService interface
type entryServiceImpl struct {
	repo      repository.DayEntryStore
	mapper    *domain.Mapper
	validator *validation.DayEntryValidator
	timeouts  Timeouts
}

// NewEntryService creates a new EntryService instance
func NewEntryService(repo repository.DayEntryStore, validator *validation.Validator, timeouts Timeouts) EntryService {
	return &entryServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewDayEntryValidator(validator),
		timeouts:  timeouts,
	}
}

// Get returns the entry for a logical day or a not-found error
func (e *entryServiceImpl) Get(ctx context.Context, userID, dateKey string) (*domain.DayEntry, error) {
	if err := e.validator.ValidateKey(userID, dateKey); err != nil {
		return nil, err
	}

	ctx, cancel := e.timeouts.query(ctx)
	defer cancel()
	row, err := e.repo.GetDayEntry(ctx, userID, dateKey)
	if err != nil {
		return nil, err
	}
	return e.mapper.DayEntry.FromDatabase(row), nil
}

// Set replaces the interval of a logical day. Swapped ends are normalised
// and the duration is recomputed from the instants.
func (e *entryServiceImpl) Set(ctx context.Context, userID, dateKey string, start, end *time.Time) (*domain.DayEntry, error) {
	if err := e.validator.ValidateManualEntry(userID, dateKey, start, end); err != nil {
		return nil, err
	}

	entry := domain.NewDayEntry(userID, dateKey).WithInterval(start, end)

	ctx, cancel := e.timeouts.write(ctx)
	defer cancel()
	row, err := e.repo.UpsertDayEntry(ctx, e.mapper.DayEntry.ToDatabase(entry))
	if err != nil {
		return nil, err
	}
	return e.mapper.DayEntry.FromDatabase(row), nil
}

// Delete removes the entry for a logical day
func (e *entryServiceImpl) Delete(ctx context.Context, userID, dateKey string) error {
	if err := e.validator.ValidateKey(userID, dateKey); err != nil {
		return err
	}

	ctx, cancel := e.timeouts.write(ctx)
	defer cancel()
	return e.repo.DeleteDayEntry(ctx, userID, dateKey)
}

// List returns the entries of a period, newest first
func (e *entryServiceImpl) List(ctx context.Context, userID string, period timecalc.Period) ([]domain.DayEntry, error) {
	return e.ListRange(ctx, userID, period.StartDateKey, period.EndDateKey)
}

// ListRange returns the entries in [fromKey, toKey), newest first
func (e *entryServiceImpl) ListRange(ctx context.Context, userID, fromKey, toKey string) ([]domain.DayEntry, error) {
	ctx, cancel := e.timeouts.query(ctx)
	defer cancel()

	rows, err := e.repo.ListDayEntries(ctx, userID, fromKey, toKey)
	if err != nil {
		return nil, err
	}
	return e.mapper.DayEntry.FromDatabaseSlice(rows), nil
}
