package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/repository"
	"timesheet/internal/repository/sqlite"
	"timesheet/internal/timecalc"
	"timesheet/internal/validation"
)

const testUser = "alice"

// copenhagen returns an instant given as Copenhagen wall clock
func copenhagen(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Copenhagen")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func setupRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func setupContainer(t *testing.T, repo repository.Repository, defaults domain.Settings) *ServiceContainer {
	t.Helper()
	cal, err := timecalc.NewCalendar("Europe/Copenhagen")
	require.NoError(t, err)

	validator := validation.NewValidator().WithClock(func() time.Time {
		return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	})
	return NewServiceContainer(repo, cal, defaults, validator, Timeouts{Query: time.Second, Write: time.Second})
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

// failingRepo returns the configured errors and otherwise behaves as an
// empty store
type failingRepo struct {
	getErr      error
	upsertErr   error
	listErr     error
	settingsErr error
	upserts     int
}

func (f *failingRepo) GetDayEntry(ctx context.Context, userID, dateKey string) (*repository.DayEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return nil, apperrors.NewNotFoundError("record", dateKey)
}

func (f *failingRepo) UpsertDayEntry(ctx context.Context, entry *repository.DayEntry) (*repository.DayEntry, error) {
	f.upserts++
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return entry, nil
}

func (f *failingRepo) ListDayEntries(ctx context.Context, userID, fromKey, toKey string) ([]*repository.DayEntry, error) {
	return nil, f.listErr
}

func (f *failingRepo) DeleteDayEntry(ctx context.Context, userID, dateKey string) error {
	return f.upsertErr
}

func (f *failingRepo) GetSettings(ctx context.Context, userID string) (*repository.Settings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return nil, apperrors.NewNotFoundError("record", userID)
}

func (f *failingRepo) UpsertSettings(ctx context.Context, settings *repository.Settings) (*repository.Settings, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	return settings, nil
}

func (f *failingRepo) Ping(ctx context.Context) error { return nil }

func (f *failingRepo) Close() error { return nil }
