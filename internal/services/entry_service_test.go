package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/timecalc"
	"timesheet/internal/validation"
)

func TestEntryService_SetGetDelete(t *testing.T) {
	c := setupContainer(t, setupRepo(t), domain.DefaultSettings(""))
	ctx := context.Background()

	start := copenhagen(t, 2025, 3, 10, 17, 0)
	end := copenhagen(t, 2025, 3, 10, 8, 15)

	entry, err := c.EntryService.Set(ctx, testUser, "2025-03-10", &start, &end)
	require.NoError(t, err)
	assert.True(t, entry.StartTime.Equal(end), "swapped ends are normalised")
	assert.True(t, entry.EndTime.Equal(start))
	assert.Equal(t, "08:45", *entry.TotalHHMM)

	got, err := c.EntryService.Get(ctx, testUser, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "08:45", *got.TotalHHMM)

	// leaving the end out reopens the day
	got, err = c.EntryService.Set(ctx, testUser, "2025-03-10", &end, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StateOpen, got.State())
	assert.Nil(t, got.TotalHHMM)

	require.NoError(t, c.EntryService.Delete(ctx, testUser, "2025-03-10"))

	_, err = c.EntryService.Get(ctx, testUser, "2025-03-10")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	err = c.EntryService.Delete(ctx, testUser, "2025-03-10")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestEntryService_Validation(t *testing.T) {
	c := setupContainer(t, &failingRepo{}, domain.DefaultSettings(""))
	ctx := context.Background()
	start := copenhagen(t, 2025, 3, 10, 8, 0)
	tooLong := start.Add(72 * time.Hour)

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"malformed key on get", func() error {
			_, err := c.EntryService.Get(ctx, testUser, "2025-3-10")
			return err
		}, "date_key"},
		{"impossible date on set", func() error {
			_, err := c.EntryService.Set(ctx, testUser, "2025-02-30", &start, nil)
			return err
		}, "date_key"},
		{"missing start", func() error {
			_, err := c.EntryService.Set(ctx, testUser, "2025-03-10", nil, nil)
			return err
		}, "start_time"},
		{"span too long", func() error {
			_, err := c.EntryService.Set(ctx, testUser, "2025-03-10", &start, &tooLong)
			return err
		}, "duration"},
		{"bad user on delete", func() error {
			return c.EntryService.Delete(ctx, "has space", "2025-03-10")
		}, "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve, ok := validation.AsValidationError(tt.call())
			require.True(t, ok)
			assert.NotEmpty(t, ve.GetFieldErrors(tt.field))
		})
	}
}

func TestEntryService_ListPeriod(t *testing.T) {
	c := setupContainer(t, setupRepo(t), domain.DefaultSettings(""))
	ctx := context.Background()

	for _, key := range []string{"2025-02-01", "2025-02-28", "2025-03-01", "2025-03-14"} {
		d, err := timecalc.ParseDateKey(key)
		require.NoError(t, err)
		start := d.Add(8 * time.Hour)
		_, err = c.EntryService.Set(ctx, testUser, key, &start, nil)
		require.NoError(t, err)
	}

	period, err := c.PeriodService.Current(ctx, testUser, copenhagen(t, 2025, 3, 14, 12, 0))
	require.NoError(t, err)

	entries, err := c.EntryService.List(ctx, testUser, period)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-03-14", entries[0].DateKey)
	assert.Equal(t, "2025-03-01", entries[1].DateKey)
}
