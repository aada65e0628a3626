package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/repository"
)

func setupTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ts.db")

	repo, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	clock := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return clock })
	return repo
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func stringPtr(s string) *string {
	return &s
}

func TestNew_InMemory(t *testing.T) {
	repo, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	defer repo.Close()

	assert.NoError(t, repo.Ping(context.Background()))
}

func TestUpsertDayEntry_InsertThenUpdate(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC)

	inserted, err := repo.UpsertDayEntry(ctx, &repository.DayEntry{
		UserID:    "user-1",
		DateKey:   "2025-03-14",
		StartTime: timePtr(start),
	})
	require.NoError(t, err)
	assert.Greater(t, inserted.ID, int64(0))
	assert.Nil(t, inserted.EndTime)
	assert.Nil(t, inserted.TotalHHMM)

	end := start.Add(8*time.Hour + 30*time.Minute)
	updated, err := repo.UpsertDayEntry(ctx, &repository.DayEntry{
		UserID:    "user-1",
		DateKey:   "2025-03-14",
		StartTime: timePtr(start),
		EndTime:   timePtr(end),
		TotalHHMM: stringPtr("08:30"),
	})
	require.NoError(t, err)

	assert.Equal(t, inserted.ID, updated.ID, "upsert must keep one row per user and day")
	assert.True(t, updated.StartTime.Equal(start))
	assert.True(t, updated.EndTime.Equal(end))
	assert.Equal(t, "08:30", *updated.TotalHHMM)
}

func TestGetDayEntry_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetDayEntry(context.Background(), "user-1", "2025-03-14")

	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestGetDayEntry_ScopedByUser(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.UpsertDayEntry(ctx, &repository.DayEntry{UserID: "user-1", DateKey: "2025-03-14"})
	require.NoError(t, err)

	_, err = repo.GetDayEntry(ctx, "user-2", "2025-03-14")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestListDayEntries_HalfOpenNewestFirst(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for _, key := range []string{"2025-02-28", "2025-03-01", "2025-03-15", "2025-03-31", "2025-04-01"} {
		_, err := repo.UpsertDayEntry(ctx, &repository.DayEntry{UserID: "user-1", DateKey: key})
		require.NoError(t, err)
	}
	_, err := repo.UpsertDayEntry(ctx, &repository.DayEntry{UserID: "user-2", DateKey: "2025-03-10"})
	require.NoError(t, err)

	entries, err := repo.ListDayEntries(ctx, "user-1", "2025-03-01", "2025-04-01")
	require.NoError(t, err)

	var keys []string
	for _, e := range entries {
		keys = append(keys, e.DateKey)
	}
	assert.Equal(t, []string{"2025-03-31", "2025-03-15", "2025-03-01"}, keys)
}

func TestDeleteDayEntry(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.UpsertDayEntry(ctx, &repository.DayEntry{UserID: "user-1", DateKey: "2025-03-14"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteDayEntry(ctx, "user-1", "2025-03-14"))

	err = repo.DeleteDayEntry(ctx, "user-1", "2025-03-14")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestSettings_UpsertAndGet(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := repo.GetSettings(ctx, "user-1")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	saved, err := repo.UpsertSettings(ctx, &repository.Settings{UserID: "user-1", RolloverDay: 15, RolloverHour: 6, RoundingRule: "none"})
	require.NoError(t, err)
	assert.Equal(t, 15, saved.RolloverDay)

	saved, err = repo.UpsertSettings(ctx, &repository.Settings{UserID: "user-1", RolloverDay: 20, RolloverHour: 4, RoundingRule: "15"})
	require.NoError(t, err)

	got, err := repo.GetSettings(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, 20, got.RolloverDay)
	assert.Equal(t, 4, got.RolloverHour)
	assert.Equal(t, "15", got.RoundingRule)
}

func TestCanceledContextSurfacesError(t *testing.T) {
	repo := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetDayEntry(ctx, "user-1", "2025-03-14")
	require.Error(t, err)
	assert.False(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}
