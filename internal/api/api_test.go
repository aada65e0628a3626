package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/validation"
)

func setupTestAPI(t *testing.T) API {
	t.Helper()
	return New(setupContainer(t, newSQLite(t), domain.DefaultSettings(testUser)))
}

func TestAPI_CRUD_DayEntry(t *testing.T) {
	a := setupTestAPI(t)
	ctx := context.Background()
	start := copenhagen(t, 2025, 3, 13, 8, 0)
	end := copenhagen(t, 2025, 3, 13, 16, 15)

	// Set with swapped ends
	entry, err := a.SetDayEntry(ctx, testUser, "2025-03-13", &end, &start)
	require.NoError(t, err)
	assert.True(t, entry.StartTime.Equal(start))
	assert.True(t, entry.EndTime.Equal(end))
	require.NotNil(t, entry.TotalHHMM)
	assert.Equal(t, "08:15", *entry.TotalHHMM)

	// Get
	got, err := a.GetDayEntry(ctx, testUser, "2025-03-13")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, domain.StateClosed, got.State())

	// Replace, leaving the day open
	reopened, err := a.SetDayEntry(ctx, testUser, "2025-03-13", &start, nil)
	require.NoError(t, err)
	assert.True(t, reopened.IsOpen())
	assert.Nil(t, reopened.TotalHHMM)

	// Delete
	require.NoError(t, a.DeleteDayEntry(ctx, testUser, "2025-03-13"))
	_, err = a.GetDayEntry(ctx, testUser, "2025-03-13")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestAPI_SetDayEntry_Validation(t *testing.T) {
	a := setupTestAPI(t)
	ctx := context.Background()
	start := copenhagen(t, 2025, 3, 13, 8, 0)

	tests := []struct {
		name    string
		userID  string
		dateKey string
		field   string
	}{
		{name: "malformed date key", userID: testUser, dateKey: "13-03-2025", field: "date_key"},
		{name: "impossible date", userID: testUser, dateKey: "2025-02-30", field: "date_key"},
		{name: "blank user", userID: " ", dateKey: "2025-03-13", field: "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SetDayEntry(ctx, tt.userID, tt.dateKey, &start, nil)
			ve, ok := validation.AsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.NotEmpty(t, ve.GetFieldErrors(tt.field))
		})
	}

	_, err := a.SetDayEntry(ctx, testUser, "2025-03-13", nil, nil)
	ve, ok := validation.AsValidationError(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.GetFieldErrors("start_time"))
}
