package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "timesheet/internal/errors"
)

// stubResult is a canned sql.Result
type stubResult struct {
	rowsAffected int64
	rowsErr      error
}

func (r stubResult) LastInsertId() (int64, error) { return 0, nil }
func (r stubResult) RowsAffected() (int64, error) { return r.rowsAffected, r.rowsErr }

func TestStoreError(t *testing.T) {
	err := storeError("upsert day entry", errors.New("disk I/O error"))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
	assert.Contains(t, err.Error(), "upsert day entry")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.True(t, apperrors.IsRetryable(err))

	err = storeError("get day entry", fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeTimeout))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestExpectAffected(t *testing.T) {
	assert.NoError(t, expectAffected(stubResult{rowsAffected: 1}, "queued stamp", "abc"))

	err := expectAffected(stubResult{}, "queued stamp", "abc")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "queued stamp not found: abc")

	err = expectAffected(stubResult{rowsErr: errors.New("driver gone")}, "queued stamp", "abc")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
}

func TestQueryHelpers(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	_, err := queryOne(ctx, repo.db, "day entry", "2025-03-14",
		`SELECT `+dayEntryColumns+` FROM day_entries WHERE user_id = ? AND date_utc = ?`, ScanDayEntry, "alice", "2025-03-14")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	_, err = queryAll(ctx, repo.db, "day entries", `SELECT nope FROM missing_table`, ScanDayEntries)
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))

	err = execOne(ctx, repo.db, "day entry", "2025-03-14",
		`DELETE FROM day_entries WHERE user_id = ? AND date_utc = ?`, "alice", "2025-03-14")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

}
