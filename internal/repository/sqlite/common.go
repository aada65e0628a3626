package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "timesheet/internal/errors"
)

// querier is the subset of *sql.DB and *sql.Tx the store needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// storeError classifies a driver error. Deadlines and a busy or locked
// database become timeouts, everything else a database error; both are
// retryable so the stamp flow can queue.
func storeError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(operation, err.Error())
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return apperrors.WrapError(err, apperrors.ErrorTypeTimeout, "database is busy: "+operation)
		}
	}
	return apperrors.NewDatabaseError(operation, err)
}

// expectAffected turns a write that matched nothing into a not found error
func expectAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return storeError("rows affected", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(entity, id)
	}
	return nil
}

// insertSeq runs an insert and returns the generated rowid
func insertSeq(ctx context.Context, db querier, operation, query string, args ...interface{}) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storeError(operation, err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return 0, storeError(operation, err)
	}
	return seq, nil
}

// execOne runs a write that must touch the row identified by id
func execOne(ctx context.Context, db querier, entity, id, query string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return storeError("write "+entity, err)
	}
	return expectAffected(result, entity, id)
}

// queryOne scans a single row; no row is a not found error for entity/id
func queryOne[T any](ctx context.Context, db querier, entity, id, query string, scan func(Scanner) (*T, error), args ...interface{}) (*T, error) {
	v, err := scan(db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, apperrors.NewNotFoundError(entity, id)
	case err != nil:
		return nil, storeError("read "+entity, err)
	}
	return v, nil
}

// queryAll scans every row of a query
func queryAll[T any](ctx context.Context, db querier, entity, query string, scan func(Rows) ([]*T, error), args ...interface{}) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("list "+entity, err)
	}
	defer rows.Close()

	out, err := scan(rows)
	if err != nil {
		return nil, storeError("scan "+entity, err)
	}
	return out, nil
}
