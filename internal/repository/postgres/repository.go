// Package postgres stores day entries and settings in a remote Postgres
// database through the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/repository"
)

// Repository is a Postgres implementation of repository.Repository.
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// Open connects with the given DSN and applies the schema.
func Open(ctx context.Context, dsn string) (*Repository, error) {
	repo, err := Connect(dsn)
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

// Connect prepares a connection pool without contacting the server.
func Connect(dsn string) (*Repository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, apperrors.NewDatabaseError("open database", err)
	}
	return NewRepository(db), nil
}

// NewRepository wraps an existing handle without touching the schema.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates missing tables and indexes.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return wrap("apply schema", err)
		}
	}
	return nil
}

// Ping checks the connection.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return wrap("ping", err)
	}
	return nil
}

// Close closes the pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

const dayEntryColumns = `id, user_id, to_char(date_utc, 'YYYY-MM-DD'), start_ts, end_ts, total_hhmm, inserted_at, updated_at`

// GetDayEntry returns the entry for a user's logical day.
func (r *Repository) GetDayEntry(ctx context.Context, userID, dateKey string) (*repository.DayEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+dayEntryColumns+`
FROM day_entries
WHERE user_id = $1 AND date_utc = $2::date`, userID, dateKey)

	entry, err := scanDayEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("day entry", dateKey)
	}
	if err != nil {
		return nil, wrap("get day entry", err)
	}
	return entry, nil
}

// UpsertDayEntry inserts or replaces the row for (user_id, date_utc).
func (r *Repository) UpsertDayEntry(ctx context.Context, entry *repository.DayEntry) (*repository.DayEntry, error) {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO day_entries (user_id, date_utc, start_ts, end_ts, total_hhmm)
VALUES ($1, $2::date, $3, $4, $5)
ON CONFLICT (user_id, date_utc)
DO UPDATE SET
	start_ts = EXCLUDED.start_ts,
	end_ts = EXCLUDED.end_ts,
	total_hhmm = EXCLUDED.total_hhmm,
	updated_at = NOW()
RETURNING `+dayEntryColumns,
		entry.UserID, entry.DateKey, nullTime(entry.StartTime), nullTime(entry.EndTime), nullString(entry.TotalHHMM))

	stored, err := scanDayEntry(row)
	if err != nil {
		return nil, wrap("upsert day entry", err)
	}
	return stored, nil
}

// ListDayEntries returns entries in [fromKey, toKey), newest first.
func (r *Repository) ListDayEntries(ctx context.Context, userID, fromKey, toKey string) ([]*repository.DayEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+dayEntryColumns+`
FROM day_entries
WHERE user_id = $1 AND date_utc >= $2::date AND date_utc < $3::date
ORDER BY date_utc DESC`, userID, fromKey, toKey)
	if err != nil {
		return nil, wrap("list day entries", err)
	}
	defer rows.Close()

	var out []*repository.DayEntry
	for rows.Next() {
		entry, err := scanDayEntry(rows)
		if err != nil {
			return nil, wrap("scan day entries", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list day entries", err)
	}
	return out, nil
}

// DeleteDayEntry removes a user's entry for a logical day.
func (r *Repository) DeleteDayEntry(ctx context.Context, userID, dateKey string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM day_entries WHERE user_id = $1 AND date_utc = $2::date`, userID, dateKey)
	if err != nil {
		return wrap("delete day entry", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("delete day entry", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("day entry", dateKey)
	}
	return nil
}

// GetSettings returns a user's settings.
func (r *Repository) GetSettings(ctx context.Context, userID string) (*repository.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT user_id, rollover_day, rollover_hour, rounding_rule, updated_at
FROM app_settings
WHERE user_id = $1`, userID)

	s, err := scanSettings(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("settings", userID)
	}
	if err != nil {
		return nil, wrap("get settings", err)
	}
	return s, nil
}

// UpsertSettings stores a user's settings with ON CONFLICT (user_id).
func (r *Repository) UpsertSettings(ctx context.Context, settings *repository.Settings) (*repository.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO app_settings (user_id, rollover_day, rollover_hour, rounding_rule)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id)
DO UPDATE SET
	rollover_day = EXCLUDED.rollover_day,
	rollover_hour = EXCLUDED.rollover_hour,
	rounding_rule = EXCLUDED.rounding_rule,
	updated_at = NOW()
RETURNING user_id, rollover_day, rollover_hour, rounding_rule, updated_at`,
		settings.UserID, settings.RolloverDay, settings.RolloverHour, settings.RoundingRule)

	s, err := scanSettings(row)
	if err != nil {
		return nil, wrap("upsert settings", err)
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDayEntry(s scanner) (*repository.DayEntry, error) {
	var (
		entry      repository.DayEntry
		start, end sql.NullTime
		total      sql.NullString
	)
	if err := s.Scan(&entry.ID, &entry.UserID, &entry.DateKey, &start, &end, &total, &entry.InsertedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}
	if start.Valid {
		t := start.Time.UTC()
		entry.StartTime = &t
	}
	if end.Valid {
		t := end.Time.UTC()
		entry.EndTime = &t
	}
	if total.Valid {
		entry.TotalHHMM = &total.String
	}
	return &entry, nil
}

func scanSettings(s scanner) (*repository.Settings, error) {
	var out repository.Settings
	if err := s.Scan(&out.UserID, &out.RolloverDay, &out.RolloverHour, &out.RoundingRule, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func wrap(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(operation, err.Error())
	}
	return apperrors.NewDatabaseError(operation, err)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
