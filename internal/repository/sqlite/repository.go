package sqlite

import (
	"context"
	"database/sql"
	"time"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/repository"
	"timesheet/internal/repository/sqlite/migrations"
)

// SQLiteRepository implements repository.Repository and repository.QueueStore
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ repository.Repository = (*SQLiteRepository)(nil)
	_ repository.QueueStore = (*SQLiteRepository)(nil)
)

// New creates a new SQLite repository instance and applies pending migrations
func New(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.NewDatabaseError("open database", err)
	}
	// One writer keeps ":memory:" databases on a single connection and
	// avoids SQLITE_BUSY for a single-user store.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("configure database", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, apperrors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// SetClock overrides the clock used for inserted_at/updated_at.
func (r *SQLiteRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Ping checks the connection
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storeError("ping", err)
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// GetDayEntry retrieves the entry for a user's logical day
func (r *SQLiteRepository) GetDayEntry(ctx context.Context, userID, dateKey string) (*repository.DayEntry, error) {
	query := `SELECT ` + dayEntryColumns + `
	FROM day_entries
	WHERE user_id = ? AND date_utc = ?`

	return queryOne(ctx, r.db, "day entry", dateKey, query, ScanDayEntry, userID, dateKey)
}

// UpsertDayEntry inserts the entry or replaces the times of the existing one
func (r *SQLiteRepository) UpsertDayEntry(ctx context.Context, entry *repository.DayEntry) (*repository.DayEntry, error) {
	query := `
	INSERT INTO day_entries (user_id, date_utc, start_ts, end_ts, total_hhmm, inserted_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, date_utc) DO UPDATE SET
		start_ts = excluded.start_ts,
		end_ts = excluded.end_ts,
		total_hhmm = excluded.total_hhmm,
		updated_at = excluded.updated_at`

	now := encodeTime(r.now())
	_, err := r.db.ExecContext(ctx, query,
		entry.UserID,
		entry.DateKey,
		encodeOptionalTime(entry.StartTime),
		encodeOptionalTime(entry.EndTime),
		optionalText(entry.TotalHHMM),
		now,
		now,
	)
	if err != nil {
		return nil, storeError("upsert day entry", err)
	}

	return r.GetDayEntry(ctx, entry.UserID, entry.DateKey)
}

// ListDayEntries retrieves entries in [fromKey, toKey), newest first
func (r *SQLiteRepository) ListDayEntries(ctx context.Context, userID, fromKey, toKey string) ([]*repository.DayEntry, error) {
	query := `SELECT ` + dayEntryColumns + `
	FROM day_entries
	WHERE user_id = ? AND date_utc >= ? AND date_utc < ?
	ORDER BY date_utc DESC`

	return queryAll(ctx, r.db, "day entries", query, ScanDayEntries, userID, fromKey, toKey)
}

// DeleteDayEntry deletes a user's entry for a logical day
func (r *SQLiteRepository) DeleteDayEntry(ctx context.Context, userID, dateKey string) error {
	query := `DELETE FROM day_entries WHERE user_id = ? AND date_utc = ?`
	return execOne(ctx, r.db, "day entry", dateKey, query, userID, dateKey)
}

// GetSettings retrieves a user's settings
func (r *SQLiteRepository) GetSettings(ctx context.Context, userID string) (*repository.Settings, error) {
	query := `SELECT ` + settingsColumns + ` FROM app_settings WHERE user_id = ?`
	return queryOne(ctx, r.db, "settings", userID, query, ScanSettings, userID)
}

// UpsertSettings stores a user's settings
func (r *SQLiteRepository) UpsertSettings(ctx context.Context, settings *repository.Settings) (*repository.Settings, error) {
	query := `
	INSERT INTO app_settings (user_id, rollover_day, rollover_hour, rounding_rule, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		rollover_day = excluded.rollover_day,
		rollover_hour = excluded.rollover_hour,
		rounding_rule = excluded.rounding_rule,
		updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		settings.UserID,
		settings.RolloverDay,
		settings.RolloverHour,
		settings.RoundingRule,
		encodeTime(r.now()),
	)
	if err != nil {
		return nil, storeError("upsert settings", err)
	}

	return r.GetSettings(ctx, settings.UserID)
}
