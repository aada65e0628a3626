package postgres

// schema mirrors the hosted day_entries/app_settings tables. Every statement
// is idempotent so it can run on each open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS day_entries (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id TEXT NOT NULL,
		date_utc DATE NOT NULL,
		start_ts TIMESTAMPTZ,
		end_ts TIMESTAMPTZ,
		total_hhmm TEXT,
		inserted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, date_utc)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_day_entries_user_date ON day_entries (user_id, date_utc DESC)`,
	`CREATE TABLE IF NOT EXISTS app_settings (
		user_id TEXT PRIMARY KEY,
		rollover_day INTEGER NOT NULL DEFAULT 1 CHECK (rollover_day BETWEEN 1 AND 28),
		rollover_hour INTEGER NOT NULL DEFAULT 0 CHECK (rollover_hour BETWEEN 0 AND 23),
		rounding_rule TEXT NOT NULL DEFAULT 'none',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}
