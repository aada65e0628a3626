package sqlite

import (
	"database/sql"

	"timesheet/internal/repository"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

const dayEntryColumns = `id, user_id, date_utc, start_ts, end_ts, total_hhmm, inserted_at, updated_at`

// ScanDayEntry scans a single day entry from a database row
func ScanDayEntry(scanner Scanner) (*repository.DayEntry, error) {
	entry := &repository.DayEntry{}
	var start, end, total sql.NullString
	var inserted, updated string

	err := scanner.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.DateKey,
		&start,
		&end,
		&total,
		&inserted,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	if entry.StartTime, err = decodeOptionalTime(start); err != nil {
		return nil, err
	}
	if entry.EndTime, err = decodeOptionalTime(end); err != nil {
		return nil, err
	}
	if total.Valid {
		entry.TotalHHMM = &total.String
	}
	if entry.InsertedAt, err = decodeTime(inserted); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = decodeTime(updated); err != nil {
		return nil, err
	}

	return entry, nil
}

// ScanDayEntries scans multiple day entries from database rows
func ScanDayEntries(rows Rows) ([]*repository.DayEntry, error) {
	return scanAll(rows, ScanDayEntry)
}

const settingsColumns = `user_id, rollover_day, rollover_hour, rounding_rule, updated_at`

// ScanSettings scans a settings row
func ScanSettings(scanner Scanner) (*repository.Settings, error) {
	s := &repository.Settings{}
	var updated string
	if err := scanner.Scan(&s.UserID, &s.RolloverDay, &s.RolloverHour, &s.RoundingRule, &updated); err != nil {
		return nil, err
	}
	var err error
	if s.UpdatedAt, err = decodeTime(updated); err != nil {
		return nil, err
	}
	return s, nil
}

const queuedStampColumns = `seq, id, user_id, stamped_at, retry_count, created_at`

// ScanQueuedStamp scans a single queued stamp
func ScanQueuedStamp(scanner Scanner) (*repository.QueuedStamp, error) {
	q := &repository.QueuedStamp{}
	var stamped, created string
	if err := scanner.Scan(&q.Seq, &q.ID, &q.UserID, &stamped, &q.RetryCount, &created); err != nil {
		return nil, err
	}
	var err error
	if q.StampedAt, err = decodeTime(stamped); err != nil {
		return nil, err
	}
	if q.CreatedAt, err = decodeTime(created); err != nil {
		return nil, err
	}
	return q, nil
}

// ScanQueuedStamps scans multiple queued stamps
func ScanQueuedStamps(rows Rows) ([]*repository.QueuedStamp, error) {
	return scanAll(rows, ScanQueuedStamp)
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
