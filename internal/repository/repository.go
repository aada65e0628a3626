// Package repository defines the storage rows and the interfaces the
// services persist through. Concrete backends live in subpackages.
package repository

import (
	"context"
	"time"
)

// DayEntry is the stored form of one logical day, unique per
// (user_id, date_key).
type DayEntry struct {
	ID         int64
	UserID     string
	DateKey    string
	StartTime  *time.Time // Using pointer to allow NULL values
	EndTime    *time.Time
	TotalHHMM  *string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Settings is the stored per-user configuration.
type Settings struct {
	UserID       string
	RolloverDay  int
	RolloverHour int
	RoundingRule string
	UpdatedAt    time.Time
}

// QueuedStamp is a stamp that could not be persisted and waits for replay.
// Seq orders the queue; StampedAt is the instant originally captured.
type QueuedStamp struct {
	Seq        int64
	ID         string
	UserID     string
	StampedAt  time.Time
	RetryCount int
	CreatedAt  time.Time
}

// DayEntryStore persists day entries.
type DayEntryStore interface {
	GetDayEntry(ctx context.Context, userID, dateKey string) (*DayEntry, error)
	// UpsertDayEntry inserts or replaces the row for (user, date key) and
	// returns the stored row.
	UpsertDayEntry(ctx context.Context, entry *DayEntry) (*DayEntry, error)
	// ListDayEntries returns entries with fromKey <= date_key < toKey,
	// newest first.
	ListDayEntries(ctx context.Context, userID, fromKey, toKey string) ([]*DayEntry, error)
	DeleteDayEntry(ctx context.Context, userID, dateKey string) error
}

// SettingsStore persists user settings.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (*Settings, error)
	UpsertSettings(ctx context.Context, settings *Settings) (*Settings, error)
}

// Repository defines the interface for database operations
type Repository interface {
	DayEntryStore
	SettingsStore

	// Utility
	Ping(ctx context.Context) error
	Close() error
}

// QueueStore persists the offline stamp queue. It always lives on the
// local database.
type QueueStore interface {
	EnqueueStamp(ctx context.Context, stamp *QueuedStamp) error
	// ListQueuedStamps returns the user's pending stamps in insertion order.
	ListQueuedStamps(ctx context.Context, userID string) ([]*QueuedStamp, error)
	UpdateQueuedStamp(ctx context.Context, stamp *QueuedStamp) error
	DeleteQueuedStamp(ctx context.Context, id string) error
	CountQueuedStamps(ctx context.Context, userID string) (int, error)
}
