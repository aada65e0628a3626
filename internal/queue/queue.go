// Package queue keeps stamps that could not be written and replays them in
// capture order once the store answers again.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "timesheet/internal/errors"
	"timesheet/internal/logging"
	"timesheet/internal/repository"
	"timesheet/internal/timecalc"
)

// DefaultMaxRetries is how many failed replays an item survives.
const DefaultMaxRetries = 3

// Handler applies one queued stamp at its original instant.
type Handler func(ctx context.Context, stampedAt time.Time) error

// ReplayReport summarises one replay pass.
type ReplayReport struct {
	Replayed  int   `json:"replayed"`
	Dropped   int   `json:"dropped"`
	Remaining int   `json:"remaining"`
	LastError error `json:"-"`
}

// Queue is a per-user FIFO of stamps backed by a QueueStore.
type Queue struct {
	store      repository.QueueStore
	maxRetries int
	now        func() time.Time
	newID      func() string
}

// New creates a queue. maxRetries below one uses DefaultMaxRetries.
func New(store repository.QueueStore, maxRetries int) *Queue {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	return &Queue{
		store:      store,
		maxRetries: maxRetries,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// WithClock overrides the clock used for created_at.
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

// MaxRetries returns the configured retry budget.
func (q *Queue) MaxRetries() int {
	return q.maxRetries
}

// Enqueue stores a stamp for later replay. The captured instant is kept as
// given so replay lands on the day it was taken.
func (q *Queue) Enqueue(ctx context.Context, userID string, stampedAt time.Time) (*repository.QueuedStamp, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidInputError("user_id", userID, "required")
	}
	if err := timecalc.ValidateInstant(stampedAt); err != nil {
		return nil, err
	}

	item := &repository.QueuedStamp{
		ID:        q.newID(),
		UserID:    userID,
		StampedAt: stampedAt.UTC(),
		CreatedAt: q.now().UTC(),
	}
	if err := q.store.EnqueueStamp(ctx, item); err != nil {
		return nil, err
	}
	logging.Debugf("queued stamp %s for %s at %s", item.ID, userID, item.StampedAt.Format(time.RFC3339))
	return item, nil
}

// Replay feeds the user's queued stamps to handler oldest first. A success
// removes the item. A retryable failure bumps its retry count and ends the
// pass so later stamps never overtake it; an item that fails after exhausting
// its retries is dropped with a warning and the pass moves on. Any other
// failure ends the pass untouched and is returned.
func (q *Queue) Replay(ctx context.Context, userID string, handler Handler) (*ReplayReport, error) {
	items, err := q.store.ListQueuedStamps(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &ReplayReport{}
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		herr := handler(ctx, item.StampedAt)
		if herr == nil {
			if err := q.store.DeleteQueuedStamp(ctx, item.ID); err != nil {
				return nil, err
			}
			report.Replayed++
			continue
		}

		if !apperrors.IsRetryable(herr) {
			// retrying cannot help; the item stays queued until the cause is fixed
			logging.Debugf("replay of %s blocked: %v", item.ID, herr)
			return nil, herr
		}

		report.LastError = herr
		if item.RetryCount >= q.maxRetries {
			logging.Warnf("dropping queued stamp %s at %s after %d retries: %v",
				item.ID, item.StampedAt.Format(time.RFC3339), item.RetryCount, herr)
			if err := q.store.DeleteQueuedStamp(ctx, item.ID); err != nil {
				return nil, err
			}
			report.Dropped++
			continue
		}

		item.RetryCount++
		if err := q.store.UpdateQueuedStamp(ctx, item); err != nil {
			return nil, err
		}
		logging.Debugf("replay of %s failed (retry %d/%d): %v", item.ID, item.RetryCount, q.maxRetries, herr)
		break
	}

	remaining, err := q.store.CountQueuedStamps(ctx, userID)
	if err != nil {
		return nil, err
	}
	report.Remaining = remaining
	return report, nil
}

// Pending returns the number of stamps waiting for the user.
func (q *Queue) Pending(ctx context.Context, userID string) (int, error) {
	return q.store.CountQueuedStamps(ctx, userID)
}
