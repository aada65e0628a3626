package sqlite

import (
	"context"

	"timesheet/internal/repository"
)

// EnqueueStamp appends a stamp to the offline queue
func (r *SQLiteRepository) EnqueueStamp(ctx context.Context, stamp *repository.QueuedStamp) error {
	if stamp.CreatedAt.IsZero() {
		stamp.CreatedAt = r.now()
	}
	query := `
	INSERT INTO stamp_queue (id, user_id, stamped_at, retry_count, created_at)
	VALUES (?, ?, ?, ?, ?)`

	seq, err := insertSeq(ctx, r.db, "enqueue stamp", query,
		stamp.ID,
		stamp.UserID,
		encodeTime(stamp.StampedAt),
		stamp.RetryCount,
		encodeTime(stamp.CreatedAt),
	)
	if err != nil {
		return err
	}
	stamp.Seq = seq
	return nil
}

// ListQueuedStamps returns the user's queue oldest first
func (r *SQLiteRepository) ListQueuedStamps(ctx context.Context, userID string) ([]*repository.QueuedStamp, error) {
	query := `SELECT ` + queuedStampColumns + `
	FROM stamp_queue
	WHERE user_id = ?
	ORDER BY seq ASC`

	return queryAll(ctx, r.db, "queued stamps", query, ScanQueuedStamps, userID)
}

// UpdateQueuedStamp persists the retry count of a queued stamp
func (r *SQLiteRepository) UpdateQueuedStamp(ctx context.Context, stamp *repository.QueuedStamp) error {
	query := `UPDATE stamp_queue SET retry_count = ? WHERE id = ?`
	return execOne(ctx, r.db, "queued stamp", stamp.ID, query, stamp.RetryCount, stamp.ID)
}

// DeleteQueuedStamp removes a stamp from the queue
func (r *SQLiteRepository) DeleteQueuedStamp(ctx context.Context, id string) error {
	query := `DELETE FROM stamp_queue WHERE id = ?`
	return execOne(ctx, r.db, "queued stamp", id, query, id)
}

// CountQueuedStamps returns how many stamps wait for replay
func (r *SQLiteRepository) CountQueuedStamps(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stamp_queue WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, storeError("count queued stamps", err)
	}
	return count, nil
}
