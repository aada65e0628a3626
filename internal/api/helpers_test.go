package api

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/export"
	"timesheet/internal/metrics"
	"timesheet/internal/queue"
	"timesheet/internal/repository"
	"timesheet/internal/repository/sqlite"
	"timesheet/internal/services"
	"timesheet/internal/timecalc"
	"timesheet/internal/validation"
)

const testUser = "alice"

var validatorNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// flakyRepo forwards to a real store until it is taken down
type flakyRepo struct {
	*sqlite.SQLiteRepository
	down bool
}

func (f *flakyRepo) unavailable(op string) error {
	return apperrors.NewDatabaseError(op, context.DeadlineExceeded)
}

func (f *flakyRepo) GetDayEntry(ctx context.Context, userID, dateKey string) (*repository.DayEntry, error) {
	if f.down {
		return nil, f.unavailable("get day entry")
	}
	return f.SQLiteRepository.GetDayEntry(ctx, userID, dateKey)
}

func (f *flakyRepo) UpsertDayEntry(ctx context.Context, entry *repository.DayEntry) (*repository.DayEntry, error) {
	if f.down {
		return nil, f.unavailable("upsert day entry")
	}
	return f.SQLiteRepository.UpsertDayEntry(ctx, entry)
}

func (f *flakyRepo) ListDayEntries(ctx context.Context, userID, fromKey, toKey string) ([]*repository.DayEntry, error) {
	if f.down {
		return nil, f.unavailable("list day entries")
	}
	return f.SQLiteRepository.ListDayEntries(ctx, userID, fromKey, toKey)
}

// flakyQueueStore fails listing while listDown is set
type flakyQueueStore struct {
	*sqlite.SQLiteRepository
	listDown bool
}

func (f *flakyQueueStore) ListQueuedStamps(ctx context.Context, userID string) ([]*repository.QueuedStamp, error) {
	if f.listDown {
		return nil, apperrors.NewDatabaseError("list queued stamps", context.DeadlineExceeded)
	}
	return f.SQLiteRepository.ListQueuedStamps(ctx, userID)
}

type fixture struct {
	api        BusinessAPI
	repo       *flakyRepo
	queueStore *flakyQueueStore
	queue      *queue.Queue
	metrics    *metrics.Metrics
	backups    string
}

func newSQLite(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func setupContainer(t *testing.T, repo repository.Repository, defaults domain.Settings) *services.ServiceContainer {
	t.Helper()
	cal, err := timecalc.NewCalendar("Europe/Copenhagen")
	require.NoError(t, err)
	validator := validation.NewValidator().WithClock(func() time.Time { return validatorNow })
	return services.NewServiceContainer(repo, cal, defaults, validator, services.Timeouts{Query: time.Second, Write: time.Second})
}

func setupFixture(t *testing.T, defaults domain.Settings) *fixture {
	t.Helper()
	repo := &flakyRepo{SQLiteRepository: newSQLite(t)}
	qs := &flakyQueueStore{SQLiteRepository: newSQLite(t)}
	q := queue.New(qs, 3)
	m := metrics.New(prometheus.NewRegistry())
	dir := t.TempDir()

	container := setupContainer(t, repo, defaults)
	return &fixture{
		api: NewBusinessAPI(container, testUser, Options{
			Queue:              q,
			Backups:            export.NewBackupWriter(dir, 24*time.Hour),
			BackupLookbackDays: 30,
			Metrics:            m,
		}),
		repo:       repo,
		queueStore: qs,
		queue:      q,
		metrics:    m,
		backups:    dir,
	}
}

// copenhagen returns an instant given as Copenhagen wall clock
func copenhagen(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Copenhagen")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
