package api

import (
	"context"
	"time"

	"timesheet/internal/domain"
	"timesheet/internal/services"
)

// API exposes manual edits of stored day entries for any user.
type API interface {
	GetDayEntry(ctx context.Context, userID, dateKey string) (*domain.DayEntry, error)
	// SetDayEntry replaces the interval of a day. Start and end are swapped
	// when given out of order and the duration is recomputed.
	SetDayEntry(ctx context.Context, userID, dateKey string, start, end *time.Time) (*domain.DayEntry, error)
	DeleteDayEntry(ctx context.Context, userID, dateKey string) error
}

type apiImpl struct {
	entries services.EntryService
}

// New creates a new API instance.
func New(container *services.ServiceContainer) API {
	return &apiImpl{entries: container.EntryService}
}

func (a *apiImpl) GetDayEntry(ctx context.Context, userID, dateKey string) (*domain.DayEntry, error) {
	return a.entries.Get(ctx, userID, dateKey)
}

func (a *apiImpl) SetDayEntry(ctx context.Context, userID, dateKey string, start, end *time.Time) (*domain.DayEntry, error) {
	return a.entries.Set(ctx, userID, dateKey, start, end)
}

func (a *apiImpl) DeleteDayEntry(ctx context.Context, userID, dateKey string) error {
	return a.entries.Delete(ctx, userID, dateKey)
}
