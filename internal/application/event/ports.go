package event

import (
	"context"
	"time"

	"github.com/tsudoba/event-registry/internal/domain"
)

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// EventRepo is the persistence port for event records.
type EventRepo interface {
	Create(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	ListApproved(ctx context.Context, f ListFilter) ([]*domain.Event, int, error)
}

// Cache is the read-side cache port. All cache failures are tolerated;
// callers log and fall through to the repository.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Notifier schedules the admin notification for a freshly registered event.
// Dispatch returns immediately and absorbs every downstream failure, so the
// registration path never blocks or fails because of it.
type Notifier interface {
	Dispatch(e *domain.Event)
}
