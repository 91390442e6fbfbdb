package event

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/tsudoba/event-registry/internal/domain"
)

// GetApproved returns a single event for the public detail page. Events that
// are pending or canceled are reported as not found, so moderation state
// never leaks through this path.
func (s *Service) GetApproved(ctx context.Context, id string) (*domain.Event, error) {
	key := cacheKeyEventDetails(id)

	if s.cache != nil {
		var cached domain.Event
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			zlog.Debug().Str("key", key).Msg("cache hit")
			return &cached, nil
		}
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != domain.StatusApproved {
		return nil, domain.ErrNotFound("event not found")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, e, s.ttlDetails); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return e, nil
}
