// Package event holds the application-level use cases for the event
// registry: public registration, approved-only reads, and moderation.
package event

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"
)

type Service struct {
	repo     EventRepo
	clock    Clock
	notifier Notifier
	cache    Cache

	ttlDetails time.Duration
	ttlList    time.Duration
}

func New(repo EventRepo, clock Clock, notifier Notifier, cache Cache, ttlDetails, ttlList time.Duration) *Service {
	if ttlDetails == 0 {
		ttlDetails = 5 * time.Minute
	}
	if ttlList == 0 {
		ttlList = 15 * time.Second
	}
	return &Service{
		repo:       repo,
		clock:      clock,
		notifier:   notifier,
		cache:      cache,
		ttlDetails: ttlDetails,
		ttlList:    ttlList,
	}
}

// invalidateDetails drops the cached detail entry after a moderation change.
// List entries are left to age out on their short TTL.
func (s *Service) invalidateDetails(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	key := cacheKeyEventDetails(id)
	if err := s.cache.Delete(ctx, key); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache invalidate failed")
	}
}
