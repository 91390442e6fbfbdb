package event

import (
	"context"

	"github.com/tsudoba/event-registry/internal/domain"
)

// Cancel withdraws an event from moderation or from the public listing.
func (s *Service) Cancel(ctx context.Context, eventID string) (*domain.Event, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := e.Cancel(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.invalidateDetails(ctx, e.ID)
	return e, nil
}
