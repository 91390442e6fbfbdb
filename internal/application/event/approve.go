package event

import (
	"context"

	"github.com/tsudoba/event-registry/internal/domain"
)

// Approve moves a pending event onto the public listing. Moderation changes
// do not trigger notifications; only registration does.
func (s *Service) Approve(ctx context.Context, eventID string) (*domain.Event, error) {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := e.Approve(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.invalidateDetails(ctx, e.ID)
	return e, nil
}
