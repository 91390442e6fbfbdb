package event

import (
	"context"
	"time"

	"github.com/tsudoba/event-registry/internal/domain"
)

// RegisterCmd carries a public event submission.
type RegisterCmd struct {
	Title     string
	URL       string
	Contact   string
	StartTime time.Time
	EndTime   *time.Time
}

// Register validates the submission, persists it as a pending event and
// schedules the admin notification. The notification is fired only after the
// row is durable; if Create fails, nothing is dispatched.
func (s *Service) Register(ctx context.Context, cmd RegisterCmd) (*domain.Event, error) {
	e, err := domain.NewSubmission(cmd.Title, cmd.URL, cmd.Contact, cmd.StartTime, cmd.EndTime, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Dispatch(e)
	}
	return e, nil
}
