package dto

import (
	"time"

	"github.com/tsudoba/event-registry/internal/domain"
)

// ToEventResp strips an event down to its public view. Contact is dropped
// here, so no handler has to remember to do it.
func ToEventResp(e *domain.Event, now time.Time) EventResp {
	// Open-ended events are never marked ended.
	ended := e.EndTime != nil && now.After(*e.EndTime)

	return EventResp{
		ID:         e.ID,
		Title:      e.Title,
		URL:        e.URL,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		Status:     string(e.Status),
		ApprovedAt: e.ApprovedAt,
		CanceledAt: e.CanceledAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		Ended:      ended,
	}
}
