package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID    string
	Title string
	URL   string

	StartTime time.Time
	EndTime   *time.Time // nil = open-ended

	// Contact is the submitter's private contact address. It exists so staff
	// can reach the submitter; it must never appear in public responses or in
	// outgoing notifications.
	Contact string

	Status     EventStatus
	ApprovedAt *time.Time
	CanceledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSubmission(title, rawURL, contact string, start time.Time, end *time.Time, now time.Time) (*Event, error) {
	title = strings.TrimSpace(title)
	rawURL = strings.TrimSpace(rawURL)
	contact = strings.TrimSpace(contact)

	if title == "" || len(title) > 120 {
		return nil, ErrValidation("title is required and must be <= 120 chars")
	}
	if rawURL == "" || len(rawURL) > 2048 {
		return nil, ErrValidation("url is required and must be <= 2048 chars")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrValidationMeta("invalid url", map[string]string{
			"url": "must be an absolute http(s) URL",
		})
	}
	if len(contact) > 254 {
		return nil, ErrValidation("contact must be <= 254 chars")
	}
	if start.IsZero() {
		return nil, ErrValidation("start_time is required")
	}
	var endUTC *time.Time
	if end != nil {
		if !end.After(start) {
			return nil, ErrValidation("end_time must be after start_time")
		}
		t := end.UTC()
		endUTC = &t
	}

	return &Event{
		ID:        uuid.NewString(),
		Title:     title,
		URL:       rawURL,
		StartTime: start.UTC(),
		EndTime:   endUTC,
		Contact:   contact,
		Status:    StatusPending,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

func (e *Event) Approve(now time.Time) error {
	switch e.Status {
	case StatusApproved:
		return ErrInvalidState("event already approved")
	case StatusCanceled:
		return ErrInvalidState("canceled event cannot be approved")
	}
	t := now.UTC()
	e.Status = StatusApproved
	e.ApprovedAt = &t
	e.UpdatedAt = t
	return nil
}

func (e *Event) Cancel(now time.Time) error {
	if e.Status == StatusCanceled {
		return ErrInvalidState("event already canceled")
	}
	t := now.UTC()
	e.Status = StatusCanceled
	e.CanceledAt = &t
	e.UpdatedAt = t
	return nil
}
