// Package notify implements the asynchronous admin-notification subsystem:
// snapshotting a freshly registered event, composing the notification mail,
// attempting delivery within a fixed budget, and classifying every failure
// into a stable taxonomy. Nothing in this package ever propagates an error
// to the registration caller.
package notify

import (
	"time"

	"github.com/tsudoba/event-registry/internal/domain"
)

// Kind is the closed failure taxonomy for classified dispatch errors.
type Kind string

const (
	KindTimeout Kind = "timeout"
	KindService Kind = "service"
	KindString  Kind = "string"
	KindObject  Kind = "object"
	KindUnknown Kind = "unknown"
)

// UnknownMessage is the sentinel for failures carrying no usable information.
const UnknownMessage = "Unknown error occurred"

// ClassifiedError is the normalized form of any failure produced by a
// dispatch attempt. Code and Stack are optional.
type ClassifiedError struct {
	Message string
	Kind    Kind
	Code    string
	Stack   string
}

// Record is the dispatch subsystem's own snapshot of an event, taken before
// the attempt detaches from the caller. Times are RFC3339 strings as stored;
// the composer reformats them for display and falls back to the raw value
// when one does not parse.
type Record struct {
	ID        string
	Title     string
	URL       string
	StartAt   string
	EndAt     string // empty when the event is open-ended
	CreatedAt string

	// Contact is the submitter's private contact. It is carried so the
	// composer can decide that no contact line is added; it never appears
	// in any output.
	Contact string
}

// Payload is the composed notification. Derived, ephemeral, never persisted.
type Payload struct {
	Subject string
	Body    string
}

// Outcome is the terminal result of one dispatch attempt. It exists for the
// duration of the attempt and is consumed by logging and metrics only.
// A skipped attempt yields the zero Outcome.
type Outcome struct {
	Succeeded bool
	MessageID string
	Elapsed   time.Duration
	Err       *ClassifiedError
}

// Config is the subsystem's process-lifetime configuration, built once at
// startup and passed by value. It is read per attempt and never mutated.
type Config struct {
	Enabled      bool
	Destination  string
	AdminBaseURL string
}

// snapshotEvent copies the fields a notification needs. Later mutation of
// the caller's event is invisible to the detached attempt.
func snapshotEvent(e *domain.Event) Record {
	rec := Record{
		ID:        e.ID,
		Title:     e.Title,
		URL:       e.URL,
		StartAt:   e.StartTime.UTC().Format(time.RFC3339),
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		Contact:   e.Contact,
	}
	if e.EndTime != nil {
		rec.EndAt = e.EndTime.UTC().Format(time.RFC3339)
	}
	return rec
}
