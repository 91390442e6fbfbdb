package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tsudoba/event-registry/internal/domain"
)

// Dispatcher detaches one notification attempt per successfully persisted
// event. Dispatch returns immediately; every outcome of the detached work is
// absorbed here and surfaces only as log entries and metrics.
type Dispatcher struct {
	pub *Publisher
	log zerolog.Logger
	wg  sync.WaitGroup
}

func NewDispatcher(pub *Publisher, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		pub: pub,
		log: log.With().Str("component", "notify.dispatcher").Logger(),
	}
}

// Dispatch schedules exactly one delivery attempt for a freshly persisted
// event. Call it only after the create has committed; a persistence failure
// must short-circuit before reaching this point. It returns immediately and
// never raises anything to the caller.
func (d *Dispatcher) Dispatch(e *domain.Event) {
	if e == nil {
		return
	}
	// Snapshot before detaching: the caller may mutate or drop its copy
	// while the attempt is still running.
	rec := snapshotEvent(e)
	d.wg.Add(1)
	go d.run(rec)
}

func (d *Dispatcher) run(rec Record) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			ce := Classify(r)
			d.log.Error().
				Str("event_id", rec.ID).
				Str("error_message", ce.Message).
				Str("error_kind", string(ce.Kind)).
				Msg("notification dispatch panicked")
		}
	}()
	// The outcome is consumed by the publisher's logs and metrics; the
	// handle is discarded on purpose, not by omission.
	_ = d.pub.Attempt(context.Background(), rec)
}

// Drain blocks until in-flight attempts finish or ctx expires. It exists for
// process shutdown; request paths never wait on dispatches.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
