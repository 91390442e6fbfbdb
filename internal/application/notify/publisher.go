package notify

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsudoba/event-registry/internal/metrics"
)

// DefaultBudget is the fixed wall-clock budget for one publish attempt.
const DefaultBudget = 5 * time.Second

// timeoutError marks an attempt that exhausted its publish budget. It
// satisfies the timeout discriminator the classifier looks for.
type timeoutError struct{ budget time.Duration }

func (e *timeoutError) Error() string {
	return fmt.Sprintf("publish timeout after %g seconds", e.budget.Seconds())
}

func (e *timeoutError) Timeout() bool { return true }

type publishResult struct {
	messageID string
	failure   any    // error return or recovered panic value
	stack     []byte // captured at the recover site
}

// Publisher races one transport publish against the budget and reports each
// outcome through logs and metrics. The skip preconditions are part of the
// same contract: a disabled feature or a missing destination short-circuits
// with a single warn and no transport call.
type Publisher struct {
	cfg       Config
	transport Transport
	comp      *Composer
	budget    time.Duration
	log       zerolog.Logger
}

func NewPublisher(cfg Config, tr Transport, comp *Composer, budget time.Duration, log zerolog.Logger) *Publisher {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Publisher{
		cfg:       cfg,
		transport: tr,
		comp:      comp,
		budget:    budget,
		log:       log.With().Str("component", "notify.publisher").Logger(),
	}
}

// Attempt composes and delivers the notification for rec within the budget.
// It returns the zero Outcome when a precondition skipped the attempt.
func (p *Publisher) Attempt(ctx context.Context, rec Record) Outcome {
	if !p.cfg.Enabled {
		metrics.RecordDispatchSkipped("disabled")
		p.log.Warn().
			Str("event_id", rec.ID).
			Str("reason", "notifications disabled").
			Msg("notification dispatch skipped")
		return Outcome{}
	}
	if strings.TrimSpace(p.cfg.Destination) == "" {
		metrics.RecordDispatchSkipped("no_destination")
		p.log.Warn().
			Str("event_id", rec.ID).
			Str("reason", "no destination configured").
			Msg("notification dispatch skipped")
		return Outcome{}
	}

	payload := p.comp.Compose(rec)

	p.log.Info().
		Str("event_id", rec.ID).
		Str("title", rec.Title).
		Str("destination", p.cfg.Destination).
		Msg("dispatching admin notification")

	start := time.Now()

	// Buffered so a late completion can always hand off its result and be
	// discarded; the goroutine never leaks blocked on send.
	resCh := make(chan publishResult, 1)
	go p.publish(ctx, payload, resCh)

	timer := time.NewTimer(p.budget)
	defer timer.Stop()

	select {
	case res := <-resCh:
		elapsed := time.Since(start)
		if res.failure == nil {
			metrics.RecordDispatchOutcome("success", elapsed)
			p.log.Info().
				Str("event_id", rec.ID).
				Str("title", rec.Title).
				Str("destination", p.cfg.Destination).
				Str("message_id", res.messageID).
				Dur("elapsed", elapsed).
				Msg("notification published")
			return Outcome{Succeeded: true, MessageID: res.messageID, Elapsed: elapsed}
		}
		ce := Classify(res.failure)
		if ce.Kind == KindService && ce.Stack == "" && len(res.stack) > 0 {
			ce.Stack = string(res.stack)
		}
		p.reportFailure(rec, ce, elapsed)
		return Outcome{Succeeded: false, Elapsed: elapsed, Err: &ce}

	case <-timer.C:
		// The in-flight publish is not cancelled. Its eventual result, if
		// any, lands in the buffered channel and is discarded.
		elapsed := time.Since(start)
		ce := Classify(&timeoutError{budget: p.budget})
		p.reportFailure(rec, ce, elapsed)
		return Outcome{Succeeded: false, Elapsed: elapsed, Err: &ce}
	}
}

// publish runs the transport call, converting a panic into a classified
// failure with the stack captured at the recover site.
func (p *Publisher) publish(ctx context.Context, payload Payload, resCh chan<- publishResult) {
	defer func() {
		if r := recover(); r != nil {
			resCh <- publishResult{failure: r, stack: debug.Stack()}
		}
	}()
	id, err := p.transport.Publish(ctx, p.cfg.Destination, payload.Subject, payload.Body)
	if err != nil {
		resCh <- publishResult{failure: err}
		return
	}
	resCh <- publishResult{messageID: id}
}

func (p *Publisher) reportFailure(rec Record, ce ClassifiedError, elapsed time.Duration) {
	metrics.RecordDispatchOutcome("failure", elapsed)
	ev := p.log.Error().
		Str("event_id", rec.ID).
		Str("title", rec.Title).
		Str("destination", p.cfg.Destination).
		Str("error_message", ce.Message).
		Str("error_kind", string(ce.Kind)).
		Dur("elapsed", elapsed)
	if ce.Code != "" {
		ev = ev.Str("error_code", ce.Code)
	}
	if ce.Stack != "" {
		ev = ev.Str("stack", ce.Stack)
	}
	ev.Msg("notification publish failed")
}
