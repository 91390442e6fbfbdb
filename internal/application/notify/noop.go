package notify

import "context"

// NoopTransport accepts every publish without delivering anywhere. main falls
// back to it in dev when no broker is configured, so the dispatch path stays
// exercised end to end.
type NoopTransport struct{}

func (NoopTransport) Publish(ctx context.Context, destination, subject, body string) (string, error) {
	return "noop", nil
}
