package notify

import "context"

// Transport delivers a composed notification to a destination channel and
// returns the provider-assigned message id. Implementations may fail with a
// structured error, a plain value, or a panic; the publisher absorbs all of
// them.
type Transport interface {
	Publish(ctx context.Context, destination, subject, body string) (messageID string, err error)
}
