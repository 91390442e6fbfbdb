package response

import (
	"net/http"

	appCtx "github.com/tsudoba/event-registry/internal/pkg/context"
)

// RequestIDFromRequest prefers the id placed on the context by the request-id
// middleware and falls back to the inbound header for handlers mounted
// outside that chain.
func RequestIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if v := appCtx.GetRequestID(r.Context()); v != "" {
		return v
	}
	return r.Header.Get("X-Request-Id")
}
