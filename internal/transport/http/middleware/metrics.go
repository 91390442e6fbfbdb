package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tsudoba/event-registry/internal/metrics"
)

// Metrics records one sample per request, labeled by the matched chi route
// pattern rather than the raw path so label cardinality stays bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, path, status)
	})
}
