package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/tsudoba/event-registry/internal/transport/http/response"
)

// Pinger is the cache readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    *sql.DB
	cache Pinger
}

func NewHealthHandler(db *sql.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz. Only the database gates readiness; the cache is
// best-effort at runtime, so a dead Redis is reported but not fatal.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			response.Fail(w, http.StatusServiceUnavailable, "unavailable", "database unavailable",
				nil, response.RequestIDFromRequest(r))
			return
		}
	}

	out := map[string]string{"status": "ready"}
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			out["cache"] = "degraded"
		}
	}
	response.Data(w, http.StatusOK, out)
}
