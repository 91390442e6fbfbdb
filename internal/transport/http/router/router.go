package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/tsudoba/event-registry/internal/config"
	"github.com/tsudoba/event-registry/internal/metrics"
	"github.com/tsudoba/event-registry/internal/transport/http/handlers"
	appmw "github.com/tsudoba/event-registry/internal/transport/http/middleware"
)

func New(
	h *handlers.EventsHandler,
	z *handlers.HealthHandler,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(appmw.RequestID)
	r.Use(appmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.AccessLog)
	r.Use(appmw.Metrics)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/registry/v1", func(r chi.Router) {
		r.Post("/events", h.Register)
		r.Get("/events", h.List)
		r.Get("/events/{event_id}", h.Get)
		r.Post("/events/import", h.Import)
	})

	// Moderation sits behind the trusted admin gateway; this service does not
	// authenticate it again.
	r.Route("/admin/v1", func(r chi.Router) {
		r.Post("/events/{event_id}/approve", h.Approve)
		r.Post("/events/{event_id}/cancel", h.Cancel)
	})

	return r
}
