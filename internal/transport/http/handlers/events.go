package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tsudoba/event-registry/internal/application/event"
	"github.com/tsudoba/event-registry/internal/application/importer"
	"github.com/tsudoba/event-registry/internal/domain"
	"github.com/tsudoba/event-registry/internal/transport/http/dto"
	"github.com/tsudoba/event-registry/internal/transport/http/response"
	"github.com/tsudoba/event-registry/internal/transport/http/validate"
)

// maxImportEntries bounds a single feed import request.
const maxImportEntries = 100

type Clock interface{ Now() time.Time }

type EventsHandler struct {
	svc   *event.Service
	conv  *importer.Converter
	clock Clock
}

func NewEventsHandler(svc *event.Service, conv *importer.Converter, clock Clock) *EventsHandler {
	return &EventsHandler{svc: svc, conv: conv, clock: clock}
}

// Register accepts a public event submission.
func (h *EventsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterEventReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or unknown fields",
		}))
		return
	}

	ev, err := h.svc.Register(r.Context(), event.RegisterCmd{
		Title:     req.Title,
		URL:       req.URL,
		Contact:   req.Contact,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusCreated, dto.ToEventResp(ev, h.clock.Now().UTC()))
}

// Get serves the public detail view of an approved event.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "event_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"event_id": "must be uuid",
		}))
		return
	}

	ev, err := h.svc.GetApproved(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusOK, dto.ToEventResp(ev, h.clock.Now().UTC()))
}

// List serves the public listing of approved events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var fromPtr, toPtr *time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"from": "must be RFC3339 timestamp",
			}))
			return
		}
		tt := t.UTC()
		fromPtr = &tt
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.Err(w, r, domain.ErrValidationMeta("invalid query param", map[string]string{
				"to": "must be RFC3339 timestamp",
			}))
			return
		}
		tt := t.UTC()
		toPtr = &tt
	}

	res, err := h.svc.ListApproved(r.Context(), event.ListFilter{
		From:     fromPtr,
		To:       toPtr,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}

	now := h.clock.Now().UTC()
	items := make([]dto.EventResp, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, dto.ToEventResp(it, now))
	}

	response.Data(w, http.StatusOK, dto.PageResp[dto.EventResp]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    res.Total,
	})
}

// Approve moves a pending event onto the public listing.
func (h *EventsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "event_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"event_id": "must be uuid",
		}))
		return
	}

	ev, err := h.svc.Approve(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusOK, dto.ToEventResp(ev, h.clock.Now().UTC()))
}

// Cancel withdraws an event.
func (h *EventsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "event_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"event_id": "must be uuid",
		}))
		return
	}

	ev, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusOK, dto.ToEventResp(ev, h.clock.Now().UTC()))
}

// Import ingests a batch from an external listing feed. Entries are handled
// independently; one bad entry never aborts the rest.
func (h *EventsHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req dto.ImportReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or unknown fields",
		}))
		return
	}
	if len(req.Entries) == 0 {
		response.Err(w, r, domain.ErrValidation("entries must not be empty"))
		return
	}
	if len(req.Entries) > maxImportEntries {
		response.Err(w, r, domain.ErrValidationMeta("too many entries", map[string]string{
			"entries": "at most " + strconv.Itoa(maxImportEntries) + " per request",
		}))
		return
	}

	now := h.clock.Now().UTC()
	out := dto.ImportResp{Registered: []dto.EventResp{}}
	for i, entry := range req.Entries {
		cmd, err := h.conv.ConvertEntry(entry)
		if err != nil {
			out.Skipped = append(out.Skipped, dto.ImportSkipResp{Index: i, Reason: err.Error()})
			continue
		}
		ev, err := h.svc.Register(r.Context(), cmd)
		if err != nil {
			out.Skipped = append(out.Skipped, dto.ImportSkipResp{Index: i, Reason: err.Error()})
			continue
		}
		out.Registered = append(out.Registered, dto.ToEventResp(ev, now))
	}

	response.Data(w, http.StatusOK, out)
}
