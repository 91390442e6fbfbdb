package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsudoba/event-registry/internal/application/event"
	"github.com/tsudoba/event-registry/internal/application/importer"
	"github.com/tsudoba/event-registry/internal/domain"
)

const knownID = "2b1e9c1e-5b7f-4b43-9f9d-0a6a1f1f3c21"

type mockClock struct{ t time.Time }

func (m mockClock) Now() time.Time { return m.t }

// Minimal in-memory repo for handler tests.
type mockRepo struct {
	byID map[string]*domain.Event
}

func newMockRepo() *mockRepo { return &mockRepo{byID: map[string]*domain.Event{}} }

func (m *mockRepo) Create(ctx context.Context, e *domain.Event) error {
	m.byID[e.ID] = e
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound("event not found")
	}
	return e, nil
}

func (m *mockRepo) Update(ctx context.Context, e *domain.Event) error {
	m.byID[e.ID] = e
	return nil
}

func (m *mockRepo) ListApproved(ctx context.Context, f event.ListFilter) ([]*domain.Event, int, error) {
	var out []*domain.Event
	for _, e := range m.byID {
		if e.Status == domain.StatusApproved {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

type mockNotifier struct{ count int }

func (n *mockNotifier) Dispatch(e *domain.Event) { n.count++ }

func newTestHandler(t *testing.T) (*EventsHandler, *mockRepo, *mockNotifier) {
	t.Helper()
	repo := newMockRepo()
	notifier := &mockNotifier{}
	now := time.Date(2024, 1, 10, 2, 0, 0, 0, time.UTC)
	svc := event.New(repo, mockClock{t: now}, notifier, nil, 0, 0)
	return NewEventsHandler(svc, importer.NewConverter(), mockClock{t: now}), repo, notifier
}

func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeData(t *testing.T, body []byte, dest any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func seedApproved(t *testing.T, repo *mockRepo, id string) *domain.Event {
	t.Helper()
	end := time.Date(2024, 1, 15, 21, 0, 0, 0, time.UTC)
	e := &domain.Event{
		ID:        id,
		Title:     "陶芸ワークショップ",
		URL:       "https://events.example.org/pottery",
		Contact:   "host@example.org",
		StartTime: time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC),
		EndTime:   &end,
		Status:    domain.StatusApproved,
	}
	repo.byID[id] = e
	return e
}

func TestEventsHandler_Register(t *testing.T) {
	validBody := `{"title":"陶芸ワークショップ","url":"https://events.example.org/pottery",` +
		`"contact":"host@example.org","start_time":"2024-01-15T19:00:00Z","end_time":null}`

	t.Run("creates_pending_event", func(t *testing.T) {
		h, repo, notifier := newTestHandler(t)

		req := httptest.NewRequest("POST", "/registry/v1/events", strings.NewReader(validBody))
		rr := httptest.NewRecorder()
		h.Register(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var got map[string]any
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "pending", got["status"])
		assert.Equal(t, "陶芸ワークショップ", got["title"])
		assert.NotContains(t, rr.Body.String(), "host@example.org")

		assert.Len(t, repo.byID, 1)
		assert.Equal(t, 1, notifier.count)
	})

	t.Run("rejects_malformed_json", func(t *testing.T) {
		h, _, notifier := newTestHandler(t)

		req := httptest.NewRequest("POST", "/registry/v1/events", strings.NewReader(`{"title":`))
		rr := httptest.NewRecorder()
		h.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "validation_error")
		assert.Equal(t, 0, notifier.count)
	})

	t.Run("rejects_unknown_fields", func(t *testing.T) {
		h, _, _ := newTestHandler(t)

		req := httptest.NewRequest("POST", "/registry/v1/events",
			strings.NewReader(`{"title":"x","url":"https://x.example","start_time":"2024-01-15T19:00:00Z","bogus":1}`))
		rr := httptest.NewRecorder()
		h.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects_invalid_submission", func(t *testing.T) {
		h, repo, notifier := newTestHandler(t)

		req := httptest.NewRequest("POST", "/registry/v1/events",
			strings.NewReader(`{"title":"  ","url":"https://x.example","contact":"","start_time":"2024-01-15T19:00:00Z","end_time":null}`))
		rr := httptest.NewRecorder()
		h.Register(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, repo.byID)
		assert.Equal(t, 0, notifier.count)
	})
}

func TestEventsHandler_Get(t *testing.T) {
	t.Run("returns_400_on_invalid_uuid", func(t *testing.T) {
		h, _, _ := newTestHandler(t)

		req := withURLParam(httptest.NewRequest("GET", "/registry/v1/events/invalid-uuid", nil),
			"event_id", "invalid-uuid")
		rr := httptest.NewRecorder()
		h.Get(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "validation_error")
	})

	t.Run("serves_approved_event_without_contact", func(t *testing.T) {
		h, repo, _ := newTestHandler(t)
		seedApproved(t, repo, knownID)

		req := withURLParam(httptest.NewRequest("GET", "/registry/v1/events/"+knownID, nil),
			"event_id", knownID)
		rr := httptest.NewRecorder()
		h.Get(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got map[string]any
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, knownID, got["id"])
		assert.NotContains(t, rr.Body.String(), "host@example.org")
	})

	t.Run("hides_pending_event", func(t *testing.T) {
		h, repo, _ := newTestHandler(t)
		e := seedApproved(t, repo, knownID)
		e.Status = domain.StatusPending

		req := withURLParam(httptest.NewRequest("GET", "/registry/v1/events/"+knownID, nil),
			"event_id", knownID)
		rr := httptest.NewRecorder()
		h.Get(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEventsHandler_List(t *testing.T) {
	t.Run("returns_page_envelope", func(t *testing.T) {
		h, repo, _ := newTestHandler(t)
		seedApproved(t, repo, knownID)

		req := httptest.NewRequest("GET", "/registry/v1/events", nil)
		rr := httptest.NewRecorder()
		h.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got struct {
			Items    []map[string]any `json:"items"`
			Page     int              `json:"page"`
			PageSize int              `json:"page_size"`
			Total    int              `json:"total"`
		}
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, 20, got.PageSize)
		assert.Equal(t, 1, got.Total)
		assert.Len(t, got.Items, 1)
	})

	t.Run("rejects_bad_from_param", func(t *testing.T) {
		h, _, _ := newTestHandler(t)

		req := httptest.NewRequest("GET", "/registry/v1/events?from=yesterday", nil)
		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("caps_page_size", func(t *testing.T) {
		h, _, _ := newTestHandler(t)

		req := httptest.NewRequest("GET", "/registry/v1/events?page_size=9999", nil)
		rr := httptest.NewRecorder()
		h.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got struct {
			PageSize int `json:"page_size"`
		}
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, 100, got.PageSize)
	})
}

func TestEventsHandler_Moderation(t *testing.T) {
	t.Run("approve_transitions_event", func(t *testing.T) {
		h, repo, notifier := newTestHandler(t)
		e := seedApproved(t, repo, knownID)
		e.Status = domain.StatusPending

		req := withURLParam(httptest.NewRequest("POST", "/admin/v1/events/"+knownID+"/approve", nil),
			"event_id", knownID)
		rr := httptest.NewRecorder()
		h.Approve(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got map[string]any
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "approved", got["status"])
		assert.Equal(t, 0, notifier.count, "moderation must not notify")
	})

	t.Run("approve_twice_conflicts", func(t *testing.T) {
		h, repo, _ := newTestHandler(t)
		seedApproved(t, repo, knownID)

		req := withURLParam(httptest.NewRequest("POST", "/admin/v1/events/"+knownID+"/approve", nil),
			"event_id", knownID)
		rr := httptest.NewRecorder()
		h.Approve(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid_state")
	})

	t.Run("cancel_transitions_event", func(t *testing.T) {
		h, repo, _ := newTestHandler(t)
		seedApproved(t, repo, knownID)

		req := withURLParam(httptest.NewRequest("POST", "/admin/v1/events/"+knownID+"/cancel", nil),
			"event_id", knownID)
		rr := httptest.NewRecorder()
		h.Cancel(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var got map[string]any
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "canceled", got["status"])
	})

	t.Run("unknown_event_not_found", func(t *testing.T) {
		h, _, _ := newTestHandler(t)

		req := withURLParam(httptest.NewRequest("POST", "/admin/v1/events/"+knownID+"/approve", nil),
			"event_id", knownID)
		rr := httptest.NewRecorder()
		h.Approve(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEventsHandler_Import(t *testing.T) {
	t.Run("mixed_batch_reports_per_entry", func(t *testing.T) {
		h, repo, notifier := newTestHandler(t)

		body := `{"entries":[
			{"title":"川越まつり","page_url":"https://matsuri.example.jp/kawagoe","starts_at":"2024-10-19 10:00","ends_at":"","contact_email":""},
			{"title":"","page_url":"https://matsuri.example.jp/broken","starts_at":"2024-10-19 10:00","ends_at":"","contact_email":""}
		]}`
		req := httptest.NewRequest("POST", "/registry/v1/events/import", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.Import(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var got struct {
			Registered []map[string]any `json:"registered"`
			Skipped    []struct {
				Index  int    `json:"index"`
				Reason string `json:"reason"`
			} `json:"skipped"`
		}
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Len(t, got.Registered, 1)
		require.Len(t, got.Skipped, 1)
		assert.Equal(t, 1, got.Skipped[0].Index)
		assert.Contains(t, got.Skipped[0].Reason, "Title is required")

		assert.Len(t, repo.byID, 1)
		assert.Equal(t, 1, notifier.count, "one notification per persisted entry")
	})

	t.Run("rejects_empty_batch", func(t *testing.T) {
		h, _, _ := newTestHandler(t)

		req := httptest.NewRequest("POST", "/registry/v1/events/import", strings.NewReader(`{"entries":[]}`))
		rr := httptest.NewRecorder()
		h.Import(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects_malformed_body", func(t *testing.T) {
		h, _, _ := newTestHandler(t)

		req := httptest.NewRequest("POST", "/registry/v1/events/import", strings.NewReader(`[]`))
		rr := httptest.NewRecorder()
		h.Import(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
