package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tsudoba/event-registry/internal/application/event"
	"github.com/tsudoba/event-registry/internal/domain"
)

type Repo struct {
	db *sql.DB
}

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.ID, e.Title, e.URL, e.Contact,
		e.StartTime, e.EndTime, string(e.Status),
		e.ApprovedAt, e.CanceledAt, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, getEventSQL, id)

	e, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("event not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repo) Update(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx, updateEventSQL,
		e.ID,
		e.Title, e.URL, e.Contact,
		e.StartTime, e.EndTime, string(e.Status),
		e.ApprovedAt, e.CanceledAt, e.UpdatedAt,
	)
	return err
}

// ListApproved returns one page of approved events ordered by start time,
// optionally bounded by the filter's from/to window.
func (r *Repo) ListApproved(ctx context.Context, f event.ListFilter) ([]*domain.Event, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}

	where := []string{"status = 'approved'"}
	args := []any{}
	argN := 1

	add := func(condFmt string, val any) {
		where = append(where, fmt.Sprintf(condFmt, argN))
		args = append(args, val)
		argN++
	}

	if f.From != nil {
		add("start_time >= $%d", *f.From)
	}
	if f.To != nil {
		add("start_time <= $%d", *f.To)
	}

	whereSQL := "WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := `
SELECT id, title, url, contact,
       start_time, end_time, status,
       approved_at, canceled_at, created_at, updated_at
FROM events
` + whereSQL + `
ORDER BY start_time ASC, id ASC
LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)

	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func scanEvent(scan func(dest ...any) error) (*domain.Event, error) {
	var e domain.Event
	var status string
	err := scan(
		&e.ID, &e.Title, &e.URL, &e.Contact,
		&e.StartTime, &e.EndTime, &status,
		&e.ApprovedAt, &e.CanceledAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = domain.EventStatus(status)
	if !e.Status.Valid() {
		return nil, domain.ErrInvalidState("invalid status in db")
	}
	return &e, nil
}
