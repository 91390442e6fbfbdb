package event

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/tsudoba/event-registry/internal/domain"
)

// ListFilter narrows the public listing by start-time window and selects a
// page. Zero values mean "no bound" / first page.
type ListFilter struct {
	From *time.Time
	To   *time.Time

	Page     int
	PageSize int
}

// Normalize applies paging defaults and rejects inverted time windows.
func (f *ListFilter) Normalize() error {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return domain.ErrValidation("to must not be before from")
	}
	return nil
}

type ListResult struct {
	Items []*domain.Event `json:"items"`
	Total int             `json:"total"`
}

// ListApproved returns approved events ordered by start time. Only the first
// page is cached; deeper pages are rare enough to hit the database directly.
func (s *Service) ListApproved(ctx context.Context, f ListFilter) (ListResult, error) {
	if err := f.Normalize(); err != nil {
		return ListResult{}, err
	}

	key := ""
	if f.Page == 1 && s.cache != nil {
		key = cacheKeyApprovedList(f)
		var cached ListResult
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			zlog.Debug().Str("key", key).Msg("cache hit")
			return cached, nil
		}
	}

	items, total, err := s.repo.ListApproved(ctx, f)
	if err != nil {
		return ListResult{}, err
	}
	res := ListResult{Items: items, Total: total}

	if key != "" && len(res.Items) > 0 {
		if err := s.cache.Set(ctx, key, res, s.ttlList); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return res, nil
}
