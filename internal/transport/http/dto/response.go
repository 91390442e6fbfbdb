package dto

import "time"

// EventResp is the stable API response model. The submitter contact is
// deliberately absent; it never leaves the service.
type EventResp struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	Status string `json:"status"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived
	Ended bool `json:"ended"`
}

type PageResp[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// ImportResp summarizes a bulk feed import. Rejected entries are reported by
// index so the caller can fix and resubmit just those.
type ImportResp struct {
	Registered []EventResp      `json:"registered"`
	Skipped    []ImportSkipResp `json:"skipped,omitempty"`
}

type ImportSkipResp struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}
