package dto

import (
	"time"

	"github.com/tsudoba/event-registry/internal/application/importer"
)

type RegisterEventReq struct {
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Contact   string     `json:"contact"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

type ImportReq struct {
	Entries []importer.FeedEntry `json:"entries"`
}
