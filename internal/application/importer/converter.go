// Package importer converts entries from external event listing feeds into
// registration commands.
package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tsudoba/event-registry/internal/application/event"
	"github.com/tsudoba/event-registry/internal/domain"
)

// FeedEntry is one event as published by an external listing feed.
type FeedEntry struct {
	Title    string `json:"title" validate:"required,max=120"`
	PageURL  string `json:"page_url" validate:"required,url,max=2048"`
	StartsAt string `json:"starts_at" validate:"required"`
	EndsAt   string `json:"ends_at"`
	Contact  string `json:"contact_email" validate:"omitempty,email,max=254"`
}

var validate = validator.New()

// Feed timestamps arrive in several forms. Zoneless ones come from domestic
// listing sites and are read as JST.
var jst = time.FixedZone("JST", 9*60*60)

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type Converter struct{}

func NewConverter() *Converter { return &Converter{} }

// ConvertEntry validates one feed entry and maps it onto a registration
// command. Failures come back as validation errors naming the offending
// field, so batch callers can report them per entry without aborting the run.
func (c *Converter) ConvertEntry(e FeedEntry) (event.RegisterCmd, error) {
	if err := validate.Struct(e); err != nil {
		return event.RegisterCmd{}, domain.ErrValidation(formatValidationError(err))
	}

	start, err := parseFeedTime(e.StartsAt)
	if err != nil {
		return event.RegisterCmd{}, domain.ErrValidation(fmt.Sprintf("starts_at: %v", err))
	}

	var end *time.Time
	if strings.TrimSpace(e.EndsAt) != "" {
		t, err := parseFeedTime(e.EndsAt)
		if err != nil {
			return event.RegisterCmd{}, domain.ErrValidation(fmt.Sprintf("ends_at: %v", err))
		}
		end = &t
	}

	return event.RegisterCmd{
		Title:     e.Title,
		URL:       e.PageURL,
		Contact:   e.Contact,
		StartTime: start,
		EndTime:   end,
	}, nil
}

func parseFeedTime(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, jst); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
