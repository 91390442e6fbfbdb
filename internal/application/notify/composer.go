package notify

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Subject is fixed: a static campaign label plus a static new-registration
// phrase. The event title never appears in the subject so receiving-side
// filters stay stable; detail lives in the body.
const subjectLine = "【地域イベント】新規イベント登録のお知らせ"

const defaultAdminBaseURL = "https://admin.tsudoba.jp/events"

// displayPattern renders times as 「YYYY年MM月DD日 HH:mm」 in JST.
const displayPattern = "2006年01月02日 15:04"

var jst = time.FixedZone("JST", 9*60*60)

// Composer builds the admin notification payload for one event record.
// Compose is deterministic: the same record yields byte-identical output.
type Composer struct {
	adminBaseURL string
	log          zerolog.Logger
}

func NewComposer(cfg Config, log zerolog.Logger) *Composer {
	base := strings.TrimSpace(cfg.AdminBaseURL)
	if base == "" {
		base = defaultAdminBaseURL
	}
	return &Composer{
		adminBaseURL: base,
		log:          log.With().Str("component", "notify.composer").Logger(),
	}
}

func (c *Composer) Compose(rec Record) Payload {
	var b strings.Builder

	b.WriteString("新しいイベントが登録されました。内容をご確認ください。\n\n")

	b.WriteString("■タイトル\n")
	b.WriteString(rec.Title)
	b.WriteString("\n\n")

	b.WriteString("■開催日時\n")
	b.WriteString(c.schedule(rec))
	b.WriteString("\n\n")

	b.WriteString("■掲載元URL\n")
	b.WriteString(rec.URL)
	b.WriteString("\n\n")

	b.WriteString("■登録日時\n")
	b.WriteString(c.displayTime(rec.CreatedAt))
	b.WriteString("\n\n")

	// The admin link is the fixed base URL only, never parameterized with
	// the record id or a query string.
	b.WriteString("イベントの確認と掲載可否の操作は管理画面から行えます。\n")
	b.WriteString(c.adminBaseURL)
	b.WriteString("\n\n")

	// rec.Contact is read only to decide that no contact line is added.
	// The line is omitted outright, so no placeholder or partial value can
	// reach the body.
	_ = rec.Contact

	b.WriteString("※このメールはシステムより自動送信されています。\n")

	return Payload{Subject: subjectLine, Body: b.String()}
}

// schedule renders the start time alone for open-ended events, or the
// 「start 〜 end」 range when an end time exists.
func (c *Composer) schedule(rec Record) string {
	start := c.displayTime(rec.StartAt)
	if strings.TrimSpace(rec.EndAt) == "" {
		return start
	}
	return start + " 〜 " + c.displayTime(rec.EndAt)
}

// displayTime converts a stored RFC3339 timestamp to the JST display form.
// An unparseable non-empty value is emitted unchanged with one warn log;
// the field is never dropped and no error is raised.
func (c *Composer) displayTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		c.log.Warn().Str("raw", raw).Msg("time format fallback: emitting raw value")
		return raw
	}
	return t.In(jst).Format(displayPattern)
}
