package notifiers

import (
	"strings"
	"time"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
)

// Message is the payload delivered downstream. Text carries the formatted
// per-item notification; structured sinks (SQS, SNS, Pub/Sub, HTTP) ship the
// whole message as JSON.
type Message struct {
	Article     domain.Article `json:"article"`
	Text        string         `json:"text"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewMessage constructs the Message for an article.
func NewMessage(article domain.Article) Message {
	return Message{
		Article:     article,
		Text:        FormatText(article),
		CollectedAt: time.Now().UTC(),
	}
}

// FormatText renders the per-item notification: a bold title line, an
// optional "🕒 <published>" line, then the bare URL.
func FormatText(a domain.Article) string {
	parts := []string{"<b>" + a.Title + "</b>"}
	if a.PublishedAt != "" {
		parts = append(parts, "🕒 "+a.PublishedAt)
	}
	parts = append(parts, a.URL)
	return strings.Join(parts, "\n")
}
