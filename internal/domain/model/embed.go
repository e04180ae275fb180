package model

import "time"

const (
	FooterText    = "GitHub Actions"
	FooterIconURL = "https://github.githubassets.com/images/modules/logos_page/GitHub-Mark.png"

	// TimestampLayout matches JavaScript's Date.toISOString.
	TimestampLayout = "2006-01-02T15:04:05.000Z"
)

// Embed is the composed notification. Field order is significant.
type Embed struct {
	Color     int          `json:"color"`
	Title     string       `json:"title"`
	URL       string       `json:"url"`
	Fields    []EmbedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
	Footer    EmbedFooter  `json:"footer"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url"`
}

// WebhookPayload is the body POSTed to a Discord webhook.
type WebhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

// NewWebhookPayload wraps a single embed.
func NewWebhookPayload(e Embed) WebhookPayload {
	return WebhookPayload{Embeds: []Embed{e}}
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
