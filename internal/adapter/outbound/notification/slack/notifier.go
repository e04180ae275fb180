package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
	"github.com/jonny/ci-notify/pkg/apierror"
)

const providerName = "slack"

// Config holds Slack notifier configuration.
type Config struct {
	HTTPClient *http.Client
}

// Notifier posts embeds to a Slack incoming webhook as a single attachment.
type Notifier struct {
	httpClient *http.Client
}

var _ outbound.Deliverer = (*Notifier)(nil)

// NewNotifier creates a new Slack Notifier.
func NewNotifier(cfg Config) *Notifier {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Notifier{httpClient: client}
}

func (n *Notifier) Format() model.Format { return model.FormatSlack }

// Deliver renders embed with BuildMessage and posts it to webhookURL.
func (n *Notifier) Deliver(ctx context.Context, webhookURL string, embed model.Embed) error {
	if webhookURL == "" {
		return outbound.ErrNotConfigured
	}

	msg := BuildMessage(embed)
	err := slackapi.PostWebhookCustomHTTPContext(ctx, webhookURL, n.httpClient, msg)
	if err == nil {
		return nil
	}

	var statusErr slackapi.StatusCodeError
	if errors.As(err, &statusErr) {
		return apierror.WithDetail(statusErr.Code, "slack webhook returned "+statusErr.Status, "")
	}
	var rateErr *slackapi.RateLimitedError
	if errors.As(err, &rateErr) {
		return apierror.WithDetail(http.StatusTooManyRequests, "slack webhook rate limited",
			fmt.Sprintf("retry after %s", rateErr.RetryAfter))
	}
	return apierror.SendError(providerName, webhookURL, err)
}

var markdownLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)

// toMrkdwn rewrites [text](url) links into Slack's <url|text> form.
func toMrkdwn(s string) string {
	return markdownLink.ReplaceAllString(s, "<$2|$1>")
}

// hexColor renders a packed RGB int as #RRGGBB.
func hexColor(color int) string {
	return fmt.Sprintf("#%06X", color&0xFFFFFF)
}

// BuildMessage converts a composed embed into a Slack webhook message.
func BuildMessage(embed model.Embed) *slackapi.WebhookMessage {
	fields := make([]slackapi.AttachmentField, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		fields = append(fields, slackapi.AttachmentField{
			Title: f.Name,
			Value: toMrkdwn(f.Value),
			Short: f.Inline,
		})
	}

	attachment := slackapi.Attachment{
		Color:      hexColor(embed.Color),
		Fallback:   embed.Title,
		Title:      embed.Title,
		TitleLink:  embed.URL,
		Fields:     fields,
		Footer:     embed.Footer.Text,
		FooterIcon: embed.Footer.IconURL,
		MarkdownIn: []string{"fields"},
	}
	if ts, err := time.Parse(model.TimestampLayout, embed.Timestamp); err == nil {
		attachment.Ts = json.Number(strconv.FormatInt(ts.Unix(), 10))
	}

	return &slackapi.WebhookMessage{
		Text:        embed.Title,
		Attachments: []slackapi.Attachment{attachment},
	}
}
