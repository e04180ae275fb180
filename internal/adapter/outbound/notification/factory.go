package notification

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonny/ci-notify/internal/adapter/outbound/notification/discord"
	"github.com/jonny/ci-notify/internal/adapter/outbound/notification/slack"
	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
)

// Config selects and configures a Deliverer.
type Config struct {
	Format  model.Format
	Timeout time.Duration
	DryRun  bool
}

// New returns the Deliverer for cfg.Format, or a NoopNotifier when DryRun is set.
func New(cfg Config, logger *slog.Logger) (outbound.Deliverer, error) {
	format := cfg.Format
	if format == "" {
		format = model.FormatDiscord
	}

	if cfg.DryRun {
		return NewNoopNotifier(format, logger), nil
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: NewLoggingTransport(nil, logger),
	}

	switch format {
	case model.FormatDiscord:
		return discord.NewNotifier(discord.Config{HTTPClient: client}), nil
	case model.FormatSlack:
		return slack.NewNotifier(slack.Config{HTTPClient: client}), nil
	default:
		return nil, fmt.Errorf("notification: unknown format %q", format)
	}
}

// Payload returns the body the Deliverer for format would send for embed.
func Payload(format model.Format, embed model.Embed) (any, error) {
	switch format {
	case model.FormatDiscord, "":
		return model.NewWebhookPayload(embed), nil
	case model.FormatSlack:
		return slack.BuildMessage(embed), nil
	default:
		return nil, fmt.Errorf("notification: unknown format %q", format)
	}
}
