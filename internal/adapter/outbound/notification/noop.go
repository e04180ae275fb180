package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
)

// NoopNotifier logs notifications instead of sending them. Used for dry runs.
type NoopNotifier struct {
	format model.Format
	logger *slog.Logger
}

var _ outbound.Deliverer = (*NoopNotifier)(nil)

// NewNoopNotifier creates a new NoopNotifier reporting the given format.
func NewNoopNotifier(format model.Format, logger *slog.Logger) *NoopNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopNotifier{format: format, logger: logger}
}

func (n *NoopNotifier) Format() model.Format { return n.format }

func (n *NoopNotifier) Deliver(_ context.Context, webhookURL string, embed model.Embed) error {
	body, err := Payload(n.format, embed)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	n.logger.Info("noop: notification",
		"webhookConfigured", webhookURL != "",
		"title", embed.Title,
		"payload", string(payload),
	)
	return nil
}
