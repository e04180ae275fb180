package outbound

import (
	"context"
	"errors"

	"github.com/jonny/ci-notify/internal/domain/model"
)

// Deliverer posts a composed embed to a chat webhook. A non-nil error means the
// notification was not accepted; it carries the transport or HTTP failure.
type Deliverer interface {
	Format() model.Format
	Deliver(ctx context.Context, webhookURL string, embed model.Embed) error
}

// ErrNotConfigured is returned by a Deliverer when no webhook URL was supplied.
var ErrNotConfigured = errors.New("notifier: webhook URL not configured")
