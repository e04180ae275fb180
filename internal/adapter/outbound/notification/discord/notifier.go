// Package discord implements outbound.Deliverer for Discord webhooks.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
	"github.com/jonny/ci-notify/pkg/apierror"
	"github.com/jonny/ci-notify/pkg/version"
)

const (
	providerName = "discord"
	maxErrorBody = 2048
)

// Config holds Discord notifier configuration.
type Config struct {
	HTTPClient *http.Client
}

// Notifier posts embeds to a Discord incoming webhook.
type Notifier struct {
	httpClient *http.Client
}

var _ outbound.Deliverer = (*Notifier)(nil)

// NewNotifier creates a Discord Notifier.
func NewNotifier(cfg Config) *Notifier {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Notifier{httpClient: client}
}

func (n *Notifier) Format() model.Format { return model.FormatDiscord }

// Deliver POSTs {"embeds":[embed]} to webhookURL. Any non-2xx response is an *apierror.Error.
func (n *Notifier) Deliver(ctx context.Context, webhookURL string, embed model.Embed) error {
	if webhookURL == "" {
		return outbound.ErrNotConfigured
	}

	body, err := json.Marshal(model.NewWebhookPayload(embed))
	if err != nil {
		return fmt.Errorf("discord marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return apierror.SendError(providerName, webhookURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := n.httpClient.Do(req) //nolint:gosec // webhook URL from trusted workflow input
	if err != nil {
		return apierror.SendError(providerName, webhookURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Discord answers 204 unless ?wait=true is set.
	if !apierror.IsSuccess(resp.StatusCode) {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apierror.FromResponse(providerName, resp.StatusCode, respBody)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
