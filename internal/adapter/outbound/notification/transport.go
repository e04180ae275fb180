package notification

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport logs each outgoing webhook request with method, host, status
// code, and elapsed duration. The path is never logged because webhook URLs
// embed their credentials there.
type LoggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport wraps next, or http.DefaultTransport when next is nil.
func NewLoggingTransport(next http.RoundTripper, logger *slog.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingTransport{next: next, logger: logger}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		t.logger.Debug("webhook request failed",
			"method", req.Method,
			"host", req.URL.Host,
			"duration", elapsed,
			"error", err,
		)
		return nil, err
	}

	t.logger.Debug("webhook request",
		"method", req.Method,
		"host", req.URL.Host,
		"status", resp.StatusCode,
		"duration", elapsed,
	)
	return resp, nil
}
