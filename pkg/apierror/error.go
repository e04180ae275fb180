package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Error is a webhook endpoint rejecting a request with a non-2xx status.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func WithDetail(code int, message, detail string) *Error {
	return &Error{Code: code, Message: message, Detail: detail}
}

// FromResponse builds an Error from a rejected webhook response. body is trimmed.
func FromResponse(provider string, code int, body []byte) *Error {
	msg := fmt.Sprintf("%s webhook returned %s", provider, statusText(code))
	return WithDetail(code, msg, strings.TrimSpace(string(body)))
}

// IsSuccess reports whether code is in the 2xx range.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an *Error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}

// SendError wraps a transport failure without the request URL, which carries the
// webhook token. Only the host of webhookURL is kept.
func SendError(provider, webhookURL string, err error) error {
	host := redactedHost(webhookURL)

	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s send: %s %s: %w", provider, ue.Op, host, ue.Err)
	}
	msg := err.Error()
	if webhookURL != "" && strings.Contains(msg, webhookURL) {
		return fmt.Errorf("%s send: %s", provider, strings.ReplaceAll(msg, webhookURL, host))
	}
	return fmt.Errorf("%s send: %w", provider, err)
}

func redactedHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<webhook>"
	}
	return u.Scheme + "://" + u.Host
}
