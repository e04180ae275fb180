package model

import "strings"

// StatusKind classifies a run status. StatusOther carries any value outside the known set.
type StatusKind int

const (
	StatusOther StatusKind = iota
	StatusSuccess
	StatusFailure
	StatusCancelled
	StatusSkipped
)

// Embed colors, RGB packed into an int as Discord expects.
const (
	ColorSuccess   = 3066993
	ColorFailure   = 15158332
	ColorCancelled = 16763904
	ColorSkipped   = 4886754
	ColorNeutral   = 3447003
)

// DefaultStatus is used when neither an override nor a triggering workflow_run supplies one.
const DefaultStatus = "success"

var statusKinds = map[string]StatusKind{
	"success":   StatusSuccess,
	"failure":   StatusFailure,
	"cancelled": StatusCancelled,
	"skipped":   StatusSkipped,
}

// Status is a run outcome as reported by the CI platform. Raw is kept verbatim so
// unknown values can be displayed untranslated.
type Status struct {
	Kind StatusKind
	Raw  string
}

// ParseStatus classifies raw case-insensitively. It never fails.
func ParseStatus(raw string) Status {
	kind, ok := statusKinds[strings.ToLower(raw)]
	if !ok {
		kind = StatusOther
	}
	return Status{Kind: kind, Raw: raw}
}

// Known reports whether the status is one of success, failure, cancelled or skipped.
func (s Status) Known() bool {
	return s.Kind != StatusOther
}

// Key returns the normalized lookup key, or "" for unknown statuses.
func (s Status) Key() string {
	switch s.Kind {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusCancelled:
		return "cancelled"
	case StatusSkipped:
		return "skipped"
	default:
		return ""
	}
}

// Color returns the embed color for the status.
func (s Status) Color() int {
	switch s.Kind {
	case StatusSuccess:
		return ColorSuccess
	case StatusFailure:
		return ColorFailure
	case StatusCancelled:
		return ColorCancelled
	case StatusSkipped:
		return ColorSkipped
	default:
		return ColorNeutral
	}
}

// Emoji returns the title glyph for the status, empty for unknown statuses.
func (s Status) Emoji() string {
	switch s.Kind {
	case StatusSuccess:
		return "✅"
	case StatusFailure:
		return "❌"
	case StatusCancelled:
		return "⚠️"
	case StatusSkipped:
		return "⏭️"
	default:
		return ""
	}
}

func (s Status) String() string { return s.Raw }

// ColorFor is the string form of Status.Color.
func ColorFor(status string) int {
	return ParseStatus(status).Color()
}

// EmojiFor is the string form of Status.Emoji.
func EmojiFor(status string) string {
	return ParseStatus(status).Emoji()
}
