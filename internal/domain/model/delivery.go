package model

import (
	"time"

	"github.com/google/uuid"
)

// Format selects how an Embed is rendered on the wire.
type Format string

const (
	FormatDiscord Format = "discord"
	FormatSlack   Format = "slack"
)

// DeliveryRecord is one delivery attempt, kept in the optional history store.
type DeliveryRecord struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	Repository string    `json:"repository"`
	Workflow   string    `json:"workflow"`
	Status     string    `json:"status"`
	Locale     Locale    `json:"locale"`
	Format     Format    `json:"format"`
	Delivered  bool      `json:"delivered"`
	Error      string    `json:"error"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewDeliveryRecord creates a record for an attempt made for rc.
func NewDeliveryRecord(rc RunContext, status Status, locale Locale, format Format) DeliveryRecord {
	return DeliveryRecord{
		ID:         uuid.NewString(),
		RunID:      rc.RunID,
		Repository: rc.Repository(),
		Workflow:   rc.WorkflowName,
		Status:     status.Raw,
		Locale:     locale,
		Format:     format,
		CreatedAt:  time.Now().UTC(),
	}
}

// WithOutcome returns a copy marked delivered, or failed with err's message.
func (d DeliveryRecord) WithOutcome(err error) DeliveryRecord {
	if err != nil {
		d.Delivered = false
		d.Error = err.Error()
		return d
	}
	d.Delivered = true
	d.Error = ""
	return d
}
