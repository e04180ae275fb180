package service

import (
	"fmt"
	"time"

	"github.com/jonny/ci-notify/internal/domain/model"
)

// Composer builds notification embeds from a run context.
type Composer struct {
	catalog *model.Catalog
	now     func() time.Time
}

// NewComposer creates a Composer. A nil catalog uses the built-in one and a nil
// clock uses time.Now.
func NewComposer(catalog *model.Catalog, now func() time.Time) *Composer {
	if catalog == nil {
		catalog = model.DefaultCatalog()
	}
	if now == nil {
		now = time.Now
	}
	return &Composer{catalog: catalog, now: now}
}

// Catalog returns the catalog labels are resolved from.
func (c *Composer) Catalog() *model.Catalog { return c.catalog }

// Compose renders rc and status using the labels for locale. Unregistered locales
// fall back to the default; unknown statuses are shown verbatim.
func (c *Composer) Compose(rc model.RunContext, status model.Status, locale string) model.Embed {
	labels := c.catalog.LabelsFor(locale)

	displayStatus, ok := labels.StatusLabel(status)
	if !ok {
		displayStatus = status.Raw
	}

	fields := []model.EmbedField{
		{
			Name:   labels.Repository,
			Value:  fmt.Sprintf("[%s](%s)", rc.Repository(), rc.RepoURL()),
			Inline: true,
		},
		{
			Name:   labels.Branch,
			Value:  rc.Branch(),
			Inline: true,
		},
		{
			Name:   labels.Commit,
			Value:  fmt.Sprintf("[`%s`](%s)", rc.ShortSHA(), rc.CommitURL()),
			Inline: true,
		},
	}
	if rc.Actor != "" {
		fields = append(fields, model.EmbedField{
			Name:   labels.TriggeredBy,
			Value:  fmt.Sprintf("[@%s](%s)", rc.Actor, rc.ActorURL()),
			Inline: true,
		})
	}

	return model.Embed{
		Color:     status.Color(),
		Title:     fmt.Sprintf("%s %s - %s", status.Emoji(), rc.WorkflowName, displayStatus),
		URL:       rc.RunURL(),
		Fields:    fields,
		Timestamp: model.FormatTimestamp(c.now()),
		Footer: model.EmbedFooter{
			Text:    model.FooterText,
			IconURL: model.FooterIconURL,
		},
	}
}
