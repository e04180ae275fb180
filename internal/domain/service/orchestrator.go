package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/inbound"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
)

// ErrNoConclusion is returned when a triggering workflow_run event has no conclusion yet.
var ErrNoConclusion = errors.New("workflow_run event has no conclusion")

// Request carries the per-invocation configuration.
type Request struct {
	Webhook string
	// Language is a locale code; empty or unregistered codes fall back to English.
	Language string
	// StatusOverride takes precedence over any derived status when non-empty.
	StatusOverride string
}

// Prepared is a composed notification that has not been delivered yet.
type Prepared struct {
	RunContext model.RunContext
	Status     model.Status
	Locale     model.Locale
	Embed      model.Embed
}

// Result is the outcome of one invocation. Err is nil only when the notification
// was delivered.
type Result struct {
	Prepared
	Attempted bool
	Delivered bool
	Err       error
}

// OK reports whether the notification was delivered.
func (r Result) OK() bool { return r.Delivered && r.Err == nil }

// Report maps the result onto the CI platform's outcome signals.
func (r Result) Report(rep outbound.Reporter) {
	switch {
	case r.OK():
		rep.Info("Notification sent successfully")
	case r.Attempted:
		rep.Error(fmt.Sprintf("Error sending notification: %v", r.Err))
		rep.SetFailed(fmt.Sprintf("Failed to send notification: %v", r.Err))
	default:
		rep.SetFailed(fmt.Sprintf("Action failed with error: %v", r.Err))
	}
}

// Orchestrator resolves the run status, composes the embed and hands it to the deliverer.
type Orchestrator struct {
	composer  *Composer
	source    inbound.RunContextSource
	deliverer outbound.Deliverer
	history   outbound.DeliveryRepository
	logger    *slog.Logger
}

// NewOrchestrator creates an Orchestrator. history may be nil.
func NewOrchestrator(
	composer *Composer,
	source inbound.RunContextSource,
	deliverer outbound.Deliverer,
	history outbound.DeliveryRepository,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		composer:  composer,
		source:    source,
		deliverer: deliverer,
		history:   history,
		logger:    logger,
	}
}

// ResolveStatus applies the precedence override > workflow_run conclusion > success.
func ResolveStatus(override string, rc model.RunContext) (model.Status, error) {
	if override != "" {
		return model.ParseStatus(override), nil
	}
	if rc.WorkflowRun != nil {
		if rc.WorkflowRun.Conclusion == "" {
			return model.Status{}, ErrNoConclusion
		}
		return model.ParseStatus(rc.WorkflowRun.Conclusion), nil
	}
	return model.ParseStatus(model.DefaultStatus), nil
}

// Prepare reads the run context and composes the embed without delivering it.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (Prepared, error) {
	rc, err := o.source.RunContext(ctx)
	if err != nil {
		return Prepared{}, fmt.Errorf("read run context: %w", err)
	}
	if err := rc.Validate(); err != nil {
		return Prepared{}, err
	}

	status, err := ResolveStatus(req.StatusOverride, rc)
	if err != nil {
		return Prepared{}, err
	}

	locale, registered := o.composer.Catalog().Resolve(req.Language)
	if !registered && req.Language != "" {
		o.logger.Debug("language not registered, using default",
			"language", req.Language,
			"default", locale,
		)
	}

	return Prepared{
		RunContext: rc,
		Status:     status,
		Locale:     locale,
		Embed:      o.composer.Compose(rc, status, req.Language),
	}, nil
}

// Dispatch runs one invocation end to end. It never panics on delivery failure;
// the outcome is returned as a Result.
func (o *Orchestrator) Dispatch(ctx context.Context, req Request) Result {
	// 1. Compose.
	prepared, err := o.Prepare(ctx, req)
	if err != nil {
		o.logger.Error("failed to prepare notification", "error", err)
		return Result{Err: err}
	}

	o.logger.Info("dispatching notification",
		"workflow", prepared.RunContext.WorkflowName,
		"runID", prepared.RunContext.RunID,
		"status", prepared.Status.Raw,
		"locale", prepared.Locale,
		"format", o.deliverer.Format(),
	)

	// 2. Deliver. A single attempt; failure is terminal.
	deliverErr := o.deliverer.Deliver(ctx, req.Webhook, prepared.Embed)
	if deliverErr != nil {
		o.logger.Error("notification delivery failed", "error", deliverErr)
	}

	// 3. Record history. Failures here never change the outcome.
	o.record(ctx, prepared, deliverErr)

	return Result{
		Prepared:  prepared,
		Attempted: true,
		Delivered: deliverErr == nil,
		Err:       deliverErr,
	}
}

func (o *Orchestrator) record(ctx context.Context, p Prepared, deliverErr error) {
	if o.history == nil {
		return
	}
	rec := model.NewDeliveryRecord(p.RunContext, p.Status, p.Locale, o.deliverer.Format()).
		WithOutcome(deliverErr)
	if err := o.history.Record(ctx, rec); err != nil {
		o.logger.Warn("failed to record delivery history", "error", err, "deliveryID", rec.ID)
	}
}
