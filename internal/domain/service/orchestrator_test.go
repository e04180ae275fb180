package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/inbound"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
	"github.com/jonny/ci-notify/internal/domain/service"
)

// --- mocks ---

type mockSource struct {
	rc  model.RunContext
	err error
}

func (m *mockSource) RunContext(_ context.Context) (model.RunContext, error) {
	return m.rc, m.err
}

var _ inbound.RunContextSource = (*mockSource)(nil)

type mockDeliverer struct {
	calls   int
	webhook string
	embed   model.Embed
	err     error
}

func (m *mockDeliverer) Format() model.Format { return model.FormatDiscord }

func (m *mockDeliverer) Deliver(_ context.Context, webhookURL string, embed model.Embed) error {
	m.calls++
	m.webhook = webhookURL
	m.embed = embed
	return m.err
}

var _ outbound.Deliverer = (*mockDeliverer)(nil)

type mockHistory struct {
	records []model.DeliveryRecord
	err     error
}

func (m *mockHistory) Record(_ context.Context, rec model.DeliveryRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockHistory) List(_ context.Context, _ outbound.DeliveryFilter, _ outbound.PageRequest) (outbound.PageResult[model.DeliveryRecord], error) {
	return outbound.PageResult[model.DeliveryRecord]{Items: m.records}, nil
}

var _ outbound.DeliveryRepository = (*mockHistory)(nil)

type mockReporter struct {
	infos  []string
	errors []string
	failed []string
}

func (m *mockReporter) Info(msg string)      { m.infos = append(m.infos, msg) }
func (m *mockReporter) Error(msg string)     { m.errors = append(m.errors, msg) }
func (m *mockReporter) SetFailed(msg string) { m.failed = append(m.failed, msg) }
func (m *mockReporter) Failed() bool         { return len(m.failed) > 0 }

var _ outbound.Reporter = (*mockReporter)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(src *mockSource, d *mockDeliverer, h outbound.DeliveryRepository) *service.Orchestrator {
	return service.NewOrchestrator(service.NewComposer(nil, fixedClock), src, d, h, discardLogger())
}

// --- ResolveStatus ---

func TestResolveStatus_Precedence(t *testing.T) {
	withRun := scenarioContext()
	withRun.WorkflowRun = &model.WorkflowRun{Conclusion: "failure"}

	tests := []struct {
		name     string
		override string
		rc       model.RunContext
		want     string
	}{
		{"override wins over workflow_run", "cancelled", withRun, "cancelled"},
		{"workflow_run conclusion", "", withRun, "failure"},
		{"default success", "", scenarioContext(), "success"},
		{"override kept verbatim", "Timed_Out", scenarioContext(), "Timed_Out"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.ResolveStatus(tc.override, tc.rc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Raw != tc.want {
				t.Errorf("status = %q, want %q", got.Raw, tc.want)
			}
		})
	}
}

func TestResolveStatus_NoConclusion(t *testing.T) {
	rc := scenarioContext()
	rc.WorkflowRun = &model.WorkflowRun{}

	_, err := service.ResolveStatus("", rc)
	if !errors.Is(err, service.ErrNoConclusion) {
		t.Fatalf("expected ErrNoConclusion, got %v", err)
	}
}

// --- Dispatch ---

func TestDispatch_Success(t *testing.T) {
	src := &mockSource{rc: scenarioContext()}
	d := &mockDeliverer{}
	h := &mockHistory{}
	o := newTestOrchestrator(src, d, h)

	res := o.Dispatch(context.Background(), service.Request{
		Webhook:  "https://discord.test/webhook",
		Language: "ko",
	})

	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if d.calls != 1 {
		t.Errorf("expected single delivery, got %d", d.calls)
	}
	if d.webhook != "https://discord.test/webhook" {
		t.Errorf("webhook = %q", d.webhook)
	}
	if !strings.HasPrefix(d.embed.Title, "✅ CI - 성공") {
		t.Errorf("title = %q", d.embed.Title)
	}
	if res.Locale != model.LocaleKorean {
		t.Errorf("locale = %q", res.Locale)
	}
	if len(h.records) != 1 || !h.records[0].Delivered {
		t.Errorf("expected one delivered record, got %+v", h.records)
	}

	rep := &mockReporter{}
	res.Report(rep)
	if rep.Failed() || len(rep.infos) != 1 {
		t.Errorf("reporter = %+v", rep)
	}
}

func TestDispatch_DeliveryFailure(t *testing.T) {
	src := &mockSource{rc: scenarioContext()}
	d := &mockDeliverer{err: errors.New("dial tcp: connection refused")}
	h := &mockHistory{}
	o := newTestOrchestrator(src, d, h)

	res := o.Dispatch(context.Background(), service.Request{Webhook: "https://discord.test/webhook"})

	if res.OK() {
		t.Fatal("expected failure")
	}
	if !res.Attempted || res.Delivered {
		t.Errorf("attempted=%v delivered=%v", res.Attempted, res.Delivered)
	}
	if d.calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", d.calls)
	}
	if len(h.records) != 1 || h.records[0].Delivered || h.records[0].Error == "" {
		t.Errorf("expected failed record, got %+v", h.records)
	}

	rep := &mockReporter{}
	res.Report(rep)
	if !rep.Failed() {
		t.Fatal("expected failed invocation")
	}
	if len(rep.errors) != 1 || !strings.Contains(rep.errors[0], "connection refused") {
		t.Errorf("error signal = %v", rep.errors)
	}
	if !strings.Contains(rep.failed[0], "connection refused") {
		t.Errorf("failure reason should keep the original message, got %q", rep.failed[0])
	}
}

func TestDispatch_StatusFromWorkflowRun(t *testing.T) {
	rc := scenarioContext()
	rc.WorkflowRun = &model.WorkflowRun{Conclusion: "skipped"}
	d := &mockDeliverer{}
	o := newTestOrchestrator(&mockSource{rc: rc}, d, nil)

	res := o.Dispatch(context.Background(), service.Request{Webhook: "https://x.test"})
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if d.embed.Color != model.ColorSkipped {
		t.Errorf("color = %d", d.embed.Color)
	}
}

func TestDispatch_ContextErrorFailsBeforeDelivery(t *testing.T) {
	src := &mockSource{err: errors.New("GITHUB_REPOSITORY not set")}
	d := &mockDeliverer{}
	o := newTestOrchestrator(src, d, nil)

	res := o.Dispatch(context.Background(), service.Request{Webhook: "https://x.test"})
	if res.Err == nil || res.Attempted {
		t.Fatalf("expected pre-delivery failure, got %+v", res)
	}
	if d.calls != 0 {
		t.Error("deliverer must not be called")
	}

	rep := &mockReporter{}
	res.Report(rep)
	if len(rep.failed) != 1 || !strings.HasPrefix(rep.failed[0], "Action failed with error:") {
		t.Errorf("failed signal = %v", rep.failed)
	}
	if len(rep.errors) != 0 {
		t.Errorf("no delivery error expected, got %v", rep.errors)
	}
}

func TestDispatch_MalformedContext(t *testing.T) {
	rc := scenarioContext()
	rc.Ref = ""
	d := &mockDeliverer{}
	o := newTestOrchestrator(&mockSource{rc: rc}, d, nil)

	res := o.Dispatch(context.Background(), service.Request{Webhook: "https://x.test"})
	if !errors.Is(res.Err, model.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", res.Err)
	}
	if d.calls != 0 {
		t.Error("deliverer must not be called")
	}
}

func TestDispatch_HistoryFailureDoesNotChangeOutcome(t *testing.T) {
	h := &mockHistory{err: errors.New("disk full")}
	o := newTestOrchestrator(&mockSource{rc: scenarioContext()}, &mockDeliverer{}, h)

	res := o.Dispatch(context.Background(), service.Request{Webhook: "https://x.test"})
	if !res.OK() {
		t.Fatalf("history failure must not fail the invocation: %v", res.Err)
	}
}

func TestPrepare_DoesNotDeliver(t *testing.T) {
	d := &mockDeliverer{}
	o := newTestOrchestrator(&mockSource{rc: scenarioContext()}, d, nil)

	p, err := o.Prepare(context.Background(), service.Request{Language: "xx", StatusOverride: "failure"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.calls != 0 {
		t.Error("Prepare must not deliver")
	}
	if p.Locale != model.LocaleEnglish {
		t.Errorf("locale = %q", p.Locale)
	}
	if p.Embed.Title != "❌ CI - Failed" {
		t.Errorf("title = %q", p.Embed.Title)
	}
}
