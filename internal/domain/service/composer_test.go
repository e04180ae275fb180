package service_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/service"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func scenarioContext() model.RunContext {
	return model.RunContext{
		WorkflowName: "CI",
		Ref:          "refs/heads/main",
		CommitSHA:    "abcdef1234567890",
		Actor:        "alice",
		ServerURL:    "https://github.com",
		RepoOwner:    "acme",
		RepoName:     "widget",
		RunID:        "42",
	}
}

func TestCompose_ScenarioSuccessEnglish(t *testing.T) {
	c := service.NewComposer(nil, fixedClock)
	e := c.Compose(scenarioContext(), model.ParseStatus("success"), "en")

	if !strings.HasPrefix(e.Title, "✅ CI - Success") {
		t.Errorf("title = %q", e.Title)
	}
	if e.Color != 3066993 {
		t.Errorf("color = %d", e.Color)
	}
	if e.URL != "https://github.com/acme/widget/actions/runs/42" {
		t.Errorf("url = %q", e.URL)
	}
	if len(e.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(e.Fields))
	}
	if e.Fields[0].Name != "Repository" {
		t.Errorf("fields[0].name = %q", e.Fields[0].Name)
	}
	if e.Fields[0].Value != "[acme/widget](https://github.com/acme/widget)" {
		t.Errorf("fields[0].value = %q", e.Fields[0].Value)
	}
	if e.Fields[1].Name != "Branch" || e.Fields[1].Value != "main" {
		t.Errorf("fields[1] = %+v", e.Fields[1])
	}
	if e.Fields[2].Name != "Commit" || !strings.Contains(e.Fields[2].Value, "`abcdef1`") {
		t.Errorf("fields[2] = %+v", e.Fields[2])
	}
	if !strings.Contains(e.Fields[2].Value, "https://github.com/acme/widget/commit/abcdef1234567890") {
		t.Errorf("commit link should use full sha, got %q", e.Fields[2].Value)
	}
	for i, f := range e.Fields {
		if !f.Inline {
			t.Errorf("fields[%d] should be inline", i)
		}
	}
	if e.Timestamp != "2024-05-01T12:30:45.000Z" {
		t.Errorf("timestamp = %q", e.Timestamp)
	}
	if e.Footer.Text != "GitHub Actions" || e.Footer.IconURL != model.FooterIconURL {
		t.Errorf("footer = %+v", e.Footer)
	}
}

func TestCompose_ScenarioFailureKorean(t *testing.T) {
	c := service.NewComposer(nil, fixedClock)
	e := c.Compose(scenarioContext(), model.ParseStatus("failure"), "ko")

	if !strings.HasPrefix(e.Title, "❌ CI - 실패") {
		t.Errorf("title = %q", e.Title)
	}
	if e.Color != 15158332 {
		t.Errorf("color = %d", e.Color)
	}
	if e.Fields[0].Name != "저장소" || e.Fields[3].Name != "트리거" {
		t.Errorf("expected korean field names, got %q / %q", e.Fields[0].Name, e.Fields[3].Name)
	}
}

func TestCompose_ScenarioUnknownStatus(t *testing.T) {
	c := service.NewComposer(nil, fixedClock)
	e := c.Compose(scenarioContext(), model.ParseStatus("weird_custom_status"), "en")

	if e.Title != " CI - weird_custom_status" {
		t.Errorf("title = %q", e.Title)
	}
	if e.Color != model.ColorNeutral {
		t.Errorf("color = %d, want neutral", e.Color)
	}
}

func TestCompose_FieldLabelNamesAreNotStatuses(t *testing.T) {
	c := service.NewComposer(nil, fixedClock)
	for _, raw := range []string{"branch", "Repository", "triggeredBy"} {
		e := c.Compose(scenarioContext(), model.ParseStatus(raw), "en")
		if e.Title != " CI - "+raw {
			t.Errorf("status %q: title = %q, want it shown verbatim", raw, e.Title)
		}
	}
}

func TestCompose_StatusCaseInsensitive(t *testing.T) {
	c := service.NewComposer(nil, fixedClock)
	e := c.Compose(scenarioContext(), model.ParseStatus("CANCELLED"), "ja")
	if e.Title != "⚠️ CI - キャンセル" {
		t.Errorf("title = %q", e.Title)
	}
	if e.Color != model.ColorCancelled {
		t.Errorf("color = %d", e.Color)
	}
}

func TestCompose_UnknownLocaleFallsBack(t *testing.T) {
	c := service.NewComposer(nil, fixedClock)
	got := c.Compose(scenarioContext(), model.ParseStatus("skipped"), "fr")
	want := c.Compose(scenarioContext(), model.ParseStatus("skipped"), "en")

	if got.Title != want.Title {
		t.Errorf("title = %q, want %q", got.Title, want.Title)
	}
	if got.Fields[0].Name != "Repository" {
		t.Errorf("expected english labels, got %q", got.Fields[0].Name)
	}
}

func TestCompose_ActorAbsent(t *testing.T) {
	rc := scenarioContext()
	rc.Actor = ""

	e := service.NewComposer(nil, fixedClock).Compose(rc, model.ParseStatus("success"), "en")
	if len(e.Fields) != 3 {
		t.Fatalf("expected 3 fields without actor, got %d", len(e.Fields))
	}
}

func TestCompose_ActorPresent(t *testing.T) {
	rc := scenarioContext()
	rc.Actor = "octocat"

	e := service.NewComposer(nil, fixedClock).Compose(rc, model.ParseStatus("success"), "en")
	if len(e.Fields) != 4 {
		t.Fatalf("expected 4 fields with actor, got %d", len(e.Fields))
	}
	last := e.Fields[3]
	if last.Name != "Triggered by" {
		t.Errorf("name = %q", last.Name)
	}
	if last.Value != "[@octocat](https://github.com/octocat)" {
		t.Errorf("value = %q", last.Value)
	}
}

func TestCompose_RefWithoutBranchPrefix(t *testing.T) {
	rc := scenarioContext()
	rc.Ref = "refs/tags/v1.2.3"

	e := service.NewComposer(nil, fixedClock).Compose(rc, model.ParseStatus("success"), "en")
	if e.Fields[1].Value != "refs/tags/v1.2.3" {
		t.Errorf("branch = %q", e.Fields[1].Value)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	c := service.NewComposer(nil, fixedClock)
	a, err := json.Marshal(c.Compose(scenarioContext(), model.ParseStatus("failure"), "ja"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(c.Compose(scenarioContext(), model.ParseStatus("failure"), "ja"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("compose not deterministic:\n%s\n%s", a, b)
	}
}

func TestCompose_WireShape(t *testing.T) {
	e := service.NewComposer(nil, fixedClock).Compose(scenarioContext(), model.ParseStatus("success"), "en")
	data, err := json.Marshal(model.NewWebhookPayload(e))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string][]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	embeds := decoded["embeds"]
	if len(embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(embeds))
	}
	for _, key := range []string{"color", "title", "url", "fields", "timestamp", "footer"} {
		if _, ok := embeds[0][key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	footer, ok := embeds[0]["footer"].(map[string]any)
	if !ok {
		t.Fatalf("footer has unexpected type %T", embeds[0]["footer"])
	}
	if _, ok := footer["icon_url"]; !ok {
		t.Errorf("footer missing icon_url: %v", footer)
	}
}
