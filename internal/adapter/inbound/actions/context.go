// Package actions adapts the GitHub Actions runner environment: the run context,
// the triggering event payload, and workflow commands written to stdout.
package actions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/inbound"
)

const defaultServerURL = "https://github.com"

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// eventPayload is the subset of the webhook event JSON at GITHUB_EVENT_PATH that is read.
type eventPayload struct {
	WorkflowRun *struct {
		Conclusion *string `json:"conclusion"`
	} `json:"workflow_run"`
	Repository *struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// EnvSource reads the run context from GITHUB_* environment variables.
type EnvSource struct {
	lookup LookupFunc
	logger *slog.Logger
}

var _ inbound.RunContextSource = (*EnvSource)(nil)

// NewEnvSource creates an EnvSource. A nil lookup uses os.LookupEnv.
func NewEnvSource(lookup LookupFunc, logger *slog.Logger) *EnvSource {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EnvSource{lookup: lookup, logger: logger}
}

func (s *EnvSource) get(key string) string {
	v, _ := s.lookup(key)
	return v
}

// RunContext implements inbound.RunContextSource.
func (s *EnvSource) RunContext(_ context.Context) (model.RunContext, error) {
	payload, err := s.readEvent()
	if err != nil {
		return model.RunContext{}, err
	}

	serverURL := strings.TrimSuffix(s.get("GITHUB_SERVER_URL"), "/")
	if serverURL == "" {
		serverURL = defaultServerURL
	}

	rc := model.RunContext{
		WorkflowName: s.get("GITHUB_WORKFLOW"),
		Ref:          s.get("GITHUB_REF"),
		CommitSHA:    s.get("GITHUB_SHA"),
		Actor:        s.get("GITHUB_ACTOR"),
		ServerURL:    serverURL,
		RunID:        s.get("GITHUB_RUN_ID"),
		EventName:    s.get("GITHUB_EVENT_NAME"),
	}

	owner, name, err := s.repository(payload)
	if err != nil {
		return model.RunContext{}, err
	}
	rc.RepoOwner, rc.RepoName = owner, name

	if payload.WorkflowRun != nil {
		run := &model.WorkflowRun{}
		if payload.WorkflowRun.Conclusion != nil {
			run.Conclusion = *payload.WorkflowRun.Conclusion
		}
		rc.WorkflowRun = run
	}
	return rc, nil
}

// repository resolves owner/name from GITHUB_REPOSITORY, falling back to the event payload.
func (s *EnvSource) repository(payload eventPayload) (string, string, error) {
	if full := s.get("GITHUB_REPOSITORY"); full != "" {
		owner, name, ok := strings.Cut(full, "/")
		if !ok || owner == "" || name == "" {
			return "", "", fmt.Errorf("GITHUB_REPOSITORY must look like 'owner/repo', got %q", full)
		}
		return owner, name, nil
	}
	if payload.Repository != nil && payload.Repository.Owner.Login != "" && payload.Repository.Name != "" {
		return payload.Repository.Owner.Login, payload.Repository.Name, nil
	}
	return "", "", errors.New("run context requires a GITHUB_REPOSITORY environment variable like 'owner/repo'")
}

// readEvent decodes the event payload. A missing file yields an empty payload.
func (s *EnvSource) readEvent() (eventPayload, error) {
	var payload eventPayload
	path := s.get("GITHUB_EVENT_PATH")
	if path == "" {
		return payload, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("event payload file does not exist", "path", path)
		return payload, nil
	}
	if err != nil {
		return payload, fmt.Errorf("reading event payload: %w", err)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("decoding event payload %s: %w", path, err)
	}
	return payload, nil
}
