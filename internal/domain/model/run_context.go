package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingField is returned by RunContext.Validate when a required field is empty.
var ErrMissingField = errors.New("run context: missing required field")

const (
	branchRefPrefix = "refs/heads/"
	shortSHALength  = 7
	profileBaseURL  = "https://github.com/"
)

// WorkflowRun is the subset of a triggering workflow_run event that affects the status.
type WorkflowRun struct {
	Conclusion string `json:"conclusion"`
}

// RunContext describes the CI run being reported. Actor and WorkflowRun are optional.
type RunContext struct {
	WorkflowName string       `json:"workflow"`
	Ref          string       `json:"ref"`
	CommitSHA    string       `json:"sha"`
	Actor        string       `json:"actor"`
	ServerURL    string       `json:"server_url"`
	RepoOwner    string       `json:"repo_owner"`
	RepoName     string       `json:"repo_name"`
	RunID        string       `json:"run_id"`
	EventName    string       `json:"event_name"`
	WorkflowRun  *WorkflowRun `json:"workflow_run,omitempty"`
}

// Validate reports every empty required field.
func (rc RunContext) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"workflow", rc.WorkflowName},
		{"ref", rc.Ref},
		{"sha", rc.CommitSHA},
		{"serverUrl", rc.ServerURL},
		{"repoOwner", rc.RepoOwner},
		{"repoName", rc.RepoName},
		{"runId", rc.RunID},
	}
	var missing []string
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Repository returns "owner/name".
func (rc RunContext) Repository() string {
	return rc.RepoOwner + "/" + rc.RepoName
}

func (rc RunContext) RepoURL() string {
	return rc.ServerURL + "/" + rc.RepoOwner + "/" + rc.RepoName
}

func (rc RunContext) RunURL() string {
	return rc.RepoURL() + "/actions/runs/" + rc.RunID
}

func (rc RunContext) CommitURL() string {
	return rc.RepoURL() + "/commit/" + rc.CommitSHA
}

// Branch strips a leading refs/heads/ from Ref. Other refs pass through unchanged.
func (rc RunContext) Branch() string {
	return strings.TrimPrefix(rc.Ref, branchRefPrefix)
}

// ShortSHA returns the first seven characters of the commit SHA.
func (rc RunContext) ShortSHA() string {
	if len(rc.CommitSHA) <= shortSHALength {
		return rc.CommitSHA
	}
	return rc.CommitSHA[:shortSHALength]
}

// ActorURL returns the actor's profile link, or "" when no actor is set.
func (rc RunContext) ActorURL() string {
	if rc.Actor == "" {
		return ""
	}
	return profileBaseURL + rc.Actor
}
