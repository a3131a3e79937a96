package domain

import (
	"encoding/json"
	"fmt"
)

// EventKind is the webhook event type from the X-GitHub-Event header.
type EventKind string

const (
	EventKindPush        EventKind = "push"
	EventKindPullRequest EventKind = "pull_request"
	EventKindIssues      EventKind = "issues"
	EventKindRelease     EventKind = "release"
)

// RepositoryRef is the slice of the repository object every payload carries.
type RepositoryRef struct {
	FullName string `json:"full_name"`
}

type Account struct {
	Login string `json:"login"`
}

type Commit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type PushEvent struct {
	Repository RepositoryRef `json:"repository"`
	Commits    []Commit      `json:"commits"`
	Pusher     struct {
		Name string `json:"name"`
	} `json:"pusher"`
}

type PullRequestEvent struct {
	Action      string        `json:"action"`
	Repository  RepositoryRef `json:"repository"`
	PullRequest struct {
		Number  int     `json:"number"`
		Title   string  `json:"title"`
		Body    string  `json:"body"`
		HTMLURL string  `json:"html_url"`
		State   string  `json:"state"`
		Merged  bool    `json:"merged"`
		User    Account `json:"user"`
	} `json:"pull_request"`
}

type Label struct {
	Name string `json:"name"`
}

type IssuesEvent struct {
	Action     string        `json:"action"`
	Repository RepositoryRef `json:"repository"`
	Issue      struct {
		Number  int     `json:"number"`
		Title   string  `json:"title"`
		Body    string  `json:"body"`
		HTMLURL string  `json:"html_url"`
		State   string  `json:"state"`
		User    Account `json:"user"`
		Labels  []Label `json:"labels"`
	} `json:"issue"`
}

type ReleaseEvent struct {
	Action     string        `json:"action"`
	Repository RepositoryRef `json:"repository"`
}

// Event is a closed union over the webhook kinds the reconciler handles.
// Exactly one payload pointer is set for a known kind; for an unrecognized
// kind all of them are nil and Kind carries the raw header value.
type Event struct {
	Kind        EventKind
	Push        *PushEvent
	PullRequest *PullRequestEvent
	Issues      *IssuesEvent
	Release     *ReleaseEvent
}

// ParseEvent projects a raw webhook body into the typed payload for its
// kind. Unrecognized kinds parse successfully into an empty Event so the
// caller can skip them uniformly.
func ParseEvent(kind string, body []byte) (Event, error) {
	ev := Event{Kind: EventKind(kind)}

	switch ev.Kind {
	case EventKindPush:
		var p PushEvent
		if err := json.Unmarshal(body, &p); err != nil {
			return Event{}, fmt.Errorf("parse push payload: %w", err)
		}
		ev.Push = &p
	case EventKindPullRequest:
		var p PullRequestEvent
		if err := json.Unmarshal(body, &p); err != nil {
			return Event{}, fmt.Errorf("parse pull_request payload: %w", err)
		}
		ev.PullRequest = &p
	case EventKindIssues:
		var p IssuesEvent
		if err := json.Unmarshal(body, &p); err != nil {
			return Event{}, fmt.Errorf("parse issues payload: %w", err)
		}
		ev.Issues = &p
	case EventKindRelease:
		var p ReleaseEvent
		if err := json.Unmarshal(body, &p); err != nil {
			return Event{}, fmt.Errorf("parse release payload: %w", err)
		}
		ev.Release = &p
	}

	return ev, nil
}
