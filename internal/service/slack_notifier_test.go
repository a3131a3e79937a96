package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/trackspace/github-sync-service/internal/domain"
)

func boolPtr(v bool) *bool {
	return &v
}

func slackProject(url string, flags domain.SlackNotificationFlags) *domain.Project {
	return &domain.Project{
		ID:   10,
		Name: "Tracker",
		Data: domain.ProjectData{
			GitHubRepo: "acme/tracker",
			Slack: &domain.SlackSettings{
				WebhookURL:    url,
				Channel:       "#eng",
				Notifications: flags,
			},
		},
	}
}

func syncedIssue() *domain.Issue {
	return &domain.Issue{
		ID:       77,
		Name:     "GitHub Issue #42: Crash on save",
		Status:   domain.IssueStatusInProgress,
		Type:     domain.IssueTypeBug,
		Priority: domain.PriorityHigh,
	}
}

func TestSlackNotifier_IssueCreated(t *testing.T) {
	var (
		mu   sync.Mutex
		body []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		body = b
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	notifier := NewSlackNotifier(srv.Client())
	project := slackProject(srv.URL, domain.SlackNotificationFlags{IssueCreated: boolPtr(true)})

	if err := notifier.IssueCreated(context.Background(), project, syncedIssue()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	posted := body
	mu.Unlock()
	if posted == nil {
		t.Fatal("expected a message to be posted")
	}

	var msg slackMessage
	if err := json.Unmarshal(posted, &msg); err != nil {
		t.Fatalf("posted body is not valid JSON: %v", err)
	}
	if msg.Channel != "#eng" {
		t.Errorf("expected channel #eng, got %q", msg.Channel)
	}
	if len(msg.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(msg.Blocks))
	}
	if msg.Blocks[0].Type != "header" || !strings.Contains(msg.Blocks[0].Text.Text, "New Issue Created") {
		t.Errorf("unexpected header block: %+v", msg.Blocks[0])
	}
	fields := msg.Blocks[1].Fields
	if len(fields) != 4 {
		t.Fatalf("expected 4 section fields, got %d", len(fields))
	}
	if !strings.Contains(fields[1].Text, "In Progress") {
		t.Errorf("status field should render the enum for display, got %q", fields[1].Text)
	}
	if !strings.Contains(fields[2].Text, "High") {
		t.Errorf("priority field should render High, got %q", fields[2].Text)
	}
}

func TestSlackNotifier_DisabledFlagIsNoOp(t *testing.T) {
	var (
		mu       sync.Mutex
		requests int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
	}))
	defer srv.Close()

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return requests
	}

	notifier := NewSlackNotifier(srv.Client())
	project := slackProject(srv.URL, domain.SlackNotificationFlags{
		IssueCreated: boolPtr(false),
		IssueUpdated: boolPtr(true),
	})

	if err := notifier.IssueCreated(context.Background(), project, syncedIssue()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count() != 0 {
		t.Errorf("disabled event type must not post, got %d requests", count())
	}

	if err := notifier.IssueUpdated(context.Background(), project, syncedIssue()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count() != 1 {
		t.Errorf("enabled event type should post, got %d requests", count())
	}
}

func TestSlackNotifier_AbsentFlagsDefaultToEnabled(t *testing.T) {
	var (
		mu       sync.Mutex
		requests int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
	}))
	defer srv.Close()

	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return requests
	}

	// Settings the way a minimally configured project stores them: just a
	// webhook URL, no notifications block at all.
	var data domain.ProjectData
	raw := `{"slack":{"webhook_url":"` + srv.URL + `"}}`
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("unmarshal project data: %v", err)
	}
	project := &domain.Project{ID: 10, Name: "Tracker", Data: data}

	notifier := NewSlackNotifier(srv.Client())

	if err := notifier.IssueCreated(context.Background(), project, syncedIssue()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count() != 1 {
		t.Errorf("absent flags must count as enabled, got %d posts", count())
	}

	if err := notifier.IssueUpdated(context.Background(), project, syncedIssue()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count() != 2 {
		t.Errorf("absent updated flag must count as enabled, got %d posts", count())
	}
}

func TestSlackNotifier_MissingSettingsIsNoOp(t *testing.T) {
	notifier := NewSlackNotifier(nil)
	project := &domain.Project{ID: 10, Name: "Tracker"}

	if err := notifier.IssueCreated(context.Background(), project, syncedIssue()); err != nil {
		t.Errorf("project without slack settings must be a no-op, got %v", err)
	}
}

func TestSlackNotifier_NonOKResponseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusGone)
	}))
	defer srv.Close()

	notifier := NewSlackNotifier(srv.Client())
	project := slackProject(srv.URL, domain.SlackNotificationFlags{IssueCreated: boolPtr(true)})

	if err := notifier.IssueCreated(context.Background(), project, syncedIssue()); err == nil {
		t.Error("expected an error for a non-2xx response")
	}
}
