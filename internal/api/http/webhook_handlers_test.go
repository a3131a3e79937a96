package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trackspace/github-sync-service/internal/service"
	"github.com/trackspace/github-sync-service/internal/service/mocks"
)

const testSecret = "test-webhook-secret"

func newTestRouter(projects *mocks.MockProjectRepository, issues *mocks.MockIssueRepository) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	webhookService := service.NewWebhookService(projects, issues, &mocks.MockUserRepository{}, nil, logger)
	projectService := service.NewProjectService(projects, issues)
	app := service.NewApp(webhookService, projectService)

	return NewRouter(NewServer(app, testSecret, logger), logger)
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func webhookRequest(t *testing.T, eventType string, body []byte, signature string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "delivery-123")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	return req
}

func TestGitHubWebhook_MissingSignatureIsRejected(t *testing.T) {
	projects := &mocks.MockProjectRepository{}
	router := newTestRouter(projects, &mocks.MockIssueRepository{})

	body := []byte(`{"action":"opened","repository":{"full_name":"acme/tracker"}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, webhookRequest(t, "issues", body, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if projects.Calls() != 0 {
		t.Errorf("reconciler must not run for an unsigned request, project lookups: %d", projects.Calls())
	}
}

func TestGitHubWebhook_InvalidSignatureIsRejected(t *testing.T) {
	projects := &mocks.MockProjectRepository{}
	router := newTestRouter(projects, &mocks.MockIssueRepository{})

	body := []byte(`{"action":"opened","repository":{"full_name":"acme/tracker"}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, webhookRequest(t, "issues", body, signBody("wrong-secret", body)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if projects.Calls() != 0 {
		t.Errorf("reconciler must not run for a badly signed request, project lookups: %d", projects.Calls())
	}
}

func TestGitHubWebhook_ValidSignatureIsProcessed(t *testing.T) {
	projects := &mocks.MockProjectRepository{}
	router := newTestRouter(projects, &mocks.MockIssueRepository{})

	body := []byte(`{"action":"opened","repository":{"full_name":"acme/unlinked"},"issue":{"number":42,"title":"Broken","state":"open"}}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, webhookRequest(t, "issues", body, signBody(testSecret, body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if projects.Calls() != 1 {
		t.Errorf("expected one project lookup, got %d", projects.Calls())
	}

	var resp webhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.EventType != "issues" {
		t.Errorf("expected event_type issues, got %q", resp.EventType)
	}
	if resp.DeliveryID != "delivery-123" {
		t.Errorf("expected delivery id from header, got %q", resp.DeliveryID)
	}
	if resp.ProcessingResult.Status != "skipped" || resp.ProcessingResult.Reason != "no linked project found" {
		t.Errorf("unexpected processing result: %+v", resp.ProcessingResult)
	}
}

func TestGitHubWebhook_UnknownEventTypeIsSkippedNotRejected(t *testing.T) {
	projects := &mocks.MockProjectRepository{}
	router := newTestRouter(projects, &mocks.MockIssueRepository{})

	body := []byte(`{"zen":"Keep it logically awesome."}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, webhookRequest(t, "ping", body, signBody(testSecret, body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp webhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.ProcessingResult.Status != "skipped" {
		t.Errorf("expected skipped outcome, got %+v", resp.ProcessingResult)
	}
}
