package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trackspace/github-sync-service/internal/domain"
)

// defaultCreatorID attributes synced issues when the linked project has no
// recorded creator.
const defaultCreatorID int64 = 1

type WebhookProjectRepository interface {
	GetByRepo(ctx context.Context, repoFullName string) (*domain.Project, error)
}

type WebhookIssueRepository interface {
	GetByExternalRef(ctx context.Context, projectID int64, kind domain.ExternalKind, number int) (*domain.Issue, error)
	CreateExternal(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	Update(ctx context.Context, issueID int64, upd domain.IssueUpdate) (*domain.Issue, error)
}

type WebhookUserRepository interface {
	FindByEmailLike(ctx context.Context, fragment string) (*domain.User, error)
}

// Notifier delivers outbound notifications after a successful sync. Failures
// are the caller's to log; they never change the processing outcome.
type Notifier interface {
	IssueCreated(ctx context.Context, project *domain.Project, issue *domain.Issue) error
	IssueUpdated(ctx context.Context, project *domain.Project, issue *domain.Issue) error
}

// WebhookService reconciles inbound GitHub webhook events with the issue
// store: it resolves the target project by repository linkage and creates or
// updates the internal issue synced from the external entity.
type WebhookService struct {
	projects WebhookProjectRepository
	issues   WebhookIssueRepository
	users    WebhookUserRepository
	notifier Notifier
	logger   *slog.Logger
}

func NewWebhookService(
	projects WebhookProjectRepository,
	issues WebhookIssueRepository,
	users WebhookUserRepository,
	notifier Notifier,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		projects: projects,
		issues:   issues,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Process handles one webhook delivery. It never returns an error: skips
// and operational failures are reported through the outcome so the HTTP
// boundary always has a well-formed result to hand back.
func (s *WebhookService) Process(ctx context.Context, eventType string, payload []byte) domain.Outcome {
	event, err := domain.ParseEvent(eventType, payload)
	if err != nil {
		s.logger.Error("failed to parse webhook payload", "event_type", eventType, "error", err)
		return domain.ErrorOutcome(err)
	}

	switch event.Kind {
	case domain.EventKindPush:
		return s.handlePush(ctx, event.Push)
	case domain.EventKindPullRequest:
		return s.handlePullRequest(ctx, event.PullRequest)
	case domain.EventKindIssues:
		return s.handleIssues(ctx, event.Issues)
	case domain.EventKindRelease:
		return s.handleRelease(ctx, event.Release)
	default:
		s.logger.Info("unhandled webhook event type", "event_type", eventType)
		return domain.SkippedOutcome(fmt.Sprintf("event type '%s' not handled", eventType))
	}
}

// handlePush is purely informational: commits are logged against the linked
// project but nothing in the store changes.
func (s *WebhookService) handlePush(ctx context.Context, event *domain.PushEvent) domain.Outcome {
	repoName := event.Repository.FullName
	if repoName == "" {
		return domain.SkippedOutcome("no repository info")
	}

	project, outcome := s.resolveProject(ctx, repoName)
	if project == nil {
		return outcome
	}

	s.logger.Info("push event received",
		"repo", repoName,
		"project_id", project.ID,
		"commits", len(event.Commits),
	)

	return domain.Outcome{
		Status:      domain.OutcomeSuccess,
		ProjectID:   project.ID,
		CommitCount: len(event.Commits),
		Pusher:      event.Pusher.Name,
	}
}

func (s *WebhookService) handlePullRequest(ctx context.Context, event *domain.PullRequestEvent) domain.Outcome {
	repoName := event.Repository.FullName
	pr := event.PullRequest
	if repoName == "" || pr.Number == 0 {
		return domain.SkippedOutcome("invalid pull request data")
	}

	project, outcome := s.resolveProject(ctx, repoName)
	if project == nil {
		return outcome
	}

	title := pr.Title
	if title == "" {
		title = "Untitled PR"
	}

	var status domain.IssueStatus
	switch {
	case pr.Merged:
		status = domain.IssueStatusCompleted
	case pr.State == "closed":
		// Closed-unmerged PRs land on completed as well; the status enum
		// has no declined variant.
		status = domain.IssueStatusCompleted
	default:
		status = domain.IssueStatusInProgress
	}

	issue, created, err := s.syncIssue(ctx, project, syncRequest{
		kind:        domain.ExternalKindPR,
		number:      pr.Number,
		name:        fmt.Sprintf("PR #%d: %s", pr.Number, title),
		description: fmt.Sprintf("GitHub Pull Request\n\n%s\n\nPR URL: %s", pr.Body, pr.HTMLURL),
		status:      status,
		issueType:   domain.IssueTypeTask,
		priority:    domain.PriorityModerate,
		authorLogin: pr.User.Login,
	})
	if err != nil {
		s.logger.Error("failed to sync pull request", "repo", repoName, "pr", pr.Number, "error", err)
		return domain.ErrorOutcome(err)
	}

	s.logger.Info("synced pull request",
		"project_id", project.ID,
		"issue_id", issue.ID,
		"pr", pr.Number,
		"action", event.Action,
		"created", created,
	)

	return domain.Outcome{
		Status:    domain.OutcomeSuccess,
		ProjectID: project.ID,
		IssueID:   issue.ID,
		PRNumber:  pr.Number,
		Action:    event.Action,
	}
}

func (s *WebhookService) handleIssues(ctx context.Context, event *domain.IssuesEvent) domain.Outcome {
	repoName := event.Repository.FullName
	ghIssue := event.Issue
	if repoName == "" || ghIssue.Number == 0 {
		return domain.SkippedOutcome("invalid issue data")
	}

	project, outcome := s.resolveProject(ctx, repoName)
	if project == nil {
		return outcome
	}

	title := ghIssue.Title
	if title == "" {
		title = "Untitled"
	}

	status := domain.IssueStatusTodo
	if ghIssue.State == "closed" {
		status = domain.IssueStatusCompleted
	}

	body := ghIssue.Body
	if body == "" {
		body = "No description provided"
	}

	issue, created, err := s.syncIssue(ctx, project, syncRequest{
		kind:   domain.ExternalKindIssue,
		number: ghIssue.Number,
		name:   fmt.Sprintf("GitHub Issue #%d: %s", ghIssue.Number, title),
		description: fmt.Sprintf("GitHub Issue\n\n%s\n\nIssue URL: %s\nLabels: %s",
			body, ghIssue.HTMLURL, labelNames(ghIssue.Labels)),
		status:      status,
		issueType:   issueTypeFromLabels(ghIssue.Labels),
		priority:    priorityFromLabels(ghIssue.Labels),
		authorLogin: ghIssue.User.Login,
	})
	if err != nil {
		s.logger.Error("failed to sync issue", "repo", repoName, "issue", ghIssue.Number, "error", err)
		return domain.ErrorOutcome(err)
	}

	s.logger.Info("synced issue",
		"project_id", project.ID,
		"issue_id", issue.ID,
		"github_issue", ghIssue.Number,
		"action", event.Action,
		"created", created,
	)

	return domain.Outcome{
		Status:            domain.OutcomeSuccess,
		ProjectID:         project.ID,
		IssueID:           issue.ID,
		GitHubIssueNumber: ghIssue.Number,
		Action:            event.Action,
	}
}

func (s *WebhookService) handleRelease(ctx context.Context, event *domain.ReleaseEvent) domain.Outcome {
	repoName := event.Repository.FullName
	if repoName == "" {
		return domain.SkippedOutcome("no repository info")
	}

	project, outcome := s.resolveProject(ctx, repoName)
	if project == nil {
		return outcome
	}

	s.logger.Info("release event received",
		"repo", repoName,
		"project_id", project.ID,
		"action", event.Action,
	)

	return domain.Outcome{
		Status:    domain.OutcomeSuccess,
		ProjectID: project.ID,
		Action:    event.Action,
	}
}

// resolveProject looks up the project linked to a repository. A nil project
// means the returned outcome is final (skip or error).
func (s *WebhookService) resolveProject(ctx context.Context, repoFullName string) (*domain.Project, domain.Outcome) {
	project, err := s.projects.GetByRepo(ctx, repoFullName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("no project linked to repo", "repo", repoFullName)
			return nil, domain.SkippedOutcome("no linked project found")
		}
		s.logger.Error("failed to resolve project by repo", "repo", repoFullName, "error", err)
		return nil, domain.ErrorOutcome(err)
	}
	return project, domain.Outcome{}
}

type syncRequest struct {
	kind        domain.ExternalKind
	number      int
	name        string
	description string
	status      domain.IssueStatus
	issueType   domain.IssueType
	priority    domain.Priority
	authorLogin string
}

// syncIssue finds the issue synced from (project, kind, number) and updates
// it in place, or creates it when no delivery has been seen yet. Creation
// goes through the store's external-ref upsert, so concurrent deliveries of
// the same entity converge on one row.
func (s *WebhookService) syncIssue(
	ctx context.Context,
	project *domain.Project,
	req syncRequest,
) (*domain.Issue, bool, error) {
	existing, err := s.issues.GetByExternalRef(ctx, project.ID, req.kind, req.number)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("find issue by external ref: %w", err)
	}

	if existing != nil {
		updated, err := s.issues.Update(ctx, existing.ID, domain.IssueUpdate{
			Name:        req.name,
			Description: req.description,
			Status:      req.status,
			Type:        req.issueType,
			Priority:    req.priority,
		})
		if err != nil {
			return nil, false, fmt.Errorf("update issue: %w", err)
		}
		s.notify(ctx, project, updated, false)
		return updated, false, nil
	}

	creatorID := project.CreatedBy
	if creatorID == 0 {
		creatorID = defaultCreatorID
	}

	kind := req.kind
	number := req.number
	issue := &domain.Issue{
		ProjectID:      project.ID,
		Name:           req.name,
		Description:    req.description,
		Status:         req.status,
		Type:           req.issueType,
		Priority:       req.priority,
		StoryPoint:     0,
		TimeEstimate:   0,
		AssignedTo:     s.resolveAuthor(ctx, req.authorLogin),
		AssignedBy:     creatorID,
		ExternalKind:   &kind,
		ExternalNumber: &number,
	}

	created, err := s.issues.CreateExternal(ctx, issue)
	if err != nil {
		return nil, false, fmt.Errorf("create issue: %w", err)
	}
	s.notify(ctx, project, created, true)
	return created, true, nil
}

// resolveAuthor maps a GitHub login to an internal user by substring match
// against stored emails. Best effort only: collisions are possible and an
// unresolved login leaves the issue unassigned.
func (s *WebhookService) resolveAuthor(ctx context.Context, login string) *int64 {
	if login == "" {
		// An empty fragment would ILIKE-match every email.
		return nil
	}

	user, err := s.users.FindByEmailLike(ctx, login)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("author lookup failed", "login", login, "error", err)
		}
		return nil
	}

	return &user.ID
}

func (s *WebhookService) notify(ctx context.Context, project *domain.Project, issue *domain.Issue, created bool) {
	if s.notifier == nil {
		return
	}

	var err error
	if created {
		err = s.notifier.IssueCreated(ctx, project, issue)
	} else {
		err = s.notifier.IssueUpdated(ctx, project, issue)
	}
	if err != nil {
		s.logger.Warn("slack notification failed", "project_id", project.ID, "issue_id", issue.ID, "error", err)
	}
}

func labelNames(labels []domain.Label) string {
	if len(labels) == 0 {
		return "None"
	}
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}

// issueTypeFromLabels scans labels in payload order; the first label naming
// a known type wins.
func issueTypeFromLabels(labels []domain.Label) domain.IssueType {
	for _, l := range labels {
		name := strings.ToLower(l.Name)
		if strings.Contains(name, "bug") {
			return domain.IssueTypeBug
		}
		if strings.Contains(name, "feature") {
			return domain.IssueTypeFeature
		}
	}
	return domain.IssueTypeTask
}

// priorityFromLabels is an independent first-match-wins scan from the type
// inference.
func priorityFromLabels(labels []domain.Label) domain.Priority {
	for _, l := range labels {
		name := strings.ToLower(l.Name)
		if strings.Contains(name, "critical") || strings.Contains(name, "high") {
			return domain.PriorityHigh
		}
		if strings.Contains(name, "low") {
			return domain.PriorityLow
		}
	}
	return domain.PriorityModerate
}
