package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/trackspace/github-sync-service/internal/domain"
)

// InMemoryIssueStore mirrors the Postgres issue repo contract including the
// unique index on (project_id, external_kind, external_number): a concurrent
// second create for the same ref lands on the existing row, exactly like
// INSERT ... ON CONFLICT DO UPDATE. Used by concurrency tests where the
// field-programmed mock cannot express store state.
type InMemoryIssueStore struct {
	mu     sync.Mutex
	nextID int64
	issues map[int64]domain.Issue
}

func NewInMemoryIssueStore() *InMemoryIssueStore {
	return &InMemoryIssueStore{issues: make(map[int64]domain.Issue)}
}

func (s *InMemoryIssueStore) GetByExternalRef(
	ctx context.Context,
	projectID int64,
	kind domain.ExternalKind,
	number int,
) (*domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if issue, ok := s.findByRef(projectID, kind, number); ok {
		return &issue, nil
	}
	return nil, sql.ErrNoRows
}

func (s *InMemoryIssueStore) CreateExternal(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.findByRef(issue.ProjectID, *issue.ExternalKind, *issue.ExternalNumber); ok {
		existing.Name = issue.Name
		existing.Description = issue.Description
		existing.Status = issue.Status
		existing.Type = issue.Type
		existing.Priority = issue.Priority
		s.issues[existing.ID] = existing
		return &existing, nil
	}

	s.nextID++
	created := *issue
	created.ID = s.nextID
	s.issues[created.ID] = created
	return &created, nil
}

func (s *InMemoryIssueStore) Update(ctx context.Context, issueID int64, upd domain.IssueUpdate) (*domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[issueID]
	if !ok {
		return nil, sql.ErrNoRows
	}

	issue.Name = upd.Name
	issue.Description = upd.Description
	issue.Status = upd.Status
	issue.Type = upd.Type
	issue.Priority = upd.Priority
	s.issues[issueID] = issue

	return &issue, nil
}

func (s *InMemoryIssueStore) ListByProject(ctx context.Context, projectID int64) ([]domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Issue, 0)
	for _, issue := range s.issues {
		if issue.ProjectID == projectID {
			result = append(result, issue)
		}
	}
	return result, nil
}

func (s *InMemoryIssueStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.issues)
}

func (s *InMemoryIssueStore) findByRef(projectID int64, kind domain.ExternalKind, number int) (domain.Issue, bool) {
	for _, issue := range s.issues {
		if issue.ProjectID != projectID || issue.ExternalKind == nil || issue.ExternalNumber == nil {
			continue
		}
		if *issue.ExternalKind == kind && *issue.ExternalNumber == number {
			return issue, true
		}
	}
	return domain.Issue{}, false
}
