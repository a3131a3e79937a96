package mocks

import (
	"context"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type MockIssueRepository struct {
	GetByExternalRefResult *domain.Issue
	GetByExternalRefErr    error

	CreateExternalResult *domain.Issue
	CreateExternalErr    error
	CreateCalls          int
	LastCreated          *domain.Issue

	UpdateResult *domain.Issue
	UpdateErr    error
	UpdateCalls  int
	LastUpdateID int64
	LastUpdate   domain.IssueUpdate

	ListByProjectResult []domain.Issue
	ListByProjectErr    error
}

func (m *MockIssueRepository) GetByExternalRef(
	ctx context.Context,
	projectID int64,
	kind domain.ExternalKind,
	number int,
) (*domain.Issue, error) {
	return m.GetByExternalRefResult, m.GetByExternalRefErr
}

func (m *MockIssueRepository) CreateExternal(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	m.CreateCalls++
	m.LastCreated = issue
	if m.CreateExternalErr != nil {
		return nil, m.CreateExternalErr
	}
	if m.CreateExternalResult != nil {
		return m.CreateExternalResult, nil
	}
	created := *issue
	created.ID = 1
	return &created, nil
}

func (m *MockIssueRepository) Update(ctx context.Context, issueID int64, upd domain.IssueUpdate) (*domain.Issue, error) {
	m.UpdateCalls++
	m.LastUpdateID = issueID
	m.LastUpdate = upd
	return m.UpdateResult, m.UpdateErr
}

func (m *MockIssueRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Issue, error) {
	return m.ListByProjectResult, m.ListByProjectErr
}
