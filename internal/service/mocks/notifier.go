package mocks

import (
	"context"
	"sync"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type MockNotifier struct {
	mu sync.Mutex

	CreatedErr error
	UpdatedErr error

	Created []int64
	Updated []int64
}

func (m *MockNotifier) IssueCreated(ctx context.Context, project *domain.Project, issue *domain.Issue) error {
	m.mu.Lock()
	m.Created = append(m.Created, issue.ID)
	m.mu.Unlock()
	return m.CreatedErr
}

func (m *MockNotifier) IssueUpdated(ctx context.Context, project *domain.Project, issue *domain.Issue) error {
	m.mu.Lock()
	m.Updated = append(m.Updated, issue.ID)
	m.mu.Unlock()
	return m.UpdatedErr
}

func (m *MockNotifier) CreatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

func (m *MockNotifier) UpdatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Updated)
}
