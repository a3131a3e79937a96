package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type MockProjectRepository struct {
	mu sync.Mutex

	GetByRepoResult *domain.Project
	GetByRepoErr    error
	GetByRepoCalls  int

	CreateResult *domain.Project
	CreateErr    error

	GetByIDResult *domain.Project
	GetByIDErr    error
}

func (m *MockProjectRepository) GetByRepo(ctx context.Context, repoFullName string) (*domain.Project, error) {
	m.mu.Lock()
	m.GetByRepoCalls++
	m.mu.Unlock()
	if m.GetByRepoErr != nil {
		return nil, m.GetByRepoErr
	}
	if m.GetByRepoResult == nil {
		return nil, sql.ErrNoRows
	}
	return m.GetByRepoResult, nil
}

func (m *MockProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	return m.CreateResult, m.CreateErr
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	if m.GetByIDResult == nil {
		return nil, sql.ErrNoRows
	}
	return m.GetByIDResult, nil
}

func (m *MockProjectRepository) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GetByRepoCalls
}
