package mocks

import (
	"context"
	"database/sql"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type MockUserRepository struct {
	FindByEmailLikeResult *domain.User
	FindByEmailLikeErr    error
	LastFragment          string
}

func (m *MockUserRepository) FindByEmailLike(ctx context.Context, fragment string) (*domain.User, error) {
	m.LastFragment = fragment
	if m.FindByEmailLikeErr != nil {
		return nil, m.FindByEmailLikeErr
	}
	if m.FindByEmailLikeResult == nil {
		return nil, sql.ErrNoRows
	}
	return m.FindByEmailLikeResult, nil
}
