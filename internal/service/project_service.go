package service

import (
	"context"
	"fmt"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
}

type ProjectIssueRepository interface {
	ListByProject(ctx context.Context, projectID int64) ([]domain.Issue, error)
}

// ProjectService covers the minimum administration the reconciler depends
// on: creating a project with its repository linkage and reading back the
// issues synced into it.
type ProjectService struct {
	projects ProjectRepository
	issues   ProjectIssueRepository
}

func NewProjectService(projects ProjectRepository, issues ProjectIssueRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		issues:   issues,
	}
}

func (s *ProjectService) CreateProject(
	ctx context.Context,
	name string,
	description string,
	createdBy int64,
	data domain.ProjectData,
) (*domain.Project, error) {
	if name == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeInvalidInput, "project name is required")
	}

	project, err := s.projects.Create(ctx, &domain.Project{
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		Data:        data,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) ListIssues(ctx context.Context, projectID int64) ([]domain.Issue, error) {
	issues, err := s.issues.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project issues: %w", err)
	}
	return issues, nil
}
