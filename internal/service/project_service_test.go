package service

import (
	"context"
	"errors"
	"testing"

	"github.com/trackspace/github-sync-service/internal/domain"
	"github.com/trackspace/github-sync-service/internal/service/mocks"
)

func TestProjectService_CreateProject(t *testing.T) {
	tests := []struct {
		name        string
		projectName string
		mockResult  *domain.Project
		mockErr     error
		wantErr     bool
		wantErrCode domain.ErrorCode
	}{
		{
			name:        "successful creation",
			projectName: "Tracker",
			mockResult: &domain.Project{
				ID:   10,
				Name: "Tracker",
				Data: domain.ProjectData{GitHubRepo: "acme/tracker"},
			},
		},
		{
			name:        "empty name is rejected",
			projectName: "",
			wantErr:     true,
			wantErrCode: domain.ErrorCodeInvalidInput,
		},
		{
			name:        "repo failure propagates",
			projectName: "Tracker",
			mockErr:     errors.New("insert failed"),
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := &mocks.MockProjectRepository{
				CreateResult: tt.mockResult,
				CreateErr:    tt.mockErr,
			}
			svc := NewProjectService(projects, &mocks.MockIssueRepository{})

			result, err := svc.CreateProject(context.Background(), tt.projectName, "", 5,
				domain.ProjectData{GitHubRepo: "acme/tracker"})

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantErrCode != "" {
					var de *domain.DomainError
					if !errors.As(err, &de) {
						t.Fatalf("expected domain error, got %T", err)
					}
					if de.Code != tt.wantErrCode {
						t.Errorf("expected error code %s, got %s", tt.wantErrCode, de.Code)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.ID != tt.mockResult.ID {
				t.Errorf("expected project id %d, got %d", tt.mockResult.ID, result.ID)
			}
		})
	}
}
