package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type apiProject struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	CreatedBy   int64              `json:"created_by,omitempty"`
	Data        domain.ProjectData `json:"data"`
}

type apiIssue struct {
	ID             int64   `json:"id"`
	ProjectID      int64   `json:"project_id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Status         string  `json:"status"`
	Type           string  `json:"type"`
	Priority       string  `json:"priority"`
	StoryPoint     int     `json:"story_point"`
	TimeEstimate   float64 `json:"time_estimate"`
	AssignedTo     *int64  `json:"assigned_to,omitempty"`
	ExternalKind   string  `json:"external_kind,omitempty"`
	ExternalNumber int     `json:"external_number,omitempty"`
}

func projectToAPI(p *domain.Project) apiProject {
	return apiProject{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		Data:        p.Data,
	}
}

func issueToAPI(issue *domain.Issue) apiIssue {
	out := apiIssue{
		ID:           issue.ID,
		ProjectID:    issue.ProjectID,
		Name:         issue.Name,
		Description:  issue.Description,
		Status:       string(issue.Status),
		Type:         string(issue.Type),
		Priority:     string(issue.Priority),
		StoryPoint:   issue.StoryPoint,
		TimeEstimate: issue.TimeEstimate,
		AssignedTo:   issue.AssignedTo,
	}
	if issue.ExternalKind != nil {
		out.ExternalKind = string(*issue.ExternalKind)
	}
	if issue.ExternalNumber != nil {
		out.ExternalNumber = *issue.ExternalNumber
	}
	return out
}

type createProjectRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatedBy   int64              `json:"created_by"`
	Data        domain.ProjectData `json:"data"`
}

type projectResponse struct {
	Project apiProject `json:"project"`
}

func (s *Server) HandleProjectCreate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeInvalidInput, "invalid JSON body")
		return
	}

	project, err := s.app.Project.CreateProject(r.Context(), req.Name, req.Description, req.CreatedBy, req.Data)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, projectResponse{Project: projectToAPI(project)})
}

func (s *Server) HandleProjectGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.projectIDParam(w, r)
	if !ok {
		return
	}

	project, err := s.app.Project.GetProject(r.Context(), id)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, projectResponse{Project: projectToAPI(project)})
}

type projectIssuesResponse struct {
	ProjectID int64      `json:"project_id"`
	Issues    []apiIssue `json:"issues"`
}

func (s *Server) HandleProjectIssues(w http.ResponseWriter, r *http.Request) {
	id, ok := s.projectIDParam(w, r)
	if !ok {
		return
	}

	issues, err := s.app.Project.ListIssues(r.Context(), id)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	resp := projectIssuesResponse{
		ProjectID: id,
		Issues:    make([]apiIssue, 0, len(issues)),
	}
	for i := range issues {
		resp.Issues = append(resp.Issues, issueToAPI(&issues[i]))
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) projectIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "projectID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeInvalidInput, "invalid project id")
		return 0, false
	}
	return id, true
}
