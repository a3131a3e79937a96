package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackspace/github-sync-service/internal/domain"
)

const issueColumns = `id, project_id, name, description, status, type, priority,
         story_point, time_estimate, assigned_to, assigned_by,
         external_kind, external_number`

type IssueRepo struct {
	db *sql.DB
}

func NewIssueRepo(db *sql.DB) *IssueRepo {
	return &IssueRepo{db: db}
}

// GetByExternalRef finds the issue synced from a given GitHub entity.
// Returns sql.ErrNoRows when nothing has been synced for that ref yet.
func (r *IssueRepo) GetByExternalRef(
	ctx context.Context,
	projectID int64,
	kind domain.ExternalKind,
	number int,
) (*domain.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+`
         FROM issues
         WHERE project_id = $1 AND external_kind = $2 AND external_number = $3`,
		projectID, string(kind), number,
	)

	return scanIssueFrom(row)
}

// CreateExternal inserts a synced issue. When another delivery of the same
// external ref got there first, the insert lands on the existing row via
// the uq_issues_external_ref index instead of creating a duplicate.
func (r *IssueRepo) CreateExternal(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	if issue.ExternalKind == nil || issue.ExternalNumber == nil {
		return nil, fmt.Errorf("create external issue: external ref is required")
	}

	var assignedTo sql.NullInt64
	if issue.AssignedTo != nil {
		assignedTo = sql.NullInt64{Int64: *issue.AssignedTo, Valid: true}
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO issues (project_id, name, description, status, type, priority,
                             story_point, time_estimate, assigned_to, assigned_by,
                             external_kind, external_number)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
         ON CONFLICT (project_id, external_kind, external_number)
             WHERE external_kind IS NOT NULL
         DO UPDATE SET
             name        = EXCLUDED.name,
             description = EXCLUDED.description,
             status      = EXCLUDED.status,
             type        = EXCLUDED.type,
             priority    = EXCLUDED.priority,
             updated_at  = now()
         RETURNING `+issueColumns,
		issue.ProjectID,
		issue.Name,
		issue.Description,
		string(issue.Status),
		string(issue.Type),
		string(issue.Priority),
		issue.StoryPoint,
		issue.TimeEstimate,
		assignedTo,
		issue.AssignedBy,
		string(*issue.ExternalKind),
		*issue.ExternalNumber,
	)

	created, err := scanIssueFrom(row)
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}

	return created, nil
}

func (r *IssueRepo) Update(ctx context.Context, issueID int64, upd domain.IssueUpdate) (*domain.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE issues
         SET name        = $2,
             description = $3,
             status      = $4,
             type        = $5,
             priority    = $6,
             updated_at  = now()
         WHERE id = $1
         RETURNING `+issueColumns,
		issueID,
		upd.Name,
		upd.Description,
		string(upd.Status),
		string(upd.Type),
		string(upd.Priority),
	)

	updated, err := scanIssueFrom(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("update issue: %w", err)
	}

	return updated, nil
}

func (r *IssueRepo) ListByProject(ctx context.Context, projectID int64) ([]domain.Issue, error) {
	dbRows, err := r.db.QueryContext(ctx,
		`SELECT `+issueColumns+`
         FROM issues
         WHERE project_id = $1
         ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list issues by project: %w", err)
	}
	defer func() {
		_ = dbRows.Close()
	}()

	result := make([]domain.Issue, 0)
	for dbRows.Next() {
		issue, err := scanIssueFrom(dbRows)
		if err != nil {
			return nil, err
		}
		result = append(result, *issue)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issues by project: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssueFrom(s rowScanner) (*domain.Issue, error) {
	var (
		issue      domain.Issue
		status     string
		issueType  string
		priority   string
		assignedTo sql.NullInt64
		assignedBy sql.NullInt64
		extKind    sql.NullString
		extNumber  sql.NullInt64
	)

	err := s.Scan(
		&issue.ID,
		&issue.ProjectID,
		&issue.Name,
		&issue.Description,
		&status,
		&issueType,
		&priority,
		&issue.StoryPoint,
		&issue.TimeEstimate,
		&assignedTo,
		&assignedBy,
		&extKind,
		&extNumber,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan issue: %w", err)
	}

	issue.Status = domain.IssueStatus(status)
	issue.Type = domain.IssueType(issueType)
	issue.Priority = domain.Priority(priority)

	if assignedTo.Valid {
		v := assignedTo.Int64
		issue.AssignedTo = &v
	}
	if assignedBy.Valid {
		issue.AssignedBy = assignedBy.Int64
	}
	if extKind.Valid {
		kind := domain.ExternalKind(extKind.String)
		issue.ExternalKind = &kind
	}
	if extNumber.Valid {
		n := int(extNumber.Int64)
		issue.ExternalNumber = &n
	}

	return &issue, nil
}
