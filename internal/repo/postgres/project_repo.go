package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	data, err := json.Marshal(p.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal project data: %w", err)
	}

	var createdBy sql.NullInt64
	if p.CreatedBy != 0 {
		createdBy = sql.NullInt64{Int64: p.CreatedBy, Valid: true}
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO projects (name, description, created_by, data)
         VALUES ($1, $2, $3, $4)
         RETURNING id, name, description, created_by, data`,
		p.Name, p.Description, createdBy, data,
	)

	return scanProject(row)
}

func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_by, data
         FROM projects
         WHERE id = $1`,
		id,
	)

	return scanProject(row)
}

// GetByRepo resolves a project by the owner/name linkage stored in its
// config blob. Returns sql.ErrNoRows when no project is linked to the repo.
func (r *ProjectRepo) GetByRepo(ctx context.Context, repoFullName string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_by, data
         FROM projects
         WHERE data->>'github_repo' = $1`,
		repoFullName,
	)

	return scanProject(row)
}

func scanProject(row *sql.Row) (*domain.Project, error) {
	var (
		p         domain.Project
		createdBy sql.NullInt64
		dataRaw   []byte
	)

	if err := row.Scan(&p.ID, &p.Name, &p.Description, &createdBy, &dataRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}

	if createdBy.Valid {
		p.CreatedBy = createdBy.Int64
	}

	if len(dataRaw) > 0 {
		if err := json.Unmarshal(dataRaw, &p.Data); err != nil {
			return nil, fmt.Errorf("unmarshal project data: %w", err)
		}
	}

	return &p, nil
}
