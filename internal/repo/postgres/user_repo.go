package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackspace/github-sync-service/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// FindByEmailLike looks up a user whose email contains the given fragment.
// This backs the best-effort GitHub-login-to-user heuristic: logins often
// appear in work emails, but the match is not an identity join and can bind
// the wrong user. Returns sql.ErrNoRows when nothing matches.
func (r *UserRepo) FindByEmailLike(ctx context.Context, fragment string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email
         FROM users
         WHERE email ILIKE '%' || $1 || '%'
         ORDER BY id
         LIMIT 1`,
		fragment,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find user by email fragment: %w", err)
	}
	return &u, nil
}
