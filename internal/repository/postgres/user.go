package postgres

import (
	"context"
	"database/sql"

	"github.com/tutorlink/platform/internal/domain"
	"github.com/tutorlink/platform/internal/service/notify"
)

// UserRepo implements user lookups, including notify.UserDirectory.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a Postgres-backed user repository.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, role, created_at FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notify.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get user", err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, role, created_at FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notify.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get user by email", err)
	}
	return u, nil
}

// Upsert creates the user on first login and refreshes the display name on
// subsequent logins. The role is set once and never changed here.
func (r *UserRepo) Upsert(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, role, created_at
	`, u.ID, u.Email, u.Name, u.Role, u.CreatedAt).Scan(&u.ID, &u.Role, &u.CreatedAt)
	if err != nil {
		return wrapErr("upsert user", err)
	}
	return nil
}
