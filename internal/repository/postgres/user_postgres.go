package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"justifacil/internal/model"
	"justifacil/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, username, email, first_name, last_name, password_hash, role, is_superuser, is_active, created_at`

func scanUser(s interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := s.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.Role,
		&u.IsSuperuser,
		&u.IsActive,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user and returns the stored row.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (username, email, first_name, last_name, password_hash, role, is_superuser, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.Username,
		u.Email,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		u.Role,
		u.IsSuperuser,
		u.IsActive,
	)
	return scanUser(row)
}

// FindByID fetches a user by primary key.
func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, model.ErrNotFound)
	}
	return u, err
}

// FindByUsername fetches a user by exact username.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, model.ErrNotFound)
	}
	return u, err
}

// ListByRole returns every user holding role, ordered by username.
func (r *UserPostgres) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY username`
	rows, err := r.db.QueryContext(ctx, q, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}
