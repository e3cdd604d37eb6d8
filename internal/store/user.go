package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/financeapi/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	const query = `
		SELECT id, username, name, lastname, email
		FROM users
		WHERE id = $1`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Lastname,
		&user.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// Upsert inserts the user or overwrites every field of the existing row.
func (r *UserRepository) Upsert(ctx context.Context, user types.User) (types.User, error) {
	const query = `
		INSERT INTO users (id, username, name, lastname, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
			name = EXCLUDED.name,
			lastname = EXCLUDED.lastname,
			email = EXCLUDED.email,
			updated_at = now()`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Name,
		user.Lastname,
		user.Email,
	); err != nil {
		return types.User{}, err
	}
	return user, nil
}
