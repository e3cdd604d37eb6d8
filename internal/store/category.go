package store

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	"github.com/financeapi/apiserver/types"
	"github.com/google/uuid"
)

const categoryColumns = `
		c.id, c.name, c.type, c.pattern,
		u.id, u.username, u.name, u.lastname, u.email`

// CategoryRepository handles persistence for categories.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByUser streams the categories owned by userID. Rows are read lazily
// as the sequence is consumed and released when iteration stops.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) iter.Seq2[types.Category, error] {
	return func(yield func(types.Category, error) bool) {
		query := `SELECT` + categoryColumns + `
		FROM categories c
		JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1`
		rows, err := r.db.QueryContext(ctx, query, userID)
		if err != nil {
			yield(types.Category{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			category, err := scanCategory(rows)
			if err != nil {
				yield(types.Category{}, err)
				return
			}
			if !yield(category, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(types.Category{}, err)
		}
	}
}

func (r *CategoryRepository) Get(ctx context.Context, id string) (types.Category, error) {
	query := `SELECT` + categoryColumns + `
		FROM categories c
		JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Category{}, ErrNotFound
		}
		return types.Category{}, err
	}
	return category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category types.Category) (types.Category, error) {
	category.ID = uuid.NewString()

	const query = `
		INSERT INTO categories (id, user_id, name, type, pattern, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.User.ID,
		category.Name,
		category.Type,
		category.Pattern,
	); err != nil {
		return types.Category{}, err
	}
	return category, nil
}

// Update overwrites every column of the category row.
func (r *CategoryRepository) Update(ctx context.Context, category types.Category) (types.Category, error) {
	const query = `
		UPDATE categories
		SET user_id = $1,
			name = $2,
			type = $3,
			pattern = $4,
			updated_at = now()
		WHERE id = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		category.User.ID,
		category.Name,
		category.Type,
		category.Pattern,
		category.ID,
	)
	if err != nil {
		return types.Category{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Category{}, err
	}
	if affected == 0 {
		return types.Category{}, ErrNotFound
	}
	return category, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (types.Category, error) {
	var category types.Category
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Type,
		&category.Pattern,
		&category.User.ID,
		&category.User.Username,
		&category.User.Name,
		&category.User.Lastname,
		&category.User.Email,
	)
	return category, err
}
