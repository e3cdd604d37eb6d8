package store

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	"github.com/financeapi/apiserver/types"
	"github.com/google/uuid"
)

const transactionSelect = `
		SELECT t.id, t.description, t.date, t.value, t.type, t.status,
		       u.id, u.username, u.name, u.lastname, u.email,
		       c.id, c.name, c.type, c.pattern,
		       cu.id, cu.username, cu.name, cu.lastname, cu.email
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		LEFT JOIN categories c ON c.id = t.category_id
		LEFT JOIN users cu ON cu.id = c.user_id`

// TransactionRepository handles persistence for transactions.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListByUser streams the transactions owned by userID.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string) iter.Seq2[types.Transaction, error] {
	return func(yield func(types.Transaction, error) bool) {
		rows, err := r.db.QueryContext(ctx, transactionSelect+`
		WHERE t.user_id = $1`, userID)
		if err != nil {
			yield(types.Transaction{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			transaction, err := scanTransaction(rows)
			if err != nil {
				yield(types.Transaction{}, err)
				return
			}
			if !yield(transaction, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(types.Transaction{}, err)
		}
	}
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (types.Transaction, error) {
	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+`
		WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Transaction{}, ErrNotFound
		}
		return types.Transaction{}, err
	}
	return transaction, nil
}

func (r *TransactionRepository) Create(ctx context.Context, transaction types.Transaction) (types.Transaction, error) {
	transaction.ID = uuid.NewString()

	const query = `
		INSERT INTO transactions (
			id, user_id, category_id, description, date, value, type, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		transaction.ID,
		transaction.User.ID,
		categoryIDArg(transaction.Category),
		transaction.Description,
		transaction.Date,
		transaction.Value,
		transaction.Type,
		transaction.Status,
	); err != nil {
		return types.Transaction{}, err
	}
	return transaction, nil
}

// Update overwrites every column of the transaction row.
func (r *TransactionRepository) Update(ctx context.Context, transaction types.Transaction) (types.Transaction, error) {
	const query = `
		UPDATE transactions
		SET user_id = $1,
			category_id = $2,
			description = $3,
			date = $4,
			value = $5,
			type = $6,
			status = $7,
			updated_at = now()
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		transaction.User.ID,
		categoryIDArg(transaction.Category),
		transaction.Description,
		transaction.Date,
		transaction.Value,
		transaction.Type,
		transaction.Status,
		transaction.ID,
	)
	if err != nil {
		return types.Transaction{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Transaction{}, err
	}
	if affected == 0 {
		return types.Transaction{}, ErrNotFound
	}
	return transaction, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM transactions WHERE id = $1`
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

func categoryIDArg(category *types.Category) sql.NullString {
	if category == nil || category.ID == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: category.ID, Valid: true}
}

func scanTransaction(row rowScanner) (types.Transaction, error) {
	var transaction types.Transaction
	var (
		categoryID, categoryName, categoryType, categoryPattern      sql.NullString
		ownerID, ownerUsername, ownerName, ownerLastname, ownerEmail sql.NullString
	)
	err := row.Scan(
		&transaction.ID,
		&transaction.Description,
		&transaction.Date,
		&transaction.Value,
		&transaction.Type,
		&transaction.Status,
		&transaction.User.ID,
		&transaction.User.Username,
		&transaction.User.Name,
		&transaction.User.Lastname,
		&transaction.User.Email,
		&categoryID,
		&categoryName,
		&categoryType,
		&categoryPattern,
		&ownerID,
		&ownerUsername,
		&ownerName,
		&ownerLastname,
		&ownerEmail,
	)
	if err != nil {
		return types.Transaction{}, err
	}

	if categoryID.Valid {
		transaction.Category = &types.Category{
			ID:      categoryID.String,
			Name:    categoryName.String,
			Type:    types.TransactionType(categoryType.String),
			Pattern: categoryPattern.String,
			User: types.User{
				ID:       ownerID.String,
				Username: ownerUsername.String,
				Name:     ownerName.String,
				Lastname: ownerLastname.String,
				Email:    ownerEmail.String,
			},
		}
	}
	return transaction, nil
}
