package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/financeapi/apiserver/types"
	"github.com/go-playground/validator/v10"
)

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	ListByUser(ctx context.Context, userID string) iter.Seq2[types.Transaction, error]
	Get(ctx context.Context, id string) (types.Transaction, error)
	Create(ctx context.Context, transaction types.Transaction) (types.Transaction, error)
	Update(ctx context.Context, transaction types.Transaction) (types.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// CategoryFinder resolves a category on behalf of a user, enforcing ownership.
type CategoryFinder interface {
	FindByID(ctx context.Context, user types.User, id string) (types.Category, error)
}

// TransactionService encapsulates transaction use-cases.
type TransactionService struct {
	repo       TransactionRepository
	categories CategoryFinder
	validate   *validator.Validate
	events     notifier
}

func NewTransactionService(
	repo TransactionRepository,
	categories CategoryFinder,
	validate *validator.Validate,
	events EventPublisher,
) *TransactionService {
	return &TransactionService{
		repo:       repo,
		categories: categories,
		validate:   validate,
		events:     newNotifier(events),
	}
}

// ListAll lazily yields the caller's transactions in store order.
func (s *TransactionService) ListAll(ctx context.Context, user types.User) iter.Seq2[types.Transaction, error] {
	return s.repo.ListByUser(ctx, user.ID)
}

func (s *TransactionService) Create(ctx context.Context, user types.User, input types.TransactionInput) (types.Transaction, error) {
	if err := validateInput(s.validate, input); err != nil {
		return types.Transaction{}, err
	}

	transaction, err := s.build(ctx, user, "", input)
	if err != nil {
		return types.Transaction{}, err
	}

	created, err := s.repo.Create(ctx, transaction)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.events.notify(ctx, types.EventTransactionCreated, ResourceTransaction, created.ID, user.ID)
	return created, nil
}

// Replace overwrites the transaction identified by id with input. Omitting
// the category id detaches any previously attached category.
func (s *TransactionService) Replace(ctx context.Context, user types.User, id string, input types.TransactionInput) (types.Transaction, error) {
	if id == "" {
		return types.Transaction{}, ErrMissingID
	}
	if err := validateInput(s.validate, input); err != nil {
		return types.Transaction{}, err
	}
	if _, err := s.FindByID(ctx, user, id); err != nil {
		return types.Transaction{}, err
	}

	transaction, err := s.build(ctx, user, id, input)
	if err != nil {
		return types.Transaction{}, err
	}

	replaced, err := s.repo.Update(ctx, transaction)
	if err != nil {
		return types.Transaction{}, writeErr(ResourceTransaction, id, err)
	}

	s.events.notify(ctx, types.EventTransactionReplaced, ResourceTransaction, id, user.ID)
	return replaced, nil
}

func (s *TransactionService) FindByID(ctx context.Context, user types.User, id string) (types.Transaction, error) {
	return findOwned(ctx, s.repo.Get, transactionOwner, user, ResourceTransaction, id)
}

func (s *TransactionService) DeleteByID(ctx context.Context, user types.User, id string) error {
	if _, err := s.FindByID(ctx, user, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeErr(ResourceTransaction, id, err)
	}

	s.events.notify(ctx, types.EventTransactionDeleted, ResourceTransaction, id, user.ID)
	return nil
}

// build turns validated input into a transaction owned by user, resolving the
// referenced category through the caller's own categories.
func (s *TransactionService) build(ctx context.Context, user types.User, id string, input types.TransactionInput) (types.Transaction, error) {
	transaction := types.Transaction{
		ID:          id,
		Description: input.Description,
		Date:        *input.Date,
		Value:       *input.Value,
		Type:        input.Type,
		Status:      input.Status,
		User:        user,
	}

	if input.CategoryID != "" {
		category, err := s.categories.FindByID(ctx, user, input.CategoryID)
		if err != nil {
			return types.Transaction{}, err
		}
		transaction.Category = &category
	}
	return transaction, nil
}

func transactionOwner(transaction types.Transaction) string {
	return transaction.User.ID
}
