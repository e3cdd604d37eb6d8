package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/financeapi/apiserver/types"
	"github.com/go-playground/validator/v10"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	ListByUser(ctx context.Context, userID string) iter.Seq2[types.Category, error]
	Get(ctx context.Context, id string) (types.Category, error)
	Create(ctx context.Context, category types.Category) (types.Category, error)
	Update(ctx context.Context, category types.Category) (types.Category, error)
	Delete(ctx context.Context, id string) error
}

// CategoryService encapsulates category use-cases. Every operation is scoped
// to the calling user.
type CategoryService struct {
	repo     CategoryRepository
	validate *validator.Validate
	events   notifier
}

func NewCategoryService(repo CategoryRepository, validate *validator.Validate, events EventPublisher) *CategoryService {
	return &CategoryService{
		repo:     repo,
		validate: validate,
		events:   newNotifier(events),
	}
}

// ListAll lazily yields the caller's categories in store order.
func (s *CategoryService) ListAll(ctx context.Context, user types.User) iter.Seq2[types.Category, error] {
	return s.repo.ListByUser(ctx, user.ID)
}

func (s *CategoryService) Create(ctx context.Context, user types.User, input types.CategoryInput) (types.Category, error) {
	if err := validateInput(s.validate, input); err != nil {
		return types.Category{}, err
	}

	created, err := s.repo.Create(ctx, newCategory(user, "", input))
	if err != nil {
		return types.Category{}, fmt.Errorf("create category: %w", err)
	}

	s.events.notify(ctx, types.EventCategoryCreated, ResourceCategory, created.ID, user.ID)
	return created, nil
}

// Replace overwrites the category identified by id with input. Fields absent
// from input are reset to their zero value; nothing is merged from the old
// record.
func (s *CategoryService) Replace(ctx context.Context, user types.User, id string, input types.CategoryInput) (types.Category, error) {
	if id == "" {
		return types.Category{}, ErrMissingID
	}
	if err := validateInput(s.validate, input); err != nil {
		return types.Category{}, err
	}
	if _, err := s.FindByID(ctx, user, id); err != nil {
		return types.Category{}, err
	}

	replaced, err := s.repo.Update(ctx, newCategory(user, id, input))
	if err != nil {
		return types.Category{}, writeErr(ResourceCategory, id, err)
	}

	s.events.notify(ctx, types.EventCategoryReplaced, ResourceCategory, id, user.ID)
	return replaced, nil
}

func (s *CategoryService) FindByID(ctx context.Context, user types.User, id string) (types.Category, error) {
	return findOwned(ctx, s.repo.Get, categoryOwner, user, ResourceCategory, id)
}

func (s *CategoryService) DeleteByID(ctx context.Context, user types.User, id string) error {
	if _, err := s.FindByID(ctx, user, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeErr(ResourceCategory, id, err)
	}

	s.events.notify(ctx, types.EventCategoryDeleted, ResourceCategory, id, user.ID)
	return nil
}

func newCategory(user types.User, id string, input types.CategoryInput) types.Category {
	return types.Category{
		ID:      id,
		Name:    input.Name,
		Type:    input.Type,
		Pattern: input.Pattern,
		User:    user,
	}
}

func categoryOwner(category types.Category) string {
	return category.User.ID
}
