package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/financeapi/apiserver/internal/store"
	"github.com/financeapi/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	Upsert(ctx context.Context, user types.User) (types.User, error)
}

// UserService keeps the local copy of identities resolved from tokens.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Save overwrites the stored user with every field of user.
func (s *UserService) Save(ctx context.Context, user types.User) (types.User, error) {
	if user.ID == "" {
		return types.User{}, errors.New("user id is required")
	}
	saved, err := s.repo.Upsert(ctx, user)
	if err != nil {
		return types.User{}, fmt.Errorf("save user: %w", err)
	}
	return saved, nil
}

// GetByID returns the stored copy of a user.
func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, &NotFoundError{Resource: ResourceUser, ID: id}
		}
		return types.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
