package services

import (
	"context"
	"errors"
	"testing"

	"github.com/financeapi/apiserver/internal/store"
	"github.com/financeapi/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	users   map[string]types.User
	saveErr error
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (types.User, error) {
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memoryUsers) Upsert(_ context.Context, user types.User) (types.User, error) {
	if m.saveErr != nil {
		return types.User{}, m.saveErr
	}
	m.users[user.ID] = user
	return user, nil
}

func TestUserSaveOverwritesEveryField(t *testing.T) {
	repo := &memoryUsers{users: map[string]types.User{}}
	service := NewUserService(repo)
	ctx := context.Background()

	_, err := service.Save(ctx, alice)
	require.NoError(t, err)

	renamed := types.User{ID: alice.ID, Username: "alice2"}
	_, err = service.Save(ctx, renamed)
	require.NoError(t, err)

	stored, err := service.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, renamed, stored)
}

func TestUserGetByIDMissing(t *testing.T) {
	service := NewUserService(&memoryUsers{users: map[string]types.User{}})

	_, err := service.GetByID(context.Background(), "ghost")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, ResourceUser, notFound.Resource)
}

func TestUserSaveRequiresID(t *testing.T) {
	service := NewUserService(&memoryUsers{users: map[string]types.User{}})

	_, err := service.Save(context.Background(), types.User{Username: "nobody"})
	assert.Error(t, err)
}

func TestUserSaveWrapsStoreError(t *testing.T) {
	boom := errors.New("db down")
	service := NewUserService(&memoryUsers{users: map[string]types.User{}, saveErr: boom})

	_, err := service.Save(context.Background(), alice)
	assert.ErrorIs(t, err, boom)
}
