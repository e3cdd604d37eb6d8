package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/financeapi/apiserver/internal/store"
	"github.com/financeapi/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	id    string
	owner string
}

func noteOwner(n note) string { return n.owner }

func TestFindOwned(t *testing.T) {
	notes := map[string]note{"n1": {id: "n1", owner: "alice"}}
	fetch := func(_ context.Context, id string) (note, error) {
		n, ok := notes[id]
		if !ok {
			return note{}, fmt.Errorf("query: %w", store.ErrNotFound)
		}
		return n, nil
	}

	t.Run("owner", func(t *testing.T) {
		got, err := findOwned(context.Background(), fetch, noteOwner, alice, "note", "n1")
		require.NoError(t, err)
		assert.Equal(t, notes["n1"], got)
	})

	t.Run("other user", func(t *testing.T) {
		got, err := findOwned(context.Background(), fetch, noteOwner, bob, "note", "n1")
		var forbidden *ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, "note belongs to another user", err.Error())
		assert.Zero(t, got)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := findOwned(context.Background(), fetch, noteOwner, alice, "note", "n2")
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "n2", notFound.ID)
	})

	t.Run("empty caller never matches", func(t *testing.T) {
		_, err := findOwned(context.Background(), fetch, noteOwner, types.User{}, "note", "n1")
		var forbidden *ForbiddenError
		assert.ErrorAs(t, err, &forbidden)
	})
}

func TestFindOwnedWrapsStoreFailure(t *testing.T) {
	boom := errors.New("timeout")
	fetch := func(context.Context, string) (note, error) { return note{}, boom }

	_, err := findOwned(context.Background(), fetch, noteOwner, alice, "note", "n1")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "load note: timeout", err.Error())
}

func TestWriteErr(t *testing.T) {
	var notFound *NotFoundError
	assert.ErrorAs(t, writeErr("note", "n1", store.ErrNotFound), &notFound)

	boom := errors.New("deadlock")
	err := writeErr("note", "n1", boom)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.As(err, &notFound))
}

func TestNotifierWithoutPublisher(t *testing.T) {
	n := newNotifier(nil)
	assert.NotPanics(t, func() {
		n.notify(context.Background(), types.EventCategoryCreated, ResourceCategory, "c1", "alice")
	})
}
