package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/financeapi/apiserver/internal/store"
	"github.com/financeapi/apiserver/types"
)

// findOwned loads a resource by id and lets it through only when its owner
// is the caller. A missing resource yields *NotFoundError, a resource owned by
// anyone else yields *ForbiddenError.
func findOwned[T any](
	ctx context.Context,
	fetch func(context.Context, string) (T, error),
	owner func(T) string,
	user types.User,
	resource string,
	id string,
) (T, error) {
	var zero T

	item, err := fetch(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return zero, &NotFoundError{Resource: resource, ID: id}
		}
		return zero, fmt.Errorf("load %s: %w", resource, err)
	}

	if owner(item) != user.ID {
		return zero, &ForbiddenError{Resource: resource, ID: id}
	}
	return item, nil
}

// writeErr maps a store write failure. A row that vanished between the
// ownership check and the write is reported as not found.
func writeErr(resource, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return fmt.Errorf("write %s: %w", resource, err)
}
