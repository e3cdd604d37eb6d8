package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/financeapi/apiserver/internal/store"
	"github.com/financeapi/apiserver/types"
)

// memoryRepo is an in-memory repository keyed by id that preserves insertion
// order and counts write calls.
type memoryRepo[T any] struct {
	mu      sync.Mutex
	prefix  string
	items   map[string]T
	order   []string
	getID   func(T) string
	setID   func(*T, string)
	ownerID func(T) string
	nextID  int

	creates int
	updates int
	deletes int
	listErr error
}

func newMemoryRepo[T any](prefix string, getID func(T) string, setID func(*T, string), ownerID func(T) string) *memoryRepo[T] {
	return &memoryRepo[T]{
		prefix:  prefix,
		items:   make(map[string]T),
		getID:   getID,
		setID:   setID,
		ownerID: ownerID,
	}
}

func (r *memoryRepo[T]) ListByUser(_ context.Context, userID string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		r.mu.Lock()
		var matched []T
		for _, id := range r.order {
			if item := r.items[id]; r.ownerID(item) == userID {
				matched = append(matched, item)
			}
		}
		listErr := r.listErr
		r.mu.Unlock()

		if listErr != nil {
			var zero T
			yield(zero, listErr)
			return
		}
		for _, item := range matched {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func (r *memoryRepo[T]) Get(_ context.Context, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	return item, nil
}

func (r *memoryRepo[T]) Create(_ context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++
	r.nextID++
	r.setID(&item, fmt.Sprintf("%s-%d", r.prefix, r.nextID))
	id := r.getID(item)
	r.items[id] = item
	r.order = append(r.order, id)
	return item, nil
}

func (r *memoryRepo[T]) Update(_ context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates++
	id := r.getID(item)
	if _, ok := r.items[id]; !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	r.items[id] = item
	return item, nil
}

func (r *memoryRepo[T]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deletes++
	if _, ok := r.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// put stores item as-is, bypassing id generation.
func (r *memoryRepo[T]) put(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.getID(item)
	r.items[id] = item
	r.order = append(r.order, id)
}

func newCategoryRepo() *memoryRepo[types.Category] {
	return newMemoryRepo("cat",
		func(c types.Category) string { return c.ID },
		func(c *types.Category, id string) { c.ID = id },
		func(c types.Category) string { return c.User.ID },
	)
}

func newTransactionRepo() *memoryRepo[types.Transaction] {
	return newMemoryRepo("txn",
		func(t types.Transaction) string { return t.ID },
		func(t *types.Transaction, id string) { t.ID = id },
		func(t types.Transaction) string { return t.User.ID },
	)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []types.ResourceEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event types.ResourceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) eventTypes() []types.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]types.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errBroker = errors.New("broker unavailable")

var (
	alice = types.User{ID: "alice", Username: "alice", Name: "Alice", Lastname: "Liddell", Email: "alice@example.com"}
	bob   = types.User{ID: "bob", Username: "bob", Name: "Bob", Lastname: "Builder", Email: "bob@example.com"}
)

func datePtr(year int, month time.Month, day int) *types.Date {
	d := types.NewDate(year, month, day)
	return &d
}

func amountPtr(value string) *types.Amount {
	a, err := types.ParseAmount(value)
	if err != nil {
		panic(err)
	}
	return &a
}
