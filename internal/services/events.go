package services

import (
	"context"
	"time"

	"github.com/financeapi/apiserver/internal/log"
	"github.com/financeapi/apiserver/types"
)

// EventPublisher delivers resource change events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event types.ResourceEvent) error
}

// notifier publishes events on behalf of a service. A nil publisher disables
// publishing. Delivery failures are logged and never fail the caller.
type notifier struct {
	publisher EventPublisher
	now       func() time.Time
}

func newNotifier(publisher EventPublisher) notifier {
	return notifier{publisher: publisher, now: time.Now}
}

func (n notifier) notify(ctx context.Context, eventType types.EventType, resource, id, userID string) {
	if n.publisher == nil {
		return
	}

	event := types.ResourceEvent{
		Type:       eventType,
		Resource:   resource,
		ResourceID: id,
		UserID:     userID,
		OccurredAt: n.now().UTC(),
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "failed to publish resource event",
			"event", string(eventType),
			"resource_id", id,
			"error", err,
		)
	}
}
