package mq

import (
	"context"
	"fmt"

	"github.com/financeapi/apiserver/types"
)

// EventPublisher publishes resource change events to a single channel.
type EventPublisher struct {
	mq      *MQ
	channel string
}

// NewEventPublisher returns a publisher writing to channel.
func NewEventPublisher(m *MQ, channel string) *EventPublisher {
	return &EventPublisher{mq: m, channel: channel}
}

// Publish encodes the event as JSON and sends it.
func (p *EventPublisher) Publish(ctx context.Context, event types.ResourceEvent) error {
	data, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	attrs := map[string]string{
		AttrContentType: "application/json",
		AttrEventType:   string(event.Type),
	}
	if _, err := p.mq.Publish(ctx, p.channel, data, attrs); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// EventHandler processes a decoded resource event.
type EventHandler func(ctx context.Context, event types.ResourceEvent) error

// SubscribeEvents consumes resource events from channel until ctx is done.
// Messages that cannot be decoded are acknowledged and skipped; onInvalid is
// called for each of them when non-nil.
func SubscribeEvents(ctx context.Context, m *MQ, channel string, handler EventHandler, onInvalid func(Message, error)) error {
	return m.Subscribe(ctx, channel, func(ctx context.Context, msg Message) error {
		event, err := types.ResourceEventFromJSON(msg.Data)
		if err != nil {
			if onInvalid != nil {
				onInvalid(msg, err)
			}
			return nil
		}
		return handler(ctx, event)
	})
}
