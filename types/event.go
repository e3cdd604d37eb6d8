package types

import (
	"encoding/json"
	"time"
)

// EventType names a resource change.
type EventType string

// Published event types.
const (
	EventCategoryCreated     EventType = "category.created"
	EventCategoryReplaced    EventType = "category.replaced"
	EventCategoryDeleted     EventType = "category.deleted"
	EventTransactionCreated  EventType = "transaction.created"
	EventTransactionReplaced EventType = "transaction.replaced"
	EventTransactionDeleted  EventType = "transaction.deleted"
)

// ResourceEvent is published after a category or transaction changed.
// It carries identifiers only; consumers fetch the current state if needed.
type ResourceEvent struct {
	Type       EventType `json:"type"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToJSON encodes the event for the broker.
func (e ResourceEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ResourceEventFromJSON decodes an event received from the broker.
func ResourceEventFromJSON(data []byte) (ResourceEvent, error) {
	var event ResourceEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return ResourceEvent{}, err
	}
	return event, nil
}

// Export describes a snapshot of a user's data written to object storage.
type Export struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Bucket       string    `json:"bucket"`
	Categories   int       `json:"categories"`
	Transactions int       `json:"transactions"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExportSnapshot is the document stored for an export.
type ExportSnapshot struct {
	User         User          `json:"user"`
	Categories   []Category    `json:"categories"`
	Transactions []Transaction `json:"transactions"`
	CreatedAt    time.Time     `json:"created_at"`
}
