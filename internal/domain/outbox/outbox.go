package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Event is a transactional outbox row. Rows are written in the same
// database transaction as the business mutation they describe and are
// immutable afterwards, except for PublishedAt which is set exactly once
// when the publisher ships the event to the broker.
type Event struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewEvent creates an unpublished outbox event.
func NewEvent(aggregateType, aggregateID, eventType string, payload map[string]any) *Event {
	return &Event{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
}

// IsPublished reports whether the event has been delivered to the broker.
func (e *Event) IsPublished() bool {
	return e.PublishedAt != nil
}
