// Package events carries domain events from aggregates to the transactional outbox.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	OwnerID() string
	OccurredAt() time.Time
}

// BaseEvent supplies the envelope half of DomainEvent. Concrete events embed it and add
// exported payload fields; only those fields are serialized into the outbox payload.
type BaseEvent struct {
	id            string
	eventType     string
	aggregateID   string
	aggregateType string
	ownerID       string
	occurredAt    time.Time
}

// NewBaseEvent creates a BaseEvent with a generated ID stamped at the current time.
func NewBaseEvent(eventType, aggregateID, aggregateType, ownerID string) BaseEvent {
	return BaseEvent{
		id:            uuid.NewString(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		ownerID:       ownerID,
		occurredAt:    time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.id }
func (e BaseEvent) EventType() string     { return e.eventType }
func (e BaseEvent) AggregateID() string   { return e.aggregateID }
func (e BaseEvent) AggregateType() string { return e.aggregateType }
func (e BaseEvent) OwnerID() string       { return e.ownerID }
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }
