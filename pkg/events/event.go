// Package events defines the domain event contract shared by the scoring
// aggregates and the bus publishers.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
	Payload() []byte
}

// BaseEvent carries the envelope fields of a DomainEvent. Concrete events
// embed it next to their typed data.
type BaseEvent struct {
	occurredAt    time.Time
	eventType     string
	aggregateType string
	payload       []byte
	id            uuid.UUID
	aggregateID   uuid.UUID
}

// NewBaseEvent stamps an event with a fresh id at the current time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte) BaseEvent {
	return NewBaseEventAt(eventType, aggregateID, aggregateType, payload, time.Now())
}

// NewBaseEventAt stamps an event with a fresh id at, in UTC. A zero at falls
// back to the current time.
func NewBaseEventAt(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte, at time.Time) BaseEvent {
	if at.IsZero() {
		at = time.Now()
	}
	return BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    at.UTC(),
		payload:       payload,
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e BaseEvent) Payload() []byte        { return e.payload }

// Collector buffers the events an aggregate raises until they are drained
// for publishing. The zero value is ready to use.
type Collector struct {
	pending []DomainEvent
}

// Record queues events in the order given.
func (c *Collector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Pending reports how many events are queued.
func (c *Collector) Pending() int {
	return len(c.pending)
}

// Drain hands over the queued events and empties the buffer.
func (c *Collector) Drain() []DomainEvent {
	out := c.pending
	c.pending = nil
	return out
}
