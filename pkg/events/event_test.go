package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()

	before := time.Now().UTC()
	event := NewBaseEvent("credit.prediction.completed", aggregateID, "CreditAssessment", []byte(`{"a":1}`))
	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "credit.prediction.completed", event.EventType())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "CreditAssessment", event.AggregateType())
	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
	assert.JSONEq(t, `{"a":1}`, string(event.Payload()))
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	event := NewBaseEvent("credit.high_risk.detected", uuid.New(), "CreditAssessment", []byte(`{"decision":"REJECT"}`))

	data, err := NewEnvelope(event).Marshal()
	require.NoError(t, err)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), env.ID)
	assert.Equal(t, event.EventType(), env.Type)
	assert.Equal(t, event.AggregateID(), env.AggregateID)
	assert.True(t, event.OccurredAt().Equal(env.OccurredAt))
	assert.JSONEq(t, `{"decision":"REJECT"}`, string(env.Payload))
}

func TestEnvelopeNonJSONPayload(t *testing.T) {
	event := NewBaseEvent("x", uuid.New(), "Agg", []byte("plain text"))
	env := NewEnvelope(event)
	assert.JSONEq(t, `"plain text"`, string(env.Payload))
}

func TestDecodeEnvelopeErrors(t *testing.T) {
	_, err := DecodeEnvelope([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"id":"` + uuid.NewString() + `"}`))
	assert.Error(t, err)
}

func TestNewBaseEventAt(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 0, 0, 0, time.FixedZone("UTC+2", 2*60*60))
	event := NewBaseEventAt("credit.prediction.completed", uuid.New(), "CreditAssessment", nil, at)
	assert.Equal(t, time.UTC, event.OccurredAt().Location())
	assert.True(t, event.OccurredAt().Equal(at))

	zero := NewBaseEventAt("x", uuid.New(), "Agg", nil, time.Time{})
	assert.False(t, zero.OccurredAt().IsZero())
}

func TestCollector(t *testing.T) {
	var collector Collector
	assert.Nil(t, collector.Drain())

	aggregateID := uuid.New()
	collector.Record(NewBaseEvent("Event1", aggregateID, "Aggregate", nil))
	collector.Record(NewBaseEvent("Event2", aggregateID, "Aggregate", nil), NewBaseEvent("Event3", aggregateID, "Aggregate", nil))
	assert.Equal(t, 3, collector.Pending())

	drained := collector.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, "Event1", drained[0].EventType())
	assert.Equal(t, "Event3", drained[2].EventType())
	assert.Zero(t, collector.Pending())
	assert.Nil(t, collector.Drain())
}
