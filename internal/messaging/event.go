package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const eventVersion = 1

// Envelope wraps every domain event published on the bus.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope builds an envelope around payload. correlationID is usually the order id.
func NewEnvelope(producer, eventType, correlationID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

// PublishEvent wraps payload in an envelope and publishes it keyed by correlationID.
func PublishEvent(ctx context.Context, client Client, producer, eventType, correlationID string, payload any) error {
	env, err := NewEnvelope(producer, eventType, correlationID, payload)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return client.Publish(ctx, []byte(correlationID), body, map[string]string{
		HeaderEventType:    eventType,
		HeaderEventVersion: strconv.Itoa(eventVersion),
	})
}

// DecodeEvent unmarshals an envelope and its payload into v.
func DecodeEvent(msg Message, v any) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return env, fmt.Errorf("decode %s payload: %w", env.EventType, err)
	}
	return env, nil
}
