package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is one event as published to a topic. The key is the booking
// id so all events for a booking land on the same partition, in order.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSource        = "source"
	HeaderSchemaVersion = "schema-version"
)

// NewMessage builds an event message with the standard headers.
func NewMessage(key, eventType, source string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode event payload: %w", err)
	}

	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderEventID:       uuid.NewString(),
			HeaderEventType:     eventType,
			HeaderSource:        source,
			HeaderSchemaVersion: "1",
		},
		Timestamp: time.Now().UTC(),
	}, nil
}
