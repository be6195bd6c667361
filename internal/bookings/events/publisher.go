// Package events emits booking lifecycle events to Kafka. Publishing is
// best effort and happens after the document write; a broker outage is
// logged and never fails the request.
package events

import (
	"context"
	"time"

	"travelwindow/pkg/kafka"
	"travelwindow/pkg/logger"
	"travelwindow/pkg/model"
)

// Event types carried on the booking stream.
const (
	TypeCreated            = "booking.created"
	TypeUpdated            = "booking.updated"
	TypeSubmitted          = "booking.submitted"
	TypeVerified           = "booking.verified"
	TypeAmended            = "booking.amended"
	TypeCancelled          = "booking.cancelled"
	TypeRefundProcessed    = "booking.refund_processed"
	TypeCancellationRevert = "booking.cancellation_reverted"
	TypeAssigned           = "booking.assigned"
)

const source = "bookings-service"

// payload is the event body. Keyed by booking id so per-booking
// ordering survives partitioning.
type payload struct {
	BookingID  string    `json:"bookingId"`
	PNR        string    `json:"pnr"`
	Status     string    `json:"status"`
	Revision   int64     `json:"revision"`
	ActorID    string    `json:"actorId"`
	ActorRole  string    `json:"actorRole"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher sends booking events. A nil Publisher is a valid no-op, so
// callers never branch on whether events are enabled.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewPublisher(producer *kafka.Producer, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, log: log}
}

// Publish emits one event for the booking. Errors are swallowed after
// logging; the state change has already been persisted.
func (p *Publisher) Publish(ctx context.Context, eventType string, b *model.Booking, actor model.Actor) {
	if p == nil || p.producer == nil {
		return
	}

	msg, err := kafka.NewMessage(b.ID, eventType, source, payload{
		BookingID:  b.ID,
		PNR:        b.PNR,
		Status:     b.Status,
		Revision:   b.Revision,
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		p.log.Error("failed to build booking event", "error", err, "bookingId", b.ID, "type", eventType)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("failed to publish booking event", "error", err, "bookingId", b.ID, "type", eventType)
	}
}
