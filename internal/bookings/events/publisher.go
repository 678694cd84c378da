package events

import (
	"context"
	"encoding/json"

	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

const (
	TypeBookingCreated = "booking.created"
	TypeBookingUpdated = "booking.updated"
	TypeBookingDeleted = "booking.deleted"
)

// Event is the wire shape of a booking lifecycle notification. OccurredAt
// is the record's own mutation timestamp (created_at or updated_at), in
// unix nanoseconds.
type Event struct {
	Type       string         `json:"type"`
	BookingID  string         `json:"booking_id"`
	OccurredAt int64          `json:"occurred_at"`
	Booking    *model.Booking `json:"booking"`
}

// Producer is the transport the publisher writes to, satisfied by
// kafka.Producer.
type Producer interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Publisher emits lifecycle events keyed by booking id, so events for one
// booking stay ordered. Failures are logged and swallowed: event delivery
// never affects the outcome of a store operation.
type Publisher struct {
	producer Producer
	log      *logger.Logger
}

func NewPublisher(producer Producer, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, log: log}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, TypeBookingCreated, booking, booking.CreatedAt)
}

func (p *Publisher) BookingUpdated(ctx context.Context, booking *model.Booking) {
	occurredAt := booking.CreatedAt
	if booking.UpdatedAt != nil {
		occurredAt = *booking.UpdatedAt
	}
	p.publish(ctx, TypeBookingUpdated, booking, occurredAt)
}

func (p *Publisher) BookingDeleted(ctx context.Context, booking *model.Booking) {
	occurredAt := booking.CreatedAt
	if booking.UpdatedAt != nil {
		occurredAt = *booking.UpdatedAt
	}
	p.publish(ctx, TypeBookingDeleted, booking, occurredAt)
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking, occurredAt int64) {
	event := Event{
		Type:       eventType,
		BookingID:  booking.ID,
		OccurredAt: occurredAt,
		Booking:    booking,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to marshal booking event", "type", eventType, "id", booking.ID, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, booking.ID, payload); err != nil {
		p.log.Error("Failed to publish booking event", "type", eventType, "id", booking.ID, "error", err)
		return
	}

	p.log.Debug("Booking event published", "type", eventType, "id", booking.ID)
}
