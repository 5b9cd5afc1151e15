package events

import (
	"time"

	"github.com/google/uuid"
)

// Source is the CloudEvents source of everything this service publishes.
const Source = "shareit-server"

// TopicBookingEvents carries the booking lifecycle.
const TopicBookingEvents = "booking.events"

const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
)

// BookingRequestedEvent is published after a booking is created.
type BookingRequestedEvent struct {
	BookingID  uuid.UUID `json:"bookingId"`
	ItemID     uuid.UUID `json:"itemId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	BookerID   uuid.UUID `json:"bookerId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookingDecidedEvent is published after the owner approves or rejects a booking.
type BookingDecidedEvent struct {
	BookingID  uuid.UUID `json:"bookingId"`
	ItemID     uuid.UUID `json:"itemId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	BookerID   uuid.UUID `json:"bookerId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}
