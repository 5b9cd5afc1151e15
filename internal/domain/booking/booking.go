package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Shiggorat/shareit/internal/common/domain"
)

// ItemRef is the part of an item a booking needs: identity, display name, owner and
// availability at the time the booking is requested.
type ItemRef struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	Available bool
}

// UserRef identifies the booker.
type UserRef struct {
	ID   uuid.UUID
	Name string
}

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id     uuid.UUID
	item   ItemRef
	booker UserRef
	start  time.Time
	end    time.Time
	status BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// ValidateRange fails with INVALID_RANGE unless start is strictly before end.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return domain.NewInvalidRangeError("booking start and end are required")
	}
	if !start.Before(end) {
		return domain.NewInvalidRangeError(fmt.Sprintf(
			"booking start %s must be before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339),
		))
	}
	return nil
}

// NewBooking creates a WAITING booking. The owner check reports NOT_FOUND so that a
// booker cannot learn who owns an item.
func NewBooking(booker UserRef, item ItemRef, start, end time.Time) (*Booking, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	if booker.ID == uuid.Nil {
		return nil, domain.NewValidationError("booker ID is required")
	}
	if item.OwnerID == booker.ID {
		return nil, domain.NewNotFoundMessage("owner cannot book their own item")
	}
	if !item.Available {
		return nil, domain.NewItemUnavailableError(item.ID.String())
	}

	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		item:      item,
		booker:    booker,
		start:     start.UTC(),
		end:       end.UTC(),
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	item ItemRef,
	booker UserRef,
	start, end time.Time,
	status BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		item:      item,
		booker:    booker,
		start:     start,
		end:       end,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Item returns the booked item.
func (b *Booking) Item() ItemRef { return b.item }

// Booker returns the user who requested the booking.
func (b *Booking) Booker() UserRef { return b.booker }

// Start returns the inclusive start of the booked range.
func (b *Booking) Start() time.Time { return b.start }

// End returns the exclusive end of the booked range.
func (b *Booking) End() time.Time { return b.end }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsVisibleTo reports whether the user is the booker or the item owner.
func (b *Booking) IsVisibleTo(userID uuid.UUID) bool {
	return b.booker.ID == userID || b.item.OwnerID == userID
}

// Decide applies the owner's approval or rejection.
func (b *Booking) Decide(actorID uuid.UUID, approved bool) error {
	if b.item.OwnerID != actorID {
		return domain.NewForbiddenError("only the item owner can decide on a booking")
	}
	target := DecisionStatus(approved)
	if b.status == target {
		return domain.NewConflictError(fmt.Sprintf("booking %s is already %s", b.id, target))
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewConflictError(fmt.Sprintf("booking %s cannot move from %s to %s", b.id, b.status, target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
