package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Shiggorat/shareit/internal/common/domain"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking together with its item and booker references.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByIDForUpdate is FindByID holding a row lock until the enclosing transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByRole lists bookings where the user is the booker or the item owner,
	// filtered by criteria and sorted by start descending.
	FindByRole(ctx context.Context, role Role, userID uuid.UUID, criteria Criteria, page domain.Page) ([]*Booking, error)

	// HasFinishedBooking reports whether the user has any booking of the item that ended before now.
	HasFinishedBooking(ctx context.Context, bookerID, itemID uuid.UUID, now time.Time) (bool, error)

	// FindLastApproved returns, per item, the approved booking with start <= now and the latest end.
	FindLastApproved(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*Booking, error)

	// FindNextApproved returns, per item, the approved booking with start > now and the earliest end.
	FindNextApproved(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*Booking, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
