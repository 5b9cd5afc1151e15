package application

import (
	"context"

	"github.com/Shiggorat/shareit/internal/domain/booking"
	"github.com/Shiggorat/shareit/internal/domain/item"
	"github.com/Shiggorat/shareit/internal/domain/request"
	"github.com/Shiggorat/shareit/internal/domain/user"
)

// Repositories is the set of repositories bound to one database handle.
type Repositories struct {
	Users    user.UserRepository
	Items    item.ItemRepository
	Comments item.CommentRepository
	Requests request.ItemRequestRepository
	Bookings booking.BookingRepository
}

// Store is the unit-of-work boundary. Repos reads outside any transaction;
// WithinTransaction hands fn repositories bound to a transaction that commits
// when fn returns nil and rolls back otherwise.
type Store interface {
	Repos() Repositories
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
