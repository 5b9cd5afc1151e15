// Package testutil builds in-memory databases and seed data for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Shiggorat/shareit/internal/application"
	"github.com/Shiggorat/shareit/internal/common/database"
	"github.com/Shiggorat/shareit/internal/domain/booking"
	"github.com/Shiggorat/shareit/internal/domain/item"
	"github.com/Shiggorat/shareit/internal/domain/request"
	"github.com/Shiggorat/shareit/internal/domain/user"
	"github.com/Shiggorat/shareit/internal/repository"
)

// NewDB opens a private in-memory sqlite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repository.Models()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore returns a GORM store over a fresh database.
func NewStore(t testing.TB) *repository.GormStore {
	t.Helper()
	return repository.NewGormStore(NewDB(t))
}

// Seeder writes fixtures straight through the repositories.
type Seeder struct {
	t     testing.TB
	repos application.Repositories
}

func NewSeeder(t testing.TB, store application.Store) *Seeder {
	return &Seeder{t: t, repos: store.Repos()}
}

func (s *Seeder) User(name string) *user.User {
	s.t.Helper()
	u, err := user.NewUser(name, name+"-"+uuid.NewString()[:8]+"@example.com")
	require.NoError(s.t, err)
	require.NoError(s.t, s.repos.Users.Save(context.Background(), u))
	return u
}

func (s *Seeder) Item(owner *user.User, name string, available bool) *item.Item {
	s.t.Helper()
	it, err := item.NewItem(owner.ID(), name, name+" for rent", available, nil)
	require.NoError(s.t, err)
	require.NoError(s.t, s.repos.Items.Save(context.Background(), it))
	return it
}

func (s *Seeder) AnswerItem(owner *user.User, name string, req *request.ItemRequest) *item.Item {
	s.t.Helper()
	id := req.ID()
	it, err := item.NewItem(owner.ID(), name, name+" for rent", true, &id)
	require.NoError(s.t, err)
	require.NoError(s.t, s.repos.Items.Save(context.Background(), it))
	return it
}

func (s *Seeder) Request(requester *user.User, description string) *request.ItemRequest {
	s.t.Helper()
	r, err := request.NewItemRequest(requester.ID(), description)
	require.NoError(s.t, err)
	require.NoError(s.t, s.repos.Requests.Save(context.Background(), r))
	return r
}

// Booking stores a booking with the given range and status, bypassing creation checks so
// that past and decided bookings can be arranged directly.
func (s *Seeder) Booking(booker *user.User, it *item.Item, start, end time.Time, status booking.BookingStatus) *booking.Booking {
	s.t.Helper()
	now := time.Now().UTC()
	bk := booking.ReconstructBooking(
		uuid.New(),
		booking.ItemRef{ID: it.ID(), Name: it.Name(), OwnerID: it.OwnerID(), Available: it.Available()},
		booking.UserRef{ID: booker.ID(), Name: booker.Name()},
		start.UTC(), end.UTC(),
		status,
		1,
		now, now,
	)
	require.NoError(s.t, s.repos.Bookings.Save(context.Background(), bk))
	return bk
}
