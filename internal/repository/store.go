package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Shiggorat/shareit/internal/application"
)

// GormStore implements application.Store on a GORM handle.
type GormStore struct {
	db    *gorm.DB
	repos application.Repositories
}

// NewGormStore creates a store whose Repos run on db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, repos: reposFor(db)}
}

func reposFor(db *gorm.DB) application.Repositories {
	return application.Repositories{
		Users:    NewGormUserRepository(db),
		Items:    NewGormItemRepository(db),
		Comments: NewGormCommentRepository(db),
		Requests: NewGormItemRequestRepository(db),
		Bookings: NewGormBookingRepository(db),
	}
}

// Repos returns repositories bound to the root handle.
func (s *GormStore) Repos() application.Repositories {
	return s.repos
}

// WithinTransaction runs fn with every repository rebound to one transaction.
func (s *GormStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos application.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, reposFor(tx))
	})
}

// Models lists every persisted model, in dependency order, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&UserModel{},
		&ItemRequestModel{},
		&ItemModel{},
		&BookingModel{},
		&CommentModel{},
	}
}
