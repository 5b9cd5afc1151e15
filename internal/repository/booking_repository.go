package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Shiggorat/shareit/internal/common/domain"
	bookingDomain "github.com/Shiggorat/shareit/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BookerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StartAt   time.Time `gorm:"not null"`
	EndAt     time.Time `gorm:"not null"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Item   *ItemModel `gorm:"foreignKey:ItemID"`
	Booker *UserModel `gorm:"foreignKey:BookerID"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Item").Preload("Booker")
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.withRefs(ctx).Where("bookings.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByIDForUpdate locks the booking row, then loads it with its references.
// The lock is taken on bookings alone; postgres rejects FOR UPDATE across an outer join.
func (r *GormBookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var locked BookingModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", id).
		First(&locked).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to lock booking: %w", err)
	}
	return r.FindByID(ctx, id)
}

// FindByRole lists a booker's or an owner's bookings matching the criteria, newest start first.
func (r *GormBookingRepository) FindByRole(
	ctx context.Context,
	role bookingDomain.Role,
	userID uuid.UUID,
	criteria bookingDomain.Criteria,
	page domain.Page,
) ([]*bookingDomain.Booking, error) {
	q := r.withRefs(ctx).Model(&BookingModel{})

	switch role {
	case bookingDomain.RoleOwner:
		owned := r.db.WithContext(ctx).Model(&ItemModel{}).Select("id").Where("owner_id = ?", userID)
		q = q.Where("bookings.item_id IN (?)", owned)
	default:
		q = q.Where("bookings.booker_id = ?", userID)
	}
	q = applyCriteria(q, criteria)

	var models []BookingModel
	if err := q.
		Order("bookings.start_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s bookings: %w", role, err)
	}
	return toDomainBookings(models)
}

func applyCriteria(q *gorm.DB, c bookingDomain.Criteria) *gorm.DB {
	if c.StartBefore != nil {
		q = q.Where("bookings.start_at < ?", c.StartBefore.UTC())
	}
	if c.StartAfter != nil {
		q = q.Where("bookings.start_at > ?", c.StartAfter.UTC())
	}
	if c.EndBefore != nil {
		q = q.Where("bookings.end_at < ?", c.EndBefore.UTC())
	}
	if c.EndAfter != nil {
		q = q.Where("bookings.end_at > ?", c.EndAfter.UTC())
	}
	if c.Status != nil {
		q = q.Where("bookings.status = ?", c.Status.String())
	}
	return q
}

// HasFinishedBooking reports whether bookerID has any booking of itemID ending before now, in any status.
func (r *GormBookingRepository) HasFinishedBooking(ctx context.Context, bookerID, itemID uuid.UUID, now time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("booker_id = ? AND item_id = ? AND end_at < ?", bookerID, itemID, now.UTC()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

// FindLastApproved returns, per item, the approved booking already started with the latest end.
func (r *GormBookingRepository) FindLastApproved(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	return r.firstApprovedPerItem(ctx, itemIDs, "bookings.start_at <= ?", now, "bookings.end_at DESC")
}

// FindNextApproved returns, per item, the approved booking not yet started with the earliest end.
func (r *GormBookingRepository) FindNextApproved(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	return r.firstApprovedPerItem(ctx, itemIDs, "bookings.start_at > ?", now, "bookings.end_at ASC")
}

// firstApprovedPerItem runs one query for all items and keeps the first row of each item in order.
func (r *GormBookingRepository) firstApprovedPerItem(
	ctx context.Context,
	itemIDs []uuid.UUID,
	startCond string,
	now time.Time,
	order string,
) (map[uuid.UUID]*bookingDomain.Booking, error) {
	result := make(map[uuid.UUID]*bookingDomain.Booking)
	if len(itemIDs) == 0 {
		return result, nil
	}

	var models []BookingModel
	if err := r.withRefs(ctx).
		Where("bookings.item_id IN ?", itemIDs).
		Where("bookings.status = ?", bookingDomain.StatusApproved.String()).
		Where(startCond, now.UTC()).
		Order(order).
		Order("bookings.id").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find approved bookings: %w", err)
	}

	for i := range models {
		if _, seen := result[models[i].ItemID]; seen {
			continue
		}
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		result[models[i].ItemID] = bk
	}
	return result, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	// IncrementVersion has already been called on the aggregate.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     bk.Status().String(),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		ItemID:    bk.Item().ID,
		BookerID:  bk.Booker().ID,
		StartAt:   bk.Start().UTC(),
		EndAt:     bk.End().UTC(),
		Status:    bk.Status().String(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt().UTC(),
		UpdatedAt: bk.UpdatedAt().UTC(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	item := bookingDomain.ItemRef{ID: m.ItemID}
	if m.Item != nil {
		item.Name = m.Item.Name
		item.OwnerID = m.Item.OwnerID
		item.Available = m.Item.Available
	}
	booker := bookingDomain.UserRef{ID: m.BookerID}
	if m.Booker != nil {
		booker.Name = m.Booker.Name
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		item,
		booker,
		m.StartAt,
		m.EndAt,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
