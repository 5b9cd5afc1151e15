package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Shiggorat/shareit/internal/common/domain"
	"github.com/Shiggorat/shareit/internal/common/kafka"
	bookingDomain "github.com/Shiggorat/shareit/internal/domain/booking"
	"github.com/Shiggorat/shareit/internal/events"
)

// EventPublisher sends CloudEvents; *kafka.Producer and events.LogPublisher implement it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// BookingItemDTO is the item part of a booking view.
type BookingItemDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BookingBookerDTO is the booker part of a booking view.
type BookingBookerDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     uuid.UUID        `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Item   BookingItemDTO   `json:"item"`
	Booker BookingBookerDTO `json:"booker"`
	Status string           `json:"status"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	store     Store
	publisher EventPublisher
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(store Store, publisher EventPublisher, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer("shareit/booking"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used to classify bookings.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// CreateBooking requests a booking of an item. Checks run in a fixed order and the
// first failure is returned: range, booker, item, ownership, availability.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (_ *BookingDTO, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.CreateBooking", trace.WithAttributes(
		attribute.String("booker.id", bookerID.String()),
		attribute.String("item.id", req.ItemID.String()),
	))
	defer func() { endSpan(span, err) }()

	if err := bookingDomain.ValidateRange(req.Start, req.End); err != nil {
		return nil, err
	}

	var bk *bookingDomain.Booking
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		booker, err := repos.Users.FindByID(ctx, bookerID)
		if err != nil {
			return err
		}
		it, err := repos.Items.FindByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		bk, err = bookingDomain.NewBooking(
			bookingDomain.UserRef{ID: booker.ID(), Name: booker.Name()},
			bookingDomain.ItemRef{ID: it.ID(), Name: it.Name(), OwnerID: it.OwnerID(), Available: it.Available()},
			req.Start, req.End,
		)
		if err != nil {
			return err
		}
		if err := repos.Bookings.Save(ctx, bk); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking requested",
		zap.String("booking_id", bk.ID().String()),
		zap.String("item_id", bk.Item().ID.String()),
		zap.String("booker_id", bookerID.String()),
	)

	s.publishEvent(ctx, events.BookingRequested, bk.ID().String(), events.BookingRequestedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.Item().ID,
		OwnerID:    bk.Item().OwnerID,
		BookerID:   bk.Booker().ID,
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// DecideBooking approves or rejects a booking on behalf of the item owner. The booking
// row is locked for the whole decision and the write is version-checked, so two
// concurrent decisions cannot both succeed.
func (s *BookingService) DecideBooking(ctx context.Context, actorID, bookingID uuid.UUID, approved bool) (_ *BookingDTO, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.DecideBooking", trace.WithAttributes(
		attribute.String("actor.id", actorID.String()),
		attribute.String("booking.id", bookingID.String()),
		attribute.Bool("approved", approved),
	))
	defer func() { endSpan(span, err) }()

	var bk *bookingDomain.Booking
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		bk, err = repos.Bookings.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := requireUser(ctx, repos, actorID); err != nil {
			return err
		}
		if err := bk.Decide(actorID, approved); err != nil {
			return err
		}
		bk.IncrementVersion()
		return repos.Bookings.Update(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking decided",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", bk.Status().String()),
		zap.String("owner_id", actorID.String()),
	)

	eventType := events.BookingRejected
	if bk.Status() == bookingDomain.StatusApproved {
		eventType = events.BookingApproved
	}
	s.publishEvent(ctx, eventType, bk.ID().String(), events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     bk.Item().ID,
		OwnerID:    bk.Item().OwnerID,
		BookerID:   bk.Booker().ID,
		Status:     bk.Status().String(),
		OccurredAt: time.Now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking returns a booking to its booker or the item owner. Anyone else gets NOT_FOUND.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (_ *BookingDTO, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.GetBooking", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("booking.id", bookingID.String()),
	))
	defer func() { endSpan(span, err) }()

	repos := s.store.Repos()
	bk, err := repos.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, repos, userID); err != nil {
		return nil, err
	}
	if !bk.IsVisibleTo(userID) {
		return nil, domain.NewNotFoundError("Booking", bookingID.String())
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookerBookings lists bookings the user made, filtered by state, newest start first.
func (s *BookingService) ListBookerBookings(ctx context.Context, userID uuid.UUID, state bookingDomain.State, page domain.Page) ([]BookingDTO, error) {
	return s.listBookings(ctx, bookingDomain.RoleBooker, userID, state, page)
}

// ListOwnerBookings lists bookings of the user's items, filtered by state, newest start first.
func (s *BookingService) ListOwnerBookings(ctx context.Context, userID uuid.UUID, state bookingDomain.State, page domain.Page) ([]BookingDTO, error) {
	return s.listBookings(ctx, bookingDomain.RoleOwner, userID, state, page)
}

func (s *BookingService) listBookings(
	ctx context.Context,
	role bookingDomain.Role,
	userID uuid.UUID,
	state bookingDomain.State,
	page domain.Page,
) (_ []BookingDTO, err error) {
	ctx, span := s.tracer.Start(ctx, "BookingService.ListBookings", trace.WithAttributes(
		attribute.String("role", role.String()),
		attribute.String("user.id", userID.String()),
		attribute.String("state", string(state)),
	))
	defer func() { endSpan(span, err) }()

	if page.Size <= 0 || page.From < 0 {
		return nil, domain.NewValidationError("from must not be negative and size must be positive")
	}

	repos := s.store.Repos()
	if err := requireUser(ctx, repos, userID); err != nil {
		return nil, err
	}

	criteria, err := bookingDomain.Classify(state, s.now())
	if err != nil {
		return nil, err
	}

	bookings, err := repos.Bookings.FindByRole(ctx, role, userID, criteria, page)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:     bk.ID(),
		Start:  bk.Start(),
		End:    bk.End(),
		Item:   BookingItemDTO{ID: bk.Item().ID, Name: bk.Item().Name},
		Booker: BookingBookerDTO{ID: bk.Booker().ID, Name: bk.Booker().Name},
		Status: bk.Status().String(),
	}
}

// requireUser fails with NOT_FOUND unless the user exists.
func requireUser(ctx context.Context, repos Repositories, userID uuid.UUID) error {
	exists, err := repos.Users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewNotFoundError("User", userID.String())
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(events.Source, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = key

	if err := s.publisher.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
