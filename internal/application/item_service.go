package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shiggorat/shareit/internal/common/domain"
	bookingDomain "github.com/Shiggorat/shareit/internal/domain/booking"
	itemDomain "github.com/Shiggorat/shareit/internal/domain/item"
)

// CreateItemRequest is the request DTO for listing an item.
type CreateItemRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Available   *bool      `json:"available" binding:"required"`
	RequestID   *uuid.UUID `json:"requestId"`
}

// UpdateItemRequest is the request DTO for a partial item update.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest is the request DTO for commenting on an item.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemDTO is the API response representation of an item.
type ItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Available   bool       `json:"available"`
	RequestID   *uuid.UUID `json:"requestId,omitempty"`
}

// BookingShortDTO is the booking summary attached to an owner's item.
type BookingShortDTO struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentDTO is the API response representation of a comment.
type CommentDTO struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemDetailsDTO is an item with its comments and, for the owner, the surrounding approved bookings.
type ItemDetailsDTO struct {
	ItemDTO
	LastBooking *BookingShortDTO `json:"lastBooking"`
	NextBooking *BookingShortDTO `json:"nextBooking"`
	Comments    []CommentDTO     `json:"comments"`
}

// ItemService implements use cases for the item catalog and comments.
type ItemService struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(store Store, logger *zap.Logger) *ItemService {
	return &ItemService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for the comment gate and booking enrichment.
func (s *ItemService) WithClock(now func() time.Time) *ItemService {
	s.now = now
	return s
}

// CreateItem lists a new item for the owner, optionally answering an item request.
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	available := req.Available != nil && *req.Available

	var it *itemDomain.Item
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		if err := requireUser(ctx, repos, ownerID); err != nil {
			return err
		}
		if req.RequestID != nil {
			exists, err := repos.Requests.ExistsByID(ctx, *req.RequestID)
			if err != nil {
				return err
			}
			if !exists {
				return domain.NewNotFoundError("ItemRequest", req.RequestID.String())
			}
		}

		var err error
		it, err = itemDomain.NewItem(ownerID, req.Name, req.Description, available, req.RequestID)
		if err != nil {
			return err
		}
		if err := repos.Items.Save(ctx, it); err != nil {
			return fmt.Errorf("failed to save item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		zap.String("item_id", it.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)

	dto := toItemDTO(it)
	return &dto, nil
}

// UpdateItem applies a partial update. Only the owner may update; others get NOT_FOUND.
func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	var it *itemDomain.Item
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		it, err = ownedItem(ctx, repos, userID, itemID)
		if err != nil {
			return err
		}
		if err := it.Update(req.Name, req.Description, req.Available); err != nil {
			return err
		}
		return repos.Items.Update(ctx, it)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item updated",
		zap.String("item_id", itemID.String()),
		zap.Bool("available", it.Available()),
	)

	dto := toItemDTO(it)
	return &dto, nil
}

// DeleteItem removes an item. Only the owner may delete; others get NOT_FOUND.
func (s *ItemService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		if _, err := ownedItem(ctx, repos, userID, itemID); err != nil {
			return err
		}
		return repos.Items.Delete(ctx, itemID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("item deleted", zap.String("item_id", itemID.String()))
	return nil
}

// GetItem returns an item with its comments. Last and next bookings are only filled for the owner.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ItemDetailsDTO, error) {
	repos := s.store.Repos()
	if err := requireUser(ctx, repos, userID); err != nil {
		return nil, err
	}
	it, err := repos.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details, err := s.enrich(ctx, repos, []*itemDomain.Item{it}, it.IsOwnedBy(userID))
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListOwnerItems lists the owner's items, oldest first, each with comments and last/next bookings.
// Comments and bookings for the whole page are loaded in one query each.
func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID uuid.UUID, page domain.Page) ([]ItemDetailsDTO, error) {
	repos := s.store.Repos()
	if err := requireUser(ctx, repos, ownerID); err != nil {
		return nil, err
	}
	items, err := repos.Items.FindByOwnerID(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, repos, items, true)
}

// SearchItems finds available items by text in name or description. Blank text finds nothing.
func (s *ItemService) SearchItems(ctx context.Context, text string, page domain.Page) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}
	items, err := s.store.Repos().Items.Search(ctx, text, page)
	if err != nil {
		return nil, err
	}
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	return dtos, nil
}

// CreateComment stores a comment from a user who has a booking of the item that already ended.
func (s *ItemService) CreateComment(ctx context.Context, userID, itemID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	now := s.now()

	var c *itemDomain.Comment
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		author, err := repos.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if _, err := repos.Items.FindByID(ctx, itemID); err != nil {
			return err
		}

		finished, err := repos.Bookings.HasFinishedBooking(ctx, userID, itemID, now)
		if err != nil {
			return err
		}
		if !finished {
			return domain.NewValidationError("user has not finished a booking of this item")
		}

		c, err = itemDomain.NewComment(itemID, userID, author.Name(), req.Text)
		if err != nil {
			return err
		}
		return repos.Comments.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		zap.String("item_id", itemID.String()),
		zap.String("author_id", userID.String()),
	)

	dto := toCommentDTO(c)
	return &dto, nil
}

// enrich attaches comments to every item and, when withBookings is set, the last and
// next approved booking per item.
func (s *ItemService) enrich(ctx context.Context, repos Repositories, items []*itemDomain.Item, withBookings bool) ([]ItemDetailsDTO, error) {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}

	comments, err := repos.Comments.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var last, next map[uuid.UUID]*bookingDomain.Booking
	if withBookings {
		now := s.now()
		if last, err = repos.Bookings.FindLastApproved(ctx, ids, now); err != nil {
			return nil, err
		}
		if next, err = repos.Bookings.FindNextApproved(ctx, ids, now); err != nil {
			return nil, err
		}
	}

	out := make([]ItemDetailsDTO, len(items))
	for i, it := range items {
		d := ItemDetailsDTO{
			ItemDTO:     toItemDTO(it),
			LastBooking: toBookingShortDTO(last[it.ID()]),
			NextBooking: toBookingShortDTO(next[it.ID()]),
			Comments:    make([]CommentDTO, 0, len(comments[it.ID()])),
		}
		for _, c := range comments[it.ID()] {
			d.Comments = append(d.Comments, toCommentDTO(c))
		}
		out[i] = d
	}
	return out, nil
}

// ownedItem loads the item and hides it from anyone but its owner.
func ownedItem(ctx context.Context, repos Repositories, userID, itemID uuid.UUID) (*itemDomain.Item, error) {
	it, err := repos.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(userID) {
		return nil, domain.NewNotFoundError("Item", itemID.String())
	}
	return it, nil
}

// --- Conversions ---

func toItemDTO(it *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
	}
}

func toBookingShortDTO(bk *bookingDomain.Booking) *BookingShortDTO {
	if bk == nil {
		return nil
	}
	return &BookingShortDTO{
		ID:       bk.ID(),
		BookerID: bk.Booker().ID,
		Start:    bk.Start(),
		End:      bk.End(),
	}
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.AuthorName(),
		Created:    c.CreatedAt(),
	}
}
