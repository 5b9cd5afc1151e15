package item

import (
	"context"

	"github.com/google/uuid"

	"github.com/Shiggorat/shareit/internal/common/domain"
)

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// FindByOwnerID lists the owner's items ordered by creation time ascending.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page domain.Page) ([]*Item, error)
	// Search lists available items whose name or description contains text, ignoring case.
	Search(ctx context.Context, text string, page domain.Page) ([]*Item, error)
	// FindByRequestIDs groups the items answering each request.
	FindByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID][]*Item, error)
	Save(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) error
	// FindByItemIDs groups comments by item, oldest first.
	FindByItemIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]*Comment, error)
}
