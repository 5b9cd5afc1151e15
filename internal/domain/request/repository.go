package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/Shiggorat/shareit/internal/common/domain"
)

// ItemRequestRepository defines persistence operations for item requests.
type ItemRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ItemRequest, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	// FindByRequesterID lists the user's own requests, newest first.
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*ItemRequest, error)
	// FindOthers lists requests of everyone except the user, newest first.
	FindOthers(ctx context.Context, userID uuid.UUID, page domain.Page) ([]*ItemRequest, error)
	Save(ctx context.Context, req *ItemRequest) error
}
