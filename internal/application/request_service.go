package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shiggorat/shareit/internal/common/domain"
	itemDomain "github.com/Shiggorat/shareit/internal/domain/item"
	requestDomain "github.com/Shiggorat/shareit/internal/domain/request"
)

// CreateItemRequestRequest is the request DTO for asking for an item.
type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// RequestAnswerDTO is an item listed in answer to a request.
type RequestAnswerDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"ownerId"`
}

// ItemRequestDTO is the API response representation of an item request.
type ItemRequestDTO struct {
	ID          uuid.UUID          `json:"id"`
	Description string             `json:"description"`
	Created     time.Time          `json:"created"`
	Items       []RequestAnswerDTO `json:"items"`
}

// RequestService implements use cases for item requests.
type RequestService struct {
	store  Store
	logger *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(store Store, logger *zap.Logger) *RequestService {
	return &RequestService{store: store, logger: logger}
}

// CreateRequest posts a request for an item on behalf of the user.
func (s *RequestService) CreateRequest(ctx context.Context, userID uuid.UUID, req CreateItemRequestRequest) (*ItemRequestDTO, error) {
	var r *requestDomain.ItemRequest
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		if err := requireUser(ctx, repos, userID); err != nil {
			return err
		}
		var err error
		r, err = requestDomain.NewItemRequest(userID, req.Description)
		if err != nil {
			return err
		}
		if err := repos.Requests.Save(ctx, r); err != nil {
			return fmt.Errorf("failed to save item request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item request created",
		zap.String("request_id", r.ID().String()),
		zap.String("requester_id", userID.String()),
	)

	dto := toItemRequestDTO(r, nil)
	return &dto, nil
}

// ListOwnRequests lists the user's requests, newest first, with the items answering them.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID uuid.UUID) ([]ItemRequestDTO, error) {
	repos := s.store.Repos()
	if err := requireUser(ctx, repos, userID); err != nil {
		return nil, err
	}
	reqs, err := repos.Requests.FindByRequesterID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withAnswers(ctx, repos, reqs)
}

// ListOtherRequests lists everyone else's requests, newest first.
func (s *RequestService) ListOtherRequests(ctx context.Context, userID uuid.UUID, page domain.Page) ([]ItemRequestDTO, error) {
	repos := s.store.Repos()
	if err := requireUser(ctx, repos, userID); err != nil {
		return nil, err
	}
	reqs, err := repos.Requests.FindOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return withAnswers(ctx, repos, reqs)
}

// GetRequest returns any request with its answers to an existing user.
func (s *RequestService) GetRequest(ctx context.Context, userID, requestID uuid.UUID) (*ItemRequestDTO, error) {
	repos := s.store.Repos()
	if err := requireUser(ctx, repos, userID); err != nil {
		return nil, err
	}
	r, err := repos.Requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	dtos, err := withAnswers(ctx, repos, []*requestDomain.ItemRequest{r})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// withAnswers loads the answering items of all requests in one query.
func withAnswers(ctx context.Context, repos Repositories, reqs []*requestDomain.ItemRequest) ([]ItemRequestDTO, error) {
	ids := make([]uuid.UUID, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID()
	}
	answers, err := repos.Items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemRequestDTO, len(reqs))
	for i, r := range reqs {
		dtos[i] = toItemRequestDTO(r, answers[r.ID()])
	}
	return dtos, nil
}

func toItemRequestDTO(r *requestDomain.ItemRequest, answers []*itemDomain.Item) ItemRequestDTO {
	items := make([]RequestAnswerDTO, len(answers))
	for i, it := range answers {
		items[i] = RequestAnswerDTO{ID: it.ID(), Name: it.Name(), OwnerID: it.OwnerID()}
	}
	return ItemRequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		Created:     r.CreatedAt(),
		Items:       items,
	}
}
