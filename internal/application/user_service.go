package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userDomain "github.com/Shiggorat/shareit/internal/domain/user"
)

// CreateUserRequest is the request DTO for registering a user.
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UpdateUserRequest is the request DTO for a partial user update.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UserDTO is the API response representation of a user.
type UserDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// UserService implements the user directory use cases.
type UserService struct {
	store  Store
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store Store, logger *zap.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// CreateUser registers a user. A duplicate email is a CONFLICT.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Name, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.store.Repos().Users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", u.ID().String()))

	dto := toUserDTO(u)
	return &dto, nil
}

// GetUser returns a single user.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	u, err := s.store.Repos().Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

// ListUsers returns every user in registration order.
func (s *UserService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.store.Repos().Users.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// UpdateUser applies a partial update. Changing to an email already in use is a CONFLICT.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	var u *userDomain.User
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		u, err = repos.Users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := u.Update(req.Name, req.Email); err != nil {
			return err
		}
		return repos.Users.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.String("user_id", id.String()))

	dto := toUserDTO(u)
	return &dto, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Repos().Users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}
