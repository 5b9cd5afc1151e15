package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shiggorat/shareit/internal/application"
	"github.com/Shiggorat/shareit/internal/common/domain"
	"github.com/Shiggorat/shareit/internal/testutil"
)

func TestUserService_Lifecycle(t *testing.T) {
	svc := application.NewUserService(testutil.NewStore(t), zap.NewNop())
	ctx := context.Background()

	ann, err := svc.CreateUser(ctx, application.CreateUserRequest{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, application.CreateUserRequest{Name: "Ann 2", Email: "ann@example.com"})
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	_, err = svc.CreateUser(ctx, application.CreateUserRequest{Name: "Bad", Email: "bad"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	updated, err := svc.UpdateUser(ctx, ann.ID, application.UpdateUserRequest{Name: ptr("Anna")})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)

	_, err = svc.UpdateUser(ctx, uuid.New(), application.UpdateUserRequest{Name: ptr("Ghost")})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	all, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteUser(ctx, ann.ID))
	_, err = svc.GetUser(ctx, ann.ID)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.True(t, domain.IsKind(svc.DeleteUser(ctx, ann.ID), domain.KindNotFound))
}
