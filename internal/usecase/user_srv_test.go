package usecase

import (
	"context"
	"testing"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/dto/request"
	"catalog-api/pkg/utils"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.service.User.Create(ctx, &request.CreateUserRequest{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, created.Role)

	_, err = env.service.User.Create(ctx, &request.CreateUserRequest{Username: "reader", Email: "reader@example.com"})
	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")

	_, err = env.service.User.Create(ctx, &request.CreateUserRequest{Username: "me", Email: "me@example.com"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")

	_, err = env.service.User.Create(ctx, &request.CreateUserRequest{Username: "boss", Email: "boss@example.com", Role: "root"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")
}

func TestUserAdminManagement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "alice", entity.RoleUser)
	env.createUser(t, "bob", entity.RoleUser)

	list, err := env.service.User.List(ctx, "AL", request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "alice", list.Data[0].Username)

	updated, err := env.service.User.Update(ctx, "alice", &request.UpdateUserRequest{Role: lo.ToPtr("moderator")})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleModerator, updated.Role)

	_, err = env.service.User.Update(ctx, "alice", &request.UpdateUserRequest{Email: lo.ToPtr("bob@example.com")})
	assert.ErrorIs(t, err, utils.ErrValidation)

	require.NoError(t, env.service.User.Delete(ctx, "bob"))
	_, err = env.service.User.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUpdateMeIgnoresRole(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "reader", entity.RoleUser)

	resp, err := env.service.User.UpdateMe(as(user), &request.UpdateUserRequest{
		Bio:  lo.ToPtr("hello"),
		Role: lo.ToPtr("admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, resp.Role)
	require.NotNil(t, resp.Bio)
	assert.Equal(t, "hello", *resp.Bio)

	me, err := env.service.User.Me(as(user))
	require.NoError(t, err)
	assert.Equal(t, "reader", me.Username)

	_, err = env.service.User.Me(context.Background())
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}
