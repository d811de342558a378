package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"catalog-api/internal/dto/request"
	"catalog-api/pkg/token"
	"catalog-api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCodeCreatesUserOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := &request.RequestCodeRequest{Email: "new@example.com"}

	resp, err := env.service.Auth.RequestCode(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", resp.Email)

	_, err = env.service.Auth.RequestCode(ctx, req)
	require.NoError(t, err)

	total, err := env.repo.User.CountAll(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	user, err := env.repo.User.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "new@example.com", user.Username)

	require.Len(t, env.sender.messages, 2)
	msg := env.sender.messages[0]
	assert.Equal(t, []string{"new@example.com"}, msg.To)
	assert.Equal(t, "Confirmation code", msg.Subject)
	assert.Contains(t, msg.Body, "Your confirmation code: ")
}

func TestRequestCodeInvalidEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Auth.RequestCode(context.Background(), &request.RequestCodeRequest{Email: "not-an-email"})

	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Empty(t, env.sender.messages)
}

func TestRequestCodeEmailLongerThanUsername(t *testing.T) {
	env := newTestEnv(t)
	email := strings.Repeat("a", 139) + "@example.com"
	require.Len(t, email, 151)

	_, err := env.service.Auth.RequestCode(context.Background(), &request.RequestCodeRequest{Email: email})

	var verr *utils.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Empty(t, env.sender.messages)
}

func TestRequestCodeSendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.sender.err = errors.New("smtp down")

	_, err := env.service.Auth.RequestCode(context.Background(), &request.RequestCodeRequest{Email: "a@example.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, utils.ErrValidation)
}

func TestExchangeCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Auth.RequestCode(ctx, &request.RequestCodeRequest{Email: "reader@example.com"})
	require.NoError(t, err)
	code := env.sender.lastCode(t)

	t.Run("wrong code", func(t *testing.T) {
		_, err := env.service.Auth.ExchangeCode(ctx, &request.TokenRequest{
			Email:            "reader@example.com",
			ConfirmationCode: "not-the-code",
		})
		var verr *utils.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "confirmation_code")
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.service.Auth.ExchangeCode(ctx, &request.TokenRequest{
			Email:            "ghost@example.com",
			ConfirmationCode: code,
		})
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})

	t.Run("correct code", func(t *testing.T) {
		resp, err := env.service.Auth.ExchangeCode(ctx, &request.TokenRequest{
			Email:            "reader@example.com",
			ConfirmationCode: code,
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		require.NotEmpty(t, resp.Refresh)

		claims, err := env.tokens.Validate(resp.Token, token.KindAccess)
		require.NoError(t, err)
		assert.Equal(t, "user", claims.Role)

		user, err := env.repo.User.FindByEmail(ctx, "reader@example.com")
		require.NoError(t, err)
		assert.NotNil(t, user.LastLogin)
	})

	t.Run("code is single use", func(t *testing.T) {
		_, err := env.service.Auth.ExchangeCode(ctx, &request.TokenRequest{
			Email:            "reader@example.com",
			ConfirmationCode: code,
		})
		assert.ErrorIs(t, err, utils.ErrValidation)
	})
}

func TestReissueInvalidatesOlderCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := &request.RequestCodeRequest{Email: "reader@example.com"}

	_, err := env.service.Auth.RequestCode(ctx, req)
	require.NoError(t, err)
	first := env.sender.lastCode(t)

	_, err = env.service.Auth.RequestCode(ctx, req)
	require.NoError(t, err)
	second := env.sender.lastCode(t)

	if first != second {
		_, err = env.service.Auth.ExchangeCode(ctx, &request.TokenRequest{Email: req.Email, ConfirmationCode: first})
		assert.ErrorIs(t, err, utils.ErrValidation)
	}

	_, err = env.service.Auth.ExchangeCode(ctx, &request.TokenRequest{Email: req.Email, ConfirmationCode: second})
	assert.NoError(t, err)
}

func TestCodeBoundToAccountState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Auth.RequestCode(ctx, &request.RequestCodeRequest{Email: "reader@example.com"})
	require.NoError(t, err)
	code := env.sender.lastCode(t)

	user, err := env.repo.User.FindByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	user.Role = "moderator"
	require.NoError(t, env.repo.User.Update(ctx, user))

	_, err = env.service.Auth.ExchangeCode(ctx, &request.TokenRequest{Email: "reader@example.com", ConfirmationCode: code})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "reader", "user")

	pair, err := env.tokens.IssuePair(user.ID, "user")
	require.NoError(t, err)

	resp, err := env.service.Auth.Refresh(ctx, &request.RefreshRequest{Refresh: pair.Refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.Refresh)

	_, err = env.service.Auth.Refresh(ctx, &request.RefreshRequest{Refresh: pair.Access})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	require.NoError(t, env.repo.User.Delete(ctx, user.ID))
	_, err = env.service.Auth.Refresh(ctx, &request.RefreshRequest{Refresh: pair.Refresh})
	assert.ErrorIs(t, err, utils.ErrUnauthorized)
}
