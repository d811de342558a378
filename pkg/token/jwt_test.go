package token

import (
	"testing"
	"time"

	"catalog-api/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(utils.JWTConfig{
		Secret:     "test-secret-with-enough-length-000",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager(utils.JWTConfig{})
	assert.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	m := newManager(t)
	userID := uuid.New()

	pair, err := m.IssuePair(userID, "moderator")
	require.NoError(t, err)

	claims, err := m.Validate(pair.Access, KindAccess)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	assert.Equal(t, "moderator", claims.Role)

	_, err = m.Validate(pair.Refresh, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = m.Validate(pair.Refresh, KindRefresh)
	assert.NoError(t, err)
}

func TestValidateRejects(t *testing.T) {
	m := newManager(t)
	access, err := m.IssueAccess(uuid.New(), "user")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { m.now = time.Now }()

		_, err := m.Validate(access, KindAccess)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewManager(utils.JWTConfig{Secret: "another-secret", AccessTTL: time.Hour})
		require.NoError(t, err)

		_, err = other.Validate(access, KindAccess)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("invalid.jwt.token", KindAccess)
		assert.Error(t, err)
	})
}
