package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/data/repository/memory"
	"catalog-api/pkg/mailer"
	"catalog-api/pkg/token"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// captureSender records every message instead of delivering it.
type captureSender struct {
	mu       sync.Mutex
	messages []mailer.Message
	err      error
}

func (c *captureSender) Send(_ context.Context, msg mailer.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, msg)
	return nil
}

// lastCode extracts the code from the most recent message body.
func (c *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.messages)
	body := c.messages[len(c.messages)-1].Body
	idx := strings.LastIndex(body, ": ")
	require.NotEqual(t, -1, idx)
	return strings.TrimSpace(body[idx+2:])
}

type testEnv struct {
	repo    *repository.Repository
	service *Service
	tokens  *token.Manager
	sender  *captureSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := token.NewManager(utils.JWTConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)

	repo := memory.New().Repository()
	sender := &captureSender{}
	authConfig := AuthConfig{
		From:       "noreply@catalog.test",
		Subject:    "Confirmation code",
		CodeLabel:  "Your confirmation code",
		CodeTTL:    time.Hour,
		CodeLength: 6,
	}

	return &testEnv{
		repo:    repo,
		service: NewService(repo, tokens, sender, authConfig, zap.NewNop()),
		tokens:  tokens,
		sender:  sender,
	}
}

func (e *testEnv) createUser(t *testing.T, username string, role entity.UserRole) *entity.User {
	t.Helper()
	now := time.Now()
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(t, e.repo.User.Create(context.Background(), user))
	return user
}

func (e *testEnv) createTitle(t *testing.T, name string) *entity.Title {
	t.Helper()
	now := time.Now()
	title := &entity.Title{
		Base: entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name: name,
		Year: 2000,
	}
	require.NoError(t, e.repo.Title.Create(context.Background(), title, nil))
	return title
}

func as(user *entity.User) context.Context {
	return utils.SetUserContext(context.Background(), user.ID, string(user.Role), user.IsSuperuser)
}
